package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/qwertukg/boardyard/internal/board"
	"github.com/qwertukg/boardyard/internal/config"
	"github.com/qwertukg/boardyard/internal/db"
	"github.com/qwertukg/boardyard/internal/notify"
	"github.com/qwertukg/boardyard/internal/notify/discord"
	"github.com/qwertukg/boardyard/internal/notify/slack"
	"github.com/qwertukg/boardyard/internal/server"
	"github.com/spf13/cobra"
)

const defaultConfigPath = "boardyard.yaml"

func newServeCmd() *cobra.Command {
	var (
		configPath string
		port       int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Boardyard server",
		Long:  "Starts the in-memory board store and its HTTP API. All state lives for the process lifetime only.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath, port)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to config file")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (overrides config)")
	return cmd
}

func runServe(cmd *cobra.Command, configPath string, port int) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if port > 0 {
		cfg.Port = port
	}

	gdb, err := db.Open()
	if err != nil {
		return err
	}
	if err := db.AutoMigrate(gdb); err != nil {
		return err
	}
	if err := db.SeedSettings(gdb, cfg.TargetBranch, cfg.GlobalInstructions); err != nil {
		return err
	}

	notifier, err := buildNotifier(cmd, cfg)
	if err != nil {
		return err
	}
	if notifier != nil {
		defer notifier.Close()
	}

	store := board.New(gdb, board.Opts{Notifier: notifier})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(cmd.OutOrStdout(), "\nReceived %s, shutting down...\n", sig)
		cancel()
	}()

	if notifier != nil && cfg.Notify.DigestCron != "" {
		digest, err := notify.NewDigest(notifier, store, cfg.Notify.DigestCron)
		if err != nil {
			return err
		}
		go digest.Run(ctx)
	}

	return server.Start(ctx, server.StartOpts{
		Store: store,
		Port:  cfg.Port,
		Out:   cmd.OutOrStdout(),
	})
}

// loadConfig reads the config file. A missing file at the default path is
// fine; defaults apply.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) && path == defaultConfigPath {
		return config.Default(), nil
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildNotifier wires the configured notification platform, or nothing.
func buildNotifier(cmd *cobra.Command, cfg *config.Config) (notify.Adapter, error) {
	switch cfg.Notify.Platform {
	case "":
		return nil, nil
	case "log":
		return notify.NewLogAdapter(cmd.OutOrStdout()), nil
	case "slack":
		a, err := slack.New(slack.AdapterOpts{
			BotToken:  cfg.Notify.Token,
			ChannelID: cfg.Notify.Channel,
		})
		if err != nil {
			return nil, err
		}
		return a, nil
	case "discord":
		a, err := discord.New(discord.AdapterOpts{
			BotToken:  cfg.Notify.Token,
			ChannelID: cfg.Notify.Channel,
		})
		if err != nil {
			return nil, err
		}
		return a, nil
	default:
		return nil, fmt.Errorf("unknown notify platform %q", cfg.Notify.Platform)
	}
}
