// Package config provides YAML-based configuration loading for Boardyard.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level Boardyard configuration, loaded from boardyard.yaml.
type Config struct {
	Port               int          `yaml:"port"`
	TargetBranch       string       `yaml:"target_branch"`
	GlobalInstructions string       `yaml:"global_instructions"`
	Notify             NotifyConfig `yaml:"notify"`
}

// NotifyConfig holds optional outbound notification settings.
type NotifyConfig struct {
	Platform   string `yaml:"platform"` // "", "log", "slack", "discord"
	Token      string `yaml:"token"`
	Channel    string `yaml:"channel"`
	DigestCron string `yaml:"digest_cron"` // 5-field cron expression, empty disables
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads a YAML config file from path and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.TargetBranch == "" {
		c.TargetBranch = "main"
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	if c.Port < 0 || c.Port > 65535 {
		errs = append(errs, fmt.Sprintf("port %d out of range", c.Port))
	}
	switch c.Notify.Platform {
	case "", "log":
	case "slack", "discord":
		if c.Notify.Token == "" {
			errs = append(errs, fmt.Sprintf("notify.token is required for platform %q", c.Notify.Platform))
		}
		if c.Notify.Channel == "" {
			errs = append(errs, fmt.Sprintf("notify.channel is required for platform %q", c.Notify.Platform))
		}
	default:
		errs = append(errs, fmt.Sprintf("unknown notify.platform %q", c.Notify.Platform))
	}
	if c.Notify.DigestCron != "" && c.Notify.Platform == "" {
		errs = append(errs, "notify.digest_cron requires a notify.platform")
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
