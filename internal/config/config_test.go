package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("{}"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.TargetBranch != "main" {
		t.Errorf("TargetBranch = %q, want main", cfg.TargetBranch)
	}
	if cfg.Notify.Platform != "" {
		t.Errorf("Notify.Platform = %q, want empty", cfg.Notify.Platform)
	}
}

func TestParse_FullConfig(t *testing.T) {
	data := []byte(`
port: 9000
target_branch: trunk
global_instructions: be thorough
notify:
  platform: slack
  token: xoxb-test
  channel: C123
  digest_cron: "0 9 * * *"
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Port != 9000 || cfg.TargetBranch != "trunk" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Notify.Platform != "slack" || cfg.Notify.Channel != "C123" {
		t.Errorf("notify = %+v", cfg.Notify)
	}
	if cfg.Notify.DigestCron != "0 9 * * *" {
		t.Errorf("digest cron = %q", cfg.Notify.DigestCron)
	}
}

func TestParse_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"slack without token", "notify:\n  platform: slack\n  channel: C1\n", "notify.token is required"},
		{"slack without channel", "notify:\n  platform: slack\n  token: t\n", "notify.channel is required"},
		{"unknown platform", "notify:\n  platform: telegram\n", "unknown notify.platform"},
		{"digest without platform", "notify:\n  digest_cron: \"* * * * *\"\n", "digest_cron requires"},
		{"port out of range", "port: 70000\n", "out of range"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want to contain %q", err.Error(), tt.want)
			}
		})
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("port: [not a number"))
	if err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "boardyard.yaml")
	if err := os.WriteFile(path, []byte("port: 9999\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 9999 {
		t.Errorf("Port = %d, want 9999", cfg.Port)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Port != 8080 || cfg.TargetBranch != "main" {
		t.Errorf("Default() = %+v", cfg)
	}
}
