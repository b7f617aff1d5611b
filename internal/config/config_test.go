package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if cfg.Analyze.Output != nil || cfg.Refine.Timeout != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
	if _, err := LoadConfig(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[analyze]
output = "json"
ai = true

[refine]
model = "gemini-test"
timeout = "5s"

[history]
curve-window = 7

[server]
addr = "127.0.0.1:9000"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Analyze.Output == nil || *cfg.Analyze.Output != "json" {
		t.Fatalf("unexpected output: %v", cfg.Analyze.Output)
	}
	if cfg.Analyze.AI == nil || !*cfg.Analyze.AI {
		t.Fatalf("expected ai enabled")
	}
	if cfg.Analyze.Graph != nil {
		t.Fatalf("expected graph unset")
	}
	if cfg.Refine.Timeout == nil || cfg.Refine.Timeout.Duration != 5*time.Second {
		t.Fatalf("unexpected timeout: %v", cfg.Refine.Timeout)
	}
	if cfg.History.CurveWindow == nil || *cfg.History.CurveWindow != 7 {
		t.Fatalf("unexpected curve window")
	}
	if cfg.Server.Addr == nil || *cfg.Server.Addr != "127.0.0.1:9000" {
		t.Fatalf("unexpected addr")
	}
}

func TestLoadConfigInvalidDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[refine]\ntimeout = \"soon\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestDefaultPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	if got := DefaultConfigPath(); got != filepath.Join("/cfg", "lukin", "config.toml") {
		t.Fatalf("unexpected config path %q", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/data", "lukin", "lukin.db") {
		t.Fatalf("unexpected db path %q", got)
	}
	if got := DefaultWordListPath("fr"); got != filepath.Join("/cfg", "lukin", "wordlists", "fr.txt") {
		t.Fatalf("unexpected word list path %q", got)
	}
}
