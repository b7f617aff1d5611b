// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Analyze AnalyzeConfig `toml:"analyze"`
	Refine  RefineConfig  `toml:"refine"`
	History HistoryConfig `toml:"history"`
	Server  ServerConfig  `toml:"server"`
}

// AnalyzeConfig maps analysis settings.
type AnalyzeConfig struct {
	Output      *string `toml:"output"`
	Graph       *bool   `toml:"graph"`
	AI          *bool   `toml:"ai"`
	SaveHistory *bool   `toml:"history"`
}

// RefineConfig maps the external refinement service settings.
type RefineConfig struct {
	Endpoint  *string   `toml:"endpoint"`
	Model     *string   `toml:"model"`
	APIKeyEnv *string   `toml:"api-key-env"`
	Timeout   *Duration `toml:"timeout"`
}

// HistoryConfig maps history viewer settings.
type HistoryConfig struct {
	CurveWindow *int `toml:"curve-window"`
}

// ServerConfig maps HTTP API settings.
type ServerConfig struct {
	Addr        *string `toml:"addr"`
	SaveHistory *bool   `toml:"history"`
}

// Duration decodes TOML strings such as "30s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
