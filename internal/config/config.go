// Package config holds runtime configuration, loaded from a YAML file
// and VISITPIPE_ environment variables via viper.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config is the full runtime configuration.
type Config struct {
	HistoryDB     string `mapstructure:"history_db" yaml:"history_db"`
	RunsDB        string `mapstructure:"runs_db" yaml:"runs_db"`
	HTTPAddr      string `mapstructure:"http_addr" yaml:"http_addr"`
	DropDir       string `mapstructure:"drop_dir" yaml:"drop_dir"`
	ExportDir     string `mapstructure:"export_dir" yaml:"export_dir"`
	ExportFormat  string `mapstructure:"export_format" yaml:"export_format"`
	EnableWatcher bool   `mapstructure:"enable_watcher" yaml:"enable_watcher"`
	Verbose       bool   `mapstructure:"verbose" yaml:"verbose"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		HistoryDB:    "data/history.db",
		RunsDB:       "data/runs.db",
		HTTPAddr:     ":8080",
		DropDir:      "data/incoming",
		ExportDir:    "data/exports",
		ExportFormat: "csv",
	}
}

// Load reads configuration from the given viper instance, falling back
// to defaults for unset keys.
func Load(v *viper.Viper) (Config, error) {
	cfg := Default()
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the pipeline cannot run with.
func (c Config) Validate() error {
	switch c.ExportFormat {
	case "", "csv", "json", "yaml":
	default:
		return fmt.Errorf("unknown export format %q", c.ExportFormat)
	}
	if c.HistoryDB == "" {
		return fmt.Errorf("history_db must be set")
	}
	if c.RunsDB == "" {
		return fmt.Errorf("runs_db must be set")
	}
	return nil
}
