// Package config loads the application configuration from a YAML
// file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the complete application configuration.
type Config struct {
	// DBPath is the SQLite dataset file.
	DBPath string `yaml:"db_path"`

	// DefaultSeries overrides the series used when a query names none.
	DefaultSeries string `yaml:"default_series"`

	// Staleness tunes the freshness warnings.
	Staleness StalenessConfig `yaml:"staleness"`

	// Log configures output.
	Log LogConfig `yaml:"log"`
}

// StalenessConfig sets the data-freshness thresholds in days.
type StalenessConfig struct {
	// AnnualMaxAgeDays is the maximum age of the latest annual
	// observation before queries warn.
	AnnualMaxAgeDays int `yaml:"annual_max_age_days"`

	// MonthlyMaxAgeDays is the same threshold for monthly data.
	MonthlyMaxAgeDays int `yaml:"monthly_max_age_days"`
}

// LogConfig configures logging output.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`

	// JSON switches output from text to JSON.
	JSON bool `yaml:"json"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		DBPath:        "cpi.db",
		DefaultSeries: "",
		Staleness: StalenessConfig{
			AnnualMaxAgeDays:  820,
			MonthlyMaxAgeDays: 90,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads a YAML config file, filling unset fields from the
// defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for contradictions.
func (c Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("db_path is required")
	}
	if c.Staleness.AnnualMaxAgeDays < 0 {
		return fmt.Errorf("staleness.annual_max_age_days must not be negative")
	}
	if c.Staleness.MonthlyMaxAgeDays < 0 {
		return fmt.Errorf("staleness.monthly_max_age_days must not be negative")
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	return nil
}
