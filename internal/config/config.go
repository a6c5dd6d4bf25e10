package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration for a cepheid session.
// Values are populated from .cepheid.yaml, CEPHEID_* env vars, and CLI flags.
type Config struct {
	SolverURL     string  `mapstructure:"solver_url"`
	DatabasePath  string  `mapstructure:"database_path"`
	TelemetryPath string  `mapstructure:"telemetry_path"`
	ExtendRange   float64 `mapstructure:"extend_range"`
	Verbose       bool    `mapstructure:"verbose"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	viper.SetDefault("solver_url", "http://localhost:8001")
	viper.SetDefault("database_path", ".cepheid/cepheid.db")
	viper.SetDefault("telemetry_path", ".cepheid/events.jsonl")
	viper.SetDefault("extend_range", 0.1)
	viper.SetDefault("verbose", false)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}
