package config

import (
	"os"
	"testing"

	"github.com/spf13/viper"
)

// resetViper clears all viper state between tests to avoid cross-contamination.
func resetViper() {
	viper.Reset()
}

func TestLoad_Defaults(t *testing.T) {
	resetViper()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"SolverURL", cfg.SolverURL, "http://localhost:8001"},
		{"DatabasePath", cfg.DatabasePath, ".cepheid/cepheid.db"},
		{"TelemetryPath", cfg.TelemetryPath, ".cepheid/events.jsonl"},
		{"ExtendRange", cfg.ExtendRange, 0.1},
		{"Verbose", cfg.Verbose, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	resetViper()

	tests := []struct {
		name   string
		envKey string
		envVal string
		field  func(Config) any
		want   any
	}{
		{
			name:   "solver_url",
			envKey: "CEPHEID_SOLVER_URL",
			envVal: "http://solver.local:9000",
			field:  func(c Config) any { return c.SolverURL },
			want:   "http://solver.local:9000",
		},
		{
			name:   "database_path",
			envKey: "CEPHEID_DATABASE_PATH",
			envVal: "/var/lib/cepheid/state.db",
			field:  func(c Config) any { return c.DatabasePath },
			want:   "/var/lib/cepheid/state.db",
		},
		{
			name:   "extend_range",
			envKey: "CEPHEID_EXTEND_RANGE",
			envVal: "0.25",
			field:  func(c Config) any { return c.ExtendRange },
			want:   0.25,
		},
		{
			name:   "verbose",
			envKey: "CEPHEID_VERBOSE",
			envVal: "true",
			field:  func(c Config) any { return c.Verbose },
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper()
			// Set env prefix so CEPHEID_* env vars map to config keys.
			viper.SetEnvPrefix("CEPHEID")
			viper.AutomaticEnv()

			os.Setenv(tt.envKey, tt.envVal)
			defer os.Unsetenv(tt.envKey)

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() returned unexpected error: %v", err)
			}
			got := tt.field(cfg)
			if got != tt.want {
				t.Errorf("%s: got %v (%T), want %v (%T)", tt.name, got, got, tt.want, tt.want)
			}
		})
	}
}

func TestLoad_DefaultsAreNotZero(t *testing.T) {
	resetViper()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.SolverURL == "" {
		t.Error("SolverURL should not be empty")
	}
	if cfg.DatabasePath == "" {
		t.Error("DatabasePath should not be empty")
	}
	if cfg.TelemetryPath == "" {
		t.Error("TelemetryPath should not be empty")
	}
	if cfg.ExtendRange == 0 {
		t.Error("ExtendRange should not be zero")
	}
}
