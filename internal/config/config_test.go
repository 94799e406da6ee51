package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

// resetViper clears all viper state between tests to avoid cross-contamination.
func resetViper() {
	viper.Reset()
}

func bindEnv() {
	viper.SetEnvPrefix("KOUAN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
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
		{"StatePath", cfg.StatePath, DefaultStatePath()},
		{"Store.Backend", cfg.Store.Backend, BackendTOML},
		{"Autosave.Schedule", cfg.Autosave.Schedule, "@every 5m"},
		{"Autosave.MinInterval", cfg.Autosave.MinInterval, 2 * time.Second},
		{"Telemetry.Path", cfg.Telemetry.Path, ""},
		{"LegacyScale", cfg.LegacyScale, 0.8},
		{"View.CellWidth", cfg.View.CellWidth, 10.0},
		{"View.CellHeight", cfg.View.CellHeight, 20.0},
		{"Watch", cfg.Watch, true},
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
	tests := []struct {
		name   string
		envKey string
		envVal string
		field  func(Config) any
		want   any
	}{
		{
			name:   "state_path",
			envKey: "KOUAN_STATE_PATH",
			envVal: "/tmp/board.toml",
			field:  func(c Config) any { return c.StatePath },
			want:   "/tmp/board.toml",
		},
		{
			name:   "store.backend",
			envKey: "KOUAN_STORE_BACKEND",
			envVal: "sqlite",
			field:  func(c Config) any { return c.Store.Backend },
			want:   BackendSQLite,
		},
		{
			name:   "autosave.min_interval",
			envKey: "KOUAN_AUTOSAVE_MIN_INTERVAL",
			envVal: "750ms",
			field:  func(c Config) any { return c.Autosave.MinInterval },
			want:   750 * time.Millisecond,
		},
		{
			name:   "legacy_scale",
			envKey: "KOUAN_LEGACY_SCALE",
			envVal: "0.5",
			field:  func(c Config) any { return c.LegacyScale },
			want:   0.5,
		},
		{
			name:   "watch",
			envKey: "KOUAN_WATCH",
			envVal: "false",
			field:  func(c Config) any { return c.Watch },
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper()
			bindEnv()
			t.Setenv(tt.envKey, tt.envVal)

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() returned unexpected error: %v", err)
			}
			if got := tt.field(cfg); got != tt.want {
				t.Errorf("%s: got %v (%T), want %v (%T)", tt.name, got, got, tt.want, tt.want)
			}
		})
	}
}

func TestLoad_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  any
		msg  string
	}{
		{"backend", "store.backend", "postgres", "store.backend"},
		{"scale", "legacy_scale", 0.0, "legacy_scale"},
		{"cell", "view.cell_width", -1.0, "cell size"},
		{"interval", "autosave.min_interval", -time.Second, "min_interval"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper()
			viper.Set(tt.key, tt.val)

			_, err := Load()
			if err == nil {
				t.Fatal("Load() = nil error")
			}
			if !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("error %q does not mention %q", err, tt.msg)
			}
		})
	}
}
