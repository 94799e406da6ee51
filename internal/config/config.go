package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Store backends.
const (
	BackendTOML   = "toml"
	BackendSQLite = "sqlite"
)

// StoreConfig selects where the project state is written.
type StoreConfig struct {
	Backend string `mapstructure:"backend"`
}

// AutosaveConfig controls periodic and throttled saving.
type AutosaveConfig struct {
	Schedule    string        `mapstructure:"schedule"`
	MinInterval time.Duration `mapstructure:"min_interval"`
}

// TelemetryConfig enables the JSONL audit trail when Path is set.
type TelemetryConfig struct {
	Path string `mapstructure:"path"`
}

// ViewConfig maps layer units onto terminal cells.
type ViewConfig struct {
	CellWidth  float64 `mapstructure:"cell_width"`
	CellHeight float64 `mapstructure:"cell_height"`
}

// Config holds all runtime configuration for a kouan session.
// Values are populated from .kouan.yaml, KOUAN_* env vars, and CLI flags.
type Config struct {
	StatePath   string          `mapstructure:"state_path"`
	Store       StoreConfig     `mapstructure:"store"`
	Autosave    AutosaveConfig  `mapstructure:"autosave"`
	Telemetry   TelemetryConfig `mapstructure:"telemetry"`
	LegacyScale float64         `mapstructure:"legacy_scale"`
	View        ViewConfig      `mapstructure:"view"`
	Watch       bool            `mapstructure:"watch"`
	Verbose     bool            `mapstructure:"verbose"`
}

// DefaultStatePath returns ~/.kouan/project.toml, or a path in the working
// directory when the home directory is unknown.
func DefaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".kouan", "project.toml")
	}
	return filepath.Join(home, ".kouan", "project.toml")
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	viper.SetDefault("state_path", DefaultStatePath())
	viper.SetDefault("store.backend", BackendTOML)
	viper.SetDefault("autosave.schedule", "@every 5m")
	viper.SetDefault("autosave.min_interval", 2*time.Second)
	viper.SetDefault("telemetry.path", "")
	viper.SetDefault("legacy_scale", 0.8)
	viper.SetDefault("view.cell_width", 10.0)
	viper.SetDefault("view.cell_height", 20.0)
	viper.SetDefault("watch", true)
	viper.SetDefault("verbose", false)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values no component can run with.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case BackendTOML, BackendSQLite:
	default:
		return fmt.Errorf("config: store.backend %q: want %q or %q", c.Store.Backend, BackendTOML, BackendSQLite)
	}
	if c.StatePath == "" {
		return fmt.Errorf("config: state_path is empty")
	}
	if c.LegacyScale <= 0 {
		return fmt.Errorf("config: legacy_scale must be positive, got %g", c.LegacyScale)
	}
	if c.View.CellWidth <= 0 || c.View.CellHeight <= 0 {
		return fmt.Errorf("config: view cell size must be positive, got %gx%g", c.View.CellWidth, c.View.CellHeight)
	}
	if c.Autosave.MinInterval < 0 {
		return fmt.Errorf("config: autosave.min_interval is negative")
	}
	return nil
}
