package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Output formats accepted by the format setting.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// DefaultDBPath is the catalog database used when none is configured.
const DefaultDBPath = "assembly_system.db"

// WatchConfig controls how catalog file changes are picked up by
// show-assembly --watch and the browser.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// Config holds all runtime configuration for a sysarch invocation.
// Values are populated from .sysarch.yaml, SYSARCH_* env vars, and CLI flags.
type Config struct {
	DBPath   string      `mapstructure:"db"`
	Format   string      `mapstructure:"format"`
	LogLevel string      `mapstructure:"log_level"`
	Color    bool        `mapstructure:"color"`
	Journal  string      `mapstructure:"journal"`
	Watch    WatchConfig `mapstructure:"watch"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	viper.SetDefault("db", DefaultDBPath)
	viper.SetDefault("format", FormatText)
	viper.SetDefault("log_level", "warn")
	viper.SetDefault("color", true)
	viper.SetDefault("journal", "")
	viper.SetDefault("watch.debounce", 100*time.Millisecond)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	cfg.Format = strings.ToLower(strings.TrimSpace(cfg.Format))
	switch cfg.Format {
	case FormatText, FormatJSON, FormatYAML:
	default:
		return Config{}, fmt.Errorf("config: unsupported format %q (want text, json or yaml)", cfg.Format)
	}
	if cfg.DBPath == "" {
		return Config{}, fmt.Errorf("config: db path must not be empty")
	}
	if cfg.Watch.Debounce <= 0 {
		cfg.Watch.Debounce = 100 * time.Millisecond
	}
	return cfg, nil
}
