// Package config loads daemon configuration from file, environment and
// defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds all daemon settings.
type Config struct {
	DataDir string `mapstructure:"data_dir" validate:"required"`

	MaxHistoryItems int `mapstructure:"max_history_items" validate:"min=1"`
	MaxHistoryDays  int `mapstructure:"max_history_days" validate:"min=1"`

	MonitorIntervalMs int `mapstructure:"monitor_interval_ms" validate:"min=50"`
	MaxItemSizeBytes  int `mapstructure:"max_item_size_bytes" validate:"min=1"`
	PreviewTimeoutMs  int `mapstructure:"preview_timeout_ms" validate:"min=100"`

	Log LogConfig `mapstructure:"log"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Default returns a Config with the stock settings. The data dir lands
// under the user's config directory.
func Default() *Config {
	return &Config{
		DataDir:           defaultDataDir(),
		MaxHistoryItems:   1000,
		MaxHistoryDays:    30,
		MonitorIntervalMs: 500,
		MaxItemSizeBytes:  10 * 1024 * 1024, // 10MB
		PreviewTimeoutMs:  3000,
		Log: LogConfig{
			Level:  "info",
			Format: "auto",
		},
	}
}

// Load reads configuration from the given file (optional), environment
// variables prefixed SLATE_, and defaults, then validates the result.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	defaults := Default()
	v.SetDefault("data_dir", defaults.DataDir)
	v.SetDefault("max_history_items", defaults.MaxHistoryItems)
	v.SetDefault("max_history_days", defaults.MaxHistoryDays)
	v.SetDefault("monitor_interval_ms", defaults.MonitorIntervalMs)
	v.SetDefault("max_item_size_bytes", defaults.MaxItemSizeBytes)
	v.SetDefault("preview_timeout_ms", defaults.PreviewTimeoutMs)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.format", defaults.Log.Format)

	v.SetEnvPrefix("SLATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("slate")
		v.SetConfigType("yaml")
		v.AddConfigPath(defaults.DataDir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// No config file is fine; defaults and env apply.
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// DatabasePath returns the history database file location.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "clipboard.db")
}

// PollInterval returns the clipboard poll interval as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.MonitorIntervalMs) * time.Millisecond
}

// PreviewTimeout returns the enrichment timeout as a duration.
func (c *Config) PreviewTimeout() time.Duration {
	return time.Duration(c.PreviewTimeoutMs) * time.Millisecond
}

func defaultDataDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ".slate"
	}
	return filepath.Join(base, "slate")
}
