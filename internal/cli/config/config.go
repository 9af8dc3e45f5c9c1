package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Output formats understood by the commands
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config represents the assetrefs configuration
type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	Output OutputConfig `mapstructure:"output"`
	Hooks  HooksConfig  `mapstructure:"hooks"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// OutputConfig represents command output configuration
type OutputConfig struct {
	Format  string `mapstructure:"format"`
	NoColor bool   `mapstructure:"no_color"`
}

// HooksConfig sizes the async hook queue
type HooksConfig struct {
	Workers   int `mapstructure:"workers"`
	QueueSize int `mapstructure:"queue_size"`
}

// Load loads the configuration from assetrefs.yml or assetrefs.yaml in the
// working directory
func Load() (*Config, error) {
	return LoadFrom(".")
}

// LoadFrom loads the configuration from the given directory.
// ASSETREFS_* environment variables override file values
// (ASSETREFS_LOG_LEVEL overrides log.level).
func LoadFrom(dir string) (*Config, error) {
	v := viper.New()

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("output.format", FormatText)
	v.SetDefault("output.no_color", false)
	v.SetDefault("hooks.workers", 4)
	v.SetDefault("hooks.queue_size", 100)

	v.SetConfigName("assetrefs")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetEnvPrefix("ASSETREFS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	cfg.Output.Format = strings.ToLower(cfg.Output.Format)
	if cfg.Output.Format != FormatText && cfg.Output.Format != FormatJSON {
		return fmt.Errorf("output.format must be %q or %q, got: %s", FormatText, FormatJSON, cfg.Output.Format)
	}
	if cfg.Hooks.Workers <= 0 {
		return fmt.Errorf("hooks.workers must be positive, got: %d", cfg.Hooks.Workers)
	}
	if cfg.Hooks.QueueSize <= 0 {
		return fmt.Errorf("hooks.queue_size must be positive, got: %d", cfg.Hooks.QueueSize)
	}
	return nil
}
