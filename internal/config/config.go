package config

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"logviewer/internal/app/errors"
)

// Config represents the application configuration
type Config struct {
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`
	Concurrency struct {
		Workers int `yaml:"workers"`
	} `yaml:"concurrency"`
	Filters struct {
		Paths    []string      `yaml:"paths"`
		Debounce time.Duration `yaml:"debounce"`
	} `yaml:"filters"`
	Logs struct {
		MaxLineLength int `yaml:"max_line_length" mapstructure:"max_line_length"`
	} `yaml:"logs"`
	Version int `yaml:"version"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	cfg := &Config{
		Version: 1,
	}

	cfg.Logging.Level = DefaultLogLevel
	cfg.Logging.Format = DefaultLogFormat

	cfg.Concurrency.Workers = MaxWorkers

	cfg.Filters.Paths = []string{}
	cfg.Filters.Debounce = DefaultDebounce

	cfg.Logs.MaxLineLength = DefaultMaxLineLength

	return cfg
}

// Load reads .env and the config file at path, applying LOGVIEWER_* environment overrides.
// A missing config file yields the defaults.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %w", errors.ErrFailedToReadConfig, err)
	}

	cfg := DefaultConfig()
	v := newViper(cfg)

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("%w: %w", errors.ErrFailedToParseConfig, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("%w: %w", errors.ErrFailedToReadConfig, err)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrFailedToParseConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrInvalidConfig, err)
	}

	return cfg, nil
}

// newViper creates a viper instance seeded with defaults so env overrides apply without a file
func newViper(cfg *Config) *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("concurrency.workers", cfg.Concurrency.Workers)
	v.SetDefault("filters.paths", cfg.Filters.Paths)
	v.SetDefault("filters.debounce", cfg.Filters.Debounce)
	v.SetDefault("logs.max_line_length", cfg.Logs.MaxLineLength)
	v.SetDefault("version", cfg.Version)

	return v
}

// Template renders the default configuration as YAML
func Template() ([]byte, error) {
	return yaml.Marshal(DefaultConfig())
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Concurrency.Workers <= 0 {
		return errors.ErrInvalidConcurrencyWorkers
	}

	if c.Filters.Debounce < 0 {
		return errors.ErrInvalidFiltersDebounce
	}

	if c.Logs.MaxLineLength <= 0 {
		return errors.ErrInvalidMaxLineLength
	}

	return nil
}
