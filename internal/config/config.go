// Package config loads ccprep settings from defaults, an optional config
// file, a .env file and CCPREP_* environment variables, in increasing order
// of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "CCPREP"

// Config holds all application configuration.
type Config struct {
	// DBPath is the SQLite database file. Empty means the default data dir.
	DBPath string `mapstructure:"db_path"`

	// CatalogPath is a directory of question bundles. Empty means the
	// embedded catalog.
	CatalogPath string `mapstructure:"catalog_path"`

	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	// RecentWindow is how many recent attempts count as "recently seen"
	// when sampling.
	RecentWindow int `mapstructure:"recent_window" validate:"gte=0"`

	// WeakThreshold is the domain average (percent) below which a domain is weak.
	WeakThreshold float64 `mapstructure:"weak_threshold" validate:"gte=0,lte=100"`

	// ReviewLimit caps the number of questions in a wrong-answers review.
	ReviewLimit int `mapstructure:"review_limit" validate:"gt=0"`

	// TargetScore is used when no goal has been saved.
	TargetScore int `mapstructure:"target_score" validate:"gte=100,lte=1000"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		LogLevel:      "info",
		RecentWindow:  3,
		WeakThreshold: 70,
		ReviewLimit:   20,
		TargetScore:   800,
	}
}

// Validate checks every field against its constraints.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Load reads the configuration. file is an optional YAML, TOML or JSON
// config file; a missing .env in the working directory is not an error.
func Load(file string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	def := DefaultConfig()
	v.SetDefault("db_path", def.DBPath)
	v.SetDefault("catalog_path", def.CatalogPath)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("recent_window", def.RecentWindow)
	v.SetDefault("weak_threshold", def.WeakThreshold)
	v.SetDefault("review_limit", def.ReviewLimit)
	v.SetDefault("target_score", def.TargetScore)

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", file, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
