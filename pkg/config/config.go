// Package config provides Viper-based configuration for contentplan.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/coolbeans/contentplan/pkg/backfill"
	"github.com/coolbeans/contentplan/pkg/validate"
)

// EnvPrefix prefixes every environment variable read by Load, e.g.
// CONTENTPLAN_BACKFILL_MIN_PIECES.
const EnvPrefix = "CONTENTPLAN"

// Config represents the complete contentplan configuration
type Config struct {
	Patterns   PatternsConfig   `mapstructure:"patterns"`
	Output     OutputConfig     `mapstructure:"output"`
	Backfill   BackfillConfig   `mapstructure:"backfill"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Validation ValidationConfig `mapstructure:"validation"`
}

// PatternsConfig locates override pattern sets
type PatternsConfig struct {
	Dir string `mapstructure:"dir"`
}

// OutputConfig contains output settings
type OutputConfig struct {
	Dir     string   `mapstructure:"dir"`
	Formats []string `mapstructure:"formats"`
	Colors  string   `mapstructure:"colors"`
	Brand   string   `mapstructure:"brand"`
}

// BackfillConfig contains placeholder padding settings
type BackfillConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	MinPieces     int    `mapstructure:"min_pieces"`
	MinStrategies int    `mapstructure:"min_strategies"`
	Channel       string `mapstructure:"channel"`
	Month         string `mapstructure:"month"`
	Year          int    `mapstructure:"year"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// ValidationConfig contains gate settings
type ValidationConfig struct {
	Strict             bool     `mapstructure:"strict"`
	FailOnWarn         bool     `mapstructure:"fail_on_warn"`
	SkipGates          []string `mapstructure:"skip_gates"`
	ExpectedPieces     int      `mapstructure:"expected_pieces"`
	ExpectedStrategies int      `mapstructure:"expected_strategies"`

	// Thresholds maps gate name to metric name to minimum score.
	Thresholds map[string]map[string]float64 `mapstructure:"thresholds"`
}

// Load reads configuration from file and environment variables. An empty
// cfgFile searches for .contentplan.yaml in the working directory and in
// $HOME/.config/contentplan; a missing file is not an error.
func Load(cfgFile string) (*Config, error) {
	return LoadWith(viper.New(), cfgFile)
}

// LoadWith is Load on a caller-supplied viper instance, so that command
// flags bound to v take precedence over file and environment values.
func LoadWith(v *viper.Viper, cfgFile string) (*Config, error) {
	// Set config file if specified
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".contentplan")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/contentplan")
	}

	// Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values
func setDefaults(v *viper.Viper) {
	v.SetDefault("patterns.dir", "")

	v.SetDefault("output.dir", "outputs")
	v.SetDefault("output.formats", []string{"json", "yaml"})
	v.SetDefault("output.colors", "auto")
	v.SetDefault("output.brand", "")

	v.SetDefault("backfill.enabled", true)
	v.SetDefault("backfill.min_pieces", validate.DefaultExpectedPieces)
	v.SetDefault("backfill.min_strategies", validate.DefaultExpectedStrategies)
	v.SetDefault("backfill.channel", "LinkedIn")
	v.SetDefault("backfill.month", "January")
	v.SetDefault("backfill.year", 0)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.development", false)

	v.SetDefault("validation.strict", false)
	v.SetDefault("validation.fail_on_warn", false)
	v.SetDefault("validation.skip_gates", []string{})
	v.SetDefault("validation.expected_pieces", validate.DefaultExpectedPieces)
	v.SetDefault("validation.expected_strategies", validate.DefaultExpectedStrategies)
}

// validateConfig checks the configuration for errors
func validateConfig(cfg *Config) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s (must be debug, info, warn, or error)", cfg.Logging.Level)
	}

	validColors := map[string]bool{"auto": true, "always": true, "never": true}
	if !validColors[cfg.Output.Colors] {
		return fmt.Errorf("invalid color mode: %s (must be auto, always, or never)", cfg.Output.Colors)
	}

	for _, format := range cfg.Output.Formats {
		switch strings.ToLower(format) {
		case "json", "yaml", "yml":
		default:
			return fmt.Errorf("invalid output format: %s (must be json or yaml)", format)
		}
	}

	if cfg.Backfill.MinPieces < 0 || cfg.Backfill.MinStrategies < 0 {
		return fmt.Errorf("backfill minimums must not be negative")
	}
	if cfg.Validation.ExpectedPieces <= 0 || cfg.Validation.ExpectedStrategies <= 0 {
		return fmt.Errorf("expected pieces and strategies must be positive")
	}

	return nil
}

// BackfillOptions converts the backfill section for the backfill package.
func (c *Config) BackfillOptions() backfill.Options {
	return backfill.Options{
		MinPieces:     c.Backfill.MinPieces,
		MinStrategies: c.Backfill.MinStrategies,
		Channel:       c.Backfill.Channel,
		Month:         c.Backfill.Month,
		Year:          c.Backfill.Year,
		Brand:         c.Output.Brand,
	}
}

// GateConfig converts the validation section for the validate package.
func (c *Config) GateConfig() *validate.ValidationConfig {
	gateConfig := validate.DefaultValidationConfig()
	gateConfig.StrictMode = c.Validation.Strict
	gateConfig.FailOnWarn = c.Validation.FailOnWarn
	gateConfig.SkipGates = append(gateConfig.SkipGates, c.Validation.SkipGates...)
	gateConfig.ExpectedPieces = c.Validation.ExpectedPieces
	gateConfig.ExpectedStrategies = c.Validation.ExpectedStrategies
	for gateName, metrics := range c.Validation.Thresholds {
		for metricName, threshold := range metrics {
			gateConfig.Thresholds[gateName+"."+metricName] = threshold
		}
	}
	return gateConfig
}
