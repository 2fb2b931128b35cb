// Package config provides Viper-based configuration loading for the converter.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// ConvertConfig holds the batch conversion settings.
type ConvertConfig struct {
	// SourceDir is the root of the script tree scanned recursively for input files.
	SourceDir string `mapstructure:"source_dir"`
	// OutputDir receives one converted file per input file.
	OutputDir string `mapstructure:"output_dir"`
	// Extensions lists the input file extensions to convert (e.g. ".scp").
	Extensions []string `mapstructure:"extensions"`
	// OutputExtension replaces the input extension on every output file.
	OutputExtension string `mapstructure:"output_extension"`
	// StripPrefixes are removed from the start of input base names.
	StripPrefixes []string `mapstructure:"strip_prefixes"`
	// RootRegion names the region every other region ultimately descends from.
	RootRegion string `mapstructure:"root_region"`
	// Report enables writing conversion-report.yaml into OutputDir.
	Report bool `mapstructure:"report"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// File is an optional path for an additional rotated JSON log.
	File string `mapstructure:"file"`
}

// Config is the top-level application configuration.
type Config struct {
	Convert ConvertConfig `mapstructure:"convert"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateConvert(c.Convert); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateConvert(c ConvertConfig) error {
	var errs []string
	if c.SourceDir == "" {
		errs = append(errs, "convert.source_dir must not be empty")
	}
	if c.OutputDir == "" {
		errs = append(errs, "convert.output_dir must not be empty")
	}
	if len(c.Extensions) == 0 {
		errs = append(errs, "convert.extensions must list at least one extension")
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			errs = append(errs, fmt.Sprintf("convert.extensions entries must start with '.', got %q", ext))
		}
	}
	if !strings.HasPrefix(c.OutputExtension, ".") {
		errs = append(errs, fmt.Sprintf("convert.output_extension must start with '.', got %q", c.OutputExtension))
	}
	if c.RootRegion == "" {
		errs = append(errs, "convert.root_region must not be empty")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// New returns a Viper instance with defaults and SPHERECONV_ environment
// overrides applied. If path is non-empty the file is read as well.
//
// Postcondition: Returns a configured Viper or a non-nil error when path cannot be read.
func New(path string) (*viper.Viper, error) {
	v := viper.New()

	// Environment variable overrides with SPHERECONV_ prefix
	v.SetEnvPrefix("SPHERECONV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	return v, nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v, err := New(path)
	if err != nil {
		return Config{}, err
	}
	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("convert.source_dir", "")
	v.SetDefault("convert.output_dir", "")
	v.SetDefault("convert.extensions", []string{".scp"})
	v.SetDefault("convert.output_extension", ".def")
	v.SetDefault("convert.strip_prefixes", []string{"sphere_", "sphere"})
	v.SetDefault("convert.root_region", "world")
	v.SetDefault("convert.report", true)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file", "")
}
