// Package config provides Viper-based configuration loading for the
// object exporter.
package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// ExportConfig holds export pipeline settings.
type ExportConfig struct {
	// Workers bounds directory-run parallelism.
	Workers int `mapstructure:"workers"`
	// Split decomposes footpath objects into surface/queue/railings.
	Split bool `mapstructure:"split"`
	// RawImages keeps extracted images loose instead of compiling them.
	RawImages bool `mapstructure:"raw_images"`
	// Zip packages directory-layout exports into .parkobj archives.
	Zip bool `mapstructure:"zip"`
	// ObjectType restricts directory runs to one objectType tag; empty
	// means no filter.
	ObjectType string `mapstructure:"object_type"`
	// LanguageDir is the optional override-strings directory; empty
	// disables overrides.
	LanguageDir string `mapstructure:"language_dir"`
	// CompilerPath is the external image-compiler binary.
	CompilerPath string `mapstructure:"compiler_path"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// Config is the top-level application configuration.
type Config struct {
	Export  ExportConfig  `mapstructure:"export"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// validObjectTypes is the closed set of descriptor objectType tags the
// type filter accepts.
var validObjectTypes = map[string]bool{
	"ride": true, "scenery_small": true, "scenery_large": true,
	"wall": true, "footpath_banner": true, "footpath": true,
	"footpath_item": true, "scenery_group": true, "park_entrance": true,
	"water": true,
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error
// describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateExport(c.Export); err != nil {
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

func validateExport(e ExportConfig) error {
	var errs []string
	if e.Workers < 1 {
		errs = append(errs, fmt.Sprintf("export.workers must be >= 1, got %d", e.Workers))
	}
	if e.ObjectType != "" && !validObjectTypes[e.ObjectType] {
		errs = append(errs, fmt.Sprintf("export.object_type %q is not an exportable object type", e.ObjectType))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
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

// Load reads configuration from the given file path, applies
// environment variable overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration
// file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with OBJEXPORT_ prefix
	v.SetEnvPrefix("OBJEXPORT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper
// instance.
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

// Default returns the configuration used when no config file is given.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	cfg, err := LoadFromViper(v)
	if err != nil {
		// Defaults must always validate.
		panic(err)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("export.workers", runtime.NumCPU())
	v.SetDefault("export.split", false)
	v.SetDefault("export.raw_images", false)
	v.SetDefault("export.zip", false)
	v.SetDefault("export.object_type", "")
	v.SetDefault("export.language_dir", "")
	v.SetDefault("export.compiler_path", "gxc")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}
