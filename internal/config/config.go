// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

// Package config loads the collector's settings from defaults, an
// optional YAML file, KEYRATE_ environment variables, and command-line
// flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to environment variable names.
const EnvPrefix = "KEYRATE"

// Config is the top-level configuration.
type Config struct {
	Measure MeasureConfig `mapstructure:"measure"`
	Output  OutputConfig  `mapstructure:"output"`
	Logging LoggingConfig `mapstructure:"logging"`
	Render  RenderConfig  `mapstructure:"render"`
}

// MeasureConfig controls a single measurement run.
type MeasureConfig struct {
	Interval time.Duration `mapstructure:"interval"`
	Update   time.Duration `mapstructure:"update"`
	Penalty  int           `mapstructure:"penalty"`
}

// OutputConfig controls where results are written.
type OutputConfig struct {
	Directory string `mapstructure:"directory"`
}

// LoggingConfig controls the log file.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// RenderConfig controls the terminal display.
type RenderConfig struct {
	FPS int `mapstructure:"fps"`
}

// flagKeys maps command-line flags onto configuration keys.
var flagKeys = map[string]string{
	"data-dir": "output.directory",
	"interval": "measure.interval",
	"update":   "measure.update",
	"penalty":  "measure.penalty",
}

// Load reads the configuration. An empty path searches for keyrate.yaml
// in the working directory; a missing file is not an error in that
// case. Flags from the set that have been changed override all other
// sources; the set may be nil.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault("measure.interval", 10*time.Second)
	v.SetDefault("measure.update", 500*time.Millisecond)
	v.SetDefault("measure.penalty", 4)
	v.SetDefault("output.directory", "data")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", "keyrate.log")
	v.SetDefault("render.fps", 20)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag %s: %w", name, err)
				}
			}
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("keyrate")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the settings are usable.
func (c *Config) Validate() error {
	var errs []error
	if c.Measure.Interval <= 0 {
		errs = append(errs, errors.New("measure.interval must be positive"))
	}
	if c.Measure.Update <= 0 {
		errs = append(errs, errors.New("measure.update must be positive"))
	}
	if c.Measure.Update > c.Measure.Interval {
		errs = append(errs, errors.New("measure.update must not exceed measure.interval"))
	}
	if c.Measure.Penalty < 0 {
		errs = append(errs, errors.New("measure.penalty must not be negative"))
	}
	if c.Output.Directory == "" {
		errs = append(errs, errors.New("output.directory is required"))
	}
	if c.Render.FPS < 1 {
		errs = append(errs, errors.New("render.fps must be >= 1"))
	}
	return errors.Join(errs...)
}
