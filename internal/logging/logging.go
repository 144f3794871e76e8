// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

// Package logging builds the application's zap logger.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"vawter.tech/keyrate/internal/config"
)

// New returns a logger that writes to the configured file inside the
// output directory. The terminal belongs to the collector, so nothing
// is written to stdout or stderr other than zap's own internal errors.
// A nil configuration produces a logger suitable for help output.
func New(verbose bool, cfg *config.Config) (*zap.Logger, error) {
	var zapConfig zap.Config
	if verbose {
		zapConfig = zap.NewDevelopmentConfig()
	} else {
		zapConfig = zap.NewProductionConfig()
		zapConfig.DisableStacktrace = true
	}

	if cfg == nil {
		zapConfig.OutputPaths = []string{"stderr"}
		return zapConfig.Build()
	}

	if cfg.Logging.Level != "" {
		var level zapcore.Level
		if err := level.UnmarshalText([]byte(cfg.Logging.Level)); err != nil {
			return nil, fmt.Errorf("logging level: %w", err)
		}
		zapConfig.Level = zap.NewAtomicLevelAt(level)
	}

	if cfg.Logging.File == "" {
		return zap.NewNop(), nil
	}
	logFile := cfg.Logging.File
	if !filepath.IsAbs(logFile) {
		logFile = filepath.Join(cfg.Output.Directory, logFile)
	}
	if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	zapConfig.OutputPaths = []string{logFile}

	return zapConfig.Build()
}
