// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/logging/logging.go
// Summary: Builds the process logger.
// Usage: Interactive sessions own the terminal, so they log to a file under the
// user cache dir; headless commands log to stderr.

package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	dirName  = "texelvlist"
	fileName = "texelvlist.log"
)

// Options selects where and how much to log.
type Options struct {
	Debug bool
	// ToFile sends output to DefaultPath (or Path when set) instead of stderr.
	ToFile bool
	Path   string
}

// DefaultPath returns the log file location under the user cache dir.
func DefaultPath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, dirName, fileName), nil
}

// New builds a production logger configured by opts.
func New(opts Options) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if opts.Debug {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	config.EncoderConfig.TimeKey = "ts"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if opts.ToFile {
		path := opts.Path
		if path == "" {
			p, err := DefaultPath()
			if err != nil {
				return nil, fmt.Errorf("resolve log path: %w", err)
			}
			path = p
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		config.OutputPaths = []string{path}
		config.ErrorOutputPaths = []string{path}
	} else {
		config.OutputPaths = []string{"stderr"}
		config.ErrorOutputPaths = []string{"stderr"}
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
