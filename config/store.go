// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/store.go
// Summary: Load logic for the config store; first runs write embedded defaults.

package config

import "go.uber.org/zap"

func loadSystemLocked() error {
	path, err := systemConfigPath()
	if err != nil {
		logger.Warn("failed to resolve system config path", zap.Error(err))
		system = make(Config)
		applySystemDefaults(system)
		return err
	}

	cfg, readErr := loadOrSeed(path, defaultSystemConfig)
	applySystemDefaults(cfg)
	system = cfg
	return readErr
}

func loadAppLocked(name string) (Config, error) {
	path, err := appConfigPath(name)
	if err != nil {
		return nil, err
	}
	cfg, readErr := loadOrSeed(path, func() Config { return defaultAppConfig(name) })
	applyAppDefaults(name, cfg)
	return cfg, readErr
}

// loadOrSeed reads path. A missing or empty file is replaced with the
// embedded defaults and written back.
func loadOrSeed(path string, seed func() Config) (Config, error) {
	cfg, exists, readErr := readConfig(path)
	if readErr != nil {
		logger.Warn("failed to read config", zap.String("path", path), zap.Error(readErr))
		return make(Config), readErr
	}
	if exists && len(cfg) > 0 {
		logger.Debug("loaded config", zap.String("path", path))
		return cfg, nil
	}

	cfg = seed()
	if cfg == nil {
		return make(Config), nil
	}
	if err := writeConfig(path, cfg); err != nil {
		logger.Warn("failed to write default config", zap.String("path", path), zap.Error(err))
		return cfg, err
	}
	return cfg, nil
}
