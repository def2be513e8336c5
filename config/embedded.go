// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/embedded.go
// Summary: Loads and caches parsed defaults from embedded JSON files.
// The embedded files in defaults/ are the single source of truth.

package config

import (
	"sync"

	"github.com/framegrace/texelvlist/defaults"
)

var (
	embeddedSystemOnce sync.Once
	embeddedSystem     Config
	embeddedSystemErr  error

	embeddedApps   = make(map[string]Config)
	embeddedAppsMu sync.RWMutex
)

func embeddedSystemDefaults() (Config, error) {
	embeddedSystemOnce.Do(func() {
		data, err := defaults.SystemConfig()
		if err != nil {
			embeddedSystemErr = err
			return
		}
		embeddedSystem, embeddedSystemErr = parseConfig(data)
	})
	return embeddedSystem, embeddedSystemErr
}

// embeddedAppDefaults returns nil without error for apps that ship no defaults.
func embeddedAppDefaults(app string) (Config, error) {
	embeddedAppsMu.RLock()
	cfg, ok := embeddedApps[app]
	embeddedAppsMu.RUnlock()
	if ok {
		return cfg, nil
	}

	data, err := defaults.AppConfig(app)
	if err != nil {
		return nil, nil
	}
	cfg, err = parseConfig(data)
	if err != nil {
		return nil, err
	}

	embeddedAppsMu.Lock()
	embeddedApps[app] = cfg
	embeddedAppsMu.Unlock()
	return cfg, nil
}

func defaultSystemConfig() Config {
	cfg, err := embeddedSystemDefaults()
	if err != nil || cfg == nil {
		return nil
	}
	return Clone(cfg)
}

func defaultAppConfig(app string) Config {
	cfg, err := embeddedAppDefaults(app)
	if err != nil || cfg == nil {
		return nil
	}
	return Clone(cfg)
}
