// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/defaults.go
// Summary: Fallback values for keys missing from config files.

package config

// Section and app names.
const (
	SectionVList    = "vlist"
	AppListView     = "listview"
	SectionListView = "listview"
)

func applySystemDefaults(cfg Config) {
	if cfg == nil {
		return
	}
	cfg.RegisterDefaults(SectionVList, Section{
		"default_estimate":  1.0,
		"overscan_before":   4.0,
		"overscan_after":    8.0,
		"jitter_threshold":  1.0,
		"epsilon":           0.5,
		"frame_interval_ms": 16,
	})
}

func applyAppDefaults(app string, cfg Config) {
	if cfg == nil {
		return
	}
	switch app {
	case AppListView:
		cfg.RegisterDefaults(SectionListView, Section{
			"style":           "monokai",
			"database":        "",
			"show_indicators": true,
		})
	}
}
