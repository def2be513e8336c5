// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/types.go
// Summary: Typed access helpers for config store data.

package config

import (
	"encoding/json"
	"strconv"
	"time"
)

// Section returns the named section or nil if missing. The empty name
// addresses the top level.
func (c Config) Section(sectionName string) Section {
	if c == nil {
		return nil
	}
	if sectionName == "" {
		return Section(c)
	}
	switch v := c[sectionName].(type) {
	case Section:
		return v
	case map[string]interface{}:
		return Section(v)
	}
	return nil
}

// RegisterDefaults ensures a section has defaults without overwriting existing keys.
func (c Config) RegisterDefaults(sectionName string, defaults Section) {
	if c == nil || defaults == nil {
		return
	}
	section := c.Section(sectionName)
	if section == nil {
		section = make(Section, len(defaults))
		c[sectionName] = section
	}
	for key, value := range defaults {
		if _, ok := section[key]; !ok {
			section[key] = value
		}
	}
}

func (c Config) lookup(sectionName, key string) (interface{}, bool) {
	section := c.Section(sectionName)
	if section == nil {
		return nil, false
	}
	val, ok := section[key]
	return val, ok
}

// number converts the numeric shapes JSON decoding and callers produce.
func number(val interface{}) (float64, bool) {
	switch v := val.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	}
	return 0, false
}

// GetString retrieves a string value from the config.
func (c Config) GetString(sectionName, key, defaultValue string) string {
	if val, ok := c.lookup(sectionName, key); ok {
		if s, ok := val.(string); ok {
			return s
		}
	}
	return defaultValue
}

// GetFloat retrieves a float value from the config.
func (c Config) GetFloat(sectionName, key string, defaultValue float64) float64 {
	if val, ok := c.lookup(sectionName, key); ok {
		if f, ok := number(val); ok {
			return f
		}
	}
	return defaultValue
}

// GetInt retrieves an integer value from the config. Fractions truncate.
func (c Config) GetInt(sectionName, key string, defaultValue int) int {
	if val, ok := c.lookup(sectionName, key); ok {
		if f, ok := number(val); ok {
			return int(f)
		}
	}
	return defaultValue
}

// GetBool retrieves a boolean value from the config.
func (c Config) GetBool(sectionName, key string, defaultValue bool) bool {
	val, ok := c.lookup(sectionName, key)
	if !ok {
		return defaultValue
	}
	if b, ok := val.(bool); ok {
		return b
	}
	if s, ok := val.(string); ok {
		if parsed, err := strconv.ParseBool(s); err == nil {
			return parsed
		}
		return defaultValue
	}
	if f, ok := number(val); ok {
		return f != 0
	}
	return defaultValue
}

// GetMillis retrieves a duration stored as integer milliseconds.
func (c Config) GetMillis(sectionName, key string, defaultValue time.Duration) time.Duration {
	ms := c.GetInt(sectionName, key, -1)
	if ms < 0 {
		return defaultValue
	}
	return time.Duration(ms) * time.Millisecond
}

// VListSettings is the typed view of the vlist section.
type VListSettings struct {
	DefaultEstimate float64
	OverscanBefore  float64
	OverscanAfter   float64
	JitterThreshold float64
	Epsilon         float64
	FrameInterval   time.Duration
}

// VList reads the vlist section, falling back to built-in defaults for
// missing or malformed keys.
func (c Config) VList() VListSettings {
	return VListSettings{
		DefaultEstimate: c.GetFloat(SectionVList, "default_estimate", 1),
		OverscanBefore:  c.GetFloat(SectionVList, "overscan_before", 4),
		OverscanAfter:   c.GetFloat(SectionVList, "overscan_after", 8),
		JitterThreshold: c.GetFloat(SectionVList, "jitter_threshold", 1),
		Epsilon:         c.GetFloat(SectionVList, "epsilon", 0.5),
		FrameInterval:   c.GetMillis(SectionVList, "frame_interval_ms", 16*time.Millisecond),
	}
}

// ListViewSettings is the typed view of the listview app section.
type ListViewSettings struct {
	Style          string
	Database       string
	ShowIndicators bool
}

// ListView reads the listview section.
func (c Config) ListView() ListViewSettings {
	return ListViewSettings{
		Style:          c.GetString(SectionListView, "style", "monokai"),
		Database:       c.GetString(SectionListView, "database", ""),
		ShowIndicators: c.GetBool(SectionListView, "show_indicators", true),
	}
}
