// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/types.go
// Summary: Typed access to config sections.
//
// Values come from JSON, so numbers arrive as float64. Setters and tests may
// store ints or strings; the getters accept all of them.

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

// ensureSection returns the named section, creating it if needed.
func (c Config) ensureSection(sectionName string) Section {
	if s := c.Section(sectionName); s != nil {
		return s
	}
	s := make(Section)
	c[sectionName] = s
	return s
}

// RegisterDefaults adds the keys of defaults that the section lacks.
func (c Config) RegisterDefaults(sectionName string, defaults Section) {
	if c == nil || defaults == nil {
		return
	}
	section := c.ensureSection(sectionName)
	for key, value := range defaults {
		if _, ok := section[key]; !ok {
			section[key] = value
		}
	}
}

// Set stores a value, creating the section if needed.
func (c Config) Set(sectionName, key string, value interface{}) {
	if c == nil {
		return
	}
	c.ensureSection(sectionName)[key] = value
}

func (c Config) lookup(sectionName, key string) (interface{}, bool) {
	section := c.Section(sectionName)
	if section == nil {
		return nil, false
	}
	v, ok := section[key]
	return v, ok
}

// GetString retrieves a string value.
func (c Config) GetString(sectionName, key, defaultValue string) string {
	if v, ok := c.lookup(sectionName, key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return defaultValue
}

// GetFloat retrieves a number.
func (c Config) GetFloat(sectionName, key string, defaultValue float64) float64 {
	if v, ok := c.lookup(sectionName, key); ok {
		if f, ok := number(v); ok {
			return f
		}
	}
	return defaultValue
}

// GetInt retrieves a number truncated to an int.
func (c Config) GetInt(sectionName, key string, defaultValue int) int {
	if v, ok := c.lookup(sectionName, key); ok {
		if i, ok := v.(int); ok {
			return i
		}
		if f, ok := number(v); ok {
			return int(f)
		}
	}
	return defaultValue
}

// GetDuration retrieves a duration stored in milliseconds.
func (c Config) GetDuration(sectionName, key string, defaultValue time.Duration) time.Duration {
	if v, ok := c.lookup(sectionName, key); ok {
		if f, ok := number(v); ok {
			return time.Duration(f * float64(time.Millisecond))
		}
	}
	return defaultValue
}

// GetBool retrieves a boolean.
func (c Config) GetBool(sectionName, key string, defaultValue bool) bool {
	if v, ok := c.lookup(sectionName, key); ok {
		switch v := v.(type) {
		case bool:
			return v
		case string:
			if b, err := strconv.ParseBool(v); err == nil {
				return b
			}
		}
	}
	return defaultValue
}

func number(v interface{}) (float64, bool) {
	switch v := v.(type) {
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
