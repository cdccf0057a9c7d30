// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/clone.go
// Summary: Copies of configs that callers may modify.

package config

// Clone copies the config and its sections. Values inside a section are
// shared.
func Clone(cfg Config) Config {
	if cfg == nil {
		return nil
	}
	out := make(Config, len(cfg))
	for name, v := range cfg {
		var section map[string]interface{}
		switch s := v.(type) {
		case Section:
			section = s
		case map[string]interface{}:
			section = s
		default:
			out[name] = v
			continue
		}
		copied := make(Section, len(section))
		for key, value := range section {
			copied[key] = value
		}
		out[name] = copied
	}
	return out
}
