// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/defaults.go
// Summary: Default values for system and app configuration files.

package config

func applySystemDefaults(cfg Config) {
	if cfg == nil {
		return
	}
	cfg.RegisterDefaults("", Section{
		"defaultApp": "massterm",
	})
}

func applyAppDefaults(app string, cfg Config) {
	if cfg == nil {
		return
	}
	switch app {
	case "massterm":
		cfg.RegisterDefaults("massterm", Section{
			"shell":            "",
			"scrollback_lines": 10000,
			"archive_enabled":  false,
			"archive_path":     "",
		})
		cfg.RegisterDefaults("massterm.view", Section{
			"cell_width":         8,
			"cell_height":        16,
			"ascender":           12,
			"bucket_size":        1024,
			"scroll_duration_ms": 100,
		})
		cfg.RegisterDefaults("massterm.scroll", Section{
			"drag_gain":   16.0,
			"wheel_lines": 3,
			"edge_zone":   2,
		})
		cfg.RegisterDefaults("massterm.selection", Section{
			"word_boundary":   "",
			"multi_click_ms":  500,
			"copy_on_select":  true,
			"paste_on_middle": true,
		})
	}
}
