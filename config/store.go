// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/store.go
// Summary: Load and reload logic for config store.

package config

import "log"

// loadFile reads path, seeding it with def when it is missing or empty, and
// applies the code defaults on top.
func loadFile(path string, def Config, applyDefaults func(Config)) (Config, bool, error) {
	cfg, exists, readErr := readConfig(path)
	if readErr != nil {
		log.Printf("Config: Failed to read %s: %v", path, readErr)
		cfg = make(Config)
	}

	if len(cfg) == 0 && readErr == nil {
		if def != nil {
			cfg = def
		} else {
			cfg = make(Config)
		}
		applyDefaults(cfg)
		if err := writeConfig(path, cfg); err != nil {
			log.Printf("Config: Failed to write default config %s: %v", path, err)
			readErr = err
		}
		return cfg, exists, readErr
	}

	applyDefaults(cfg)
	return cfg, exists, readErr
}

func loadSystemLocked() error {
	path, err := systemConfigPath()
	if err != nil {
		log.Printf("Config: Failed to resolve system config path: %v", err)
		system = make(Config)
		applySystemDefaults(system)
		return err
	}

	cfg, exists, readErr := loadFile(path, defaultSystemConfig(), applySystemDefaults)
	system = cfg
	if readErr == nil && exists {
		log.Printf("Config: Loaded system config from %s", path)
	}
	return readErr
}

func loadAppLocked(name string) (Config, error) {
	path, err := appConfigPath(name)
	if err != nil {
		return nil, err
	}

	apply := func(cfg Config) { applyAppDefaults(name, cfg) }
	cfg, exists, readErr := loadFile(path, defaultAppConfig(name), apply)
	if readErr == nil && exists {
		log.Printf("Config: Loaded app %q config from %s", name, path)
	}
	return cfg, readErr
}
