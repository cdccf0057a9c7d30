// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/paths.go
// Summary: Locations of the config files.

package config

import (
	"errors"
	"os"
	"path/filepath"
)

// configPath joins elem onto the massterm config directory.
func configPath(elem ...string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{dir, "massterm"}, elem...)...), nil
}

func systemConfigPath() (string, error) {
	return configPath(systemConfigName)
}

func appConfigPath(app string) (string, error) {
	if app == "" {
		return "", errors.New("app name is required")
	}
	return configPath("apps", app, "config.json")
}
