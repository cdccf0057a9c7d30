// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/config.go
// Summary: Process-wide store of the system config and per-app configs.
//
// Files live under the user config dir:
//
//	massterm/massterm.json               system config
//	massterm/apps/<app>/config.json      app config
//
// A missing file is created from the embedded defaults on first access.

package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/tidwall/jsonc"
)

const systemConfigName = "massterm.json"

// Config stores configuration sections as JSON-compatible data.
type Config map[string]interface{}

// Section stores key/value pairs for a configuration section.
type Section map[string]interface{}

var (
	mu      sync.RWMutex
	once    sync.Once
	system  Config
	apps    map[string]Config
	loadErr error
)

func initStore() {
	mu.Lock()
	defer mu.Unlock()
	apps = make(map[string]Config)
	loadErr = loadSystemLocked()
}

// Err returns the error of loading the system config, if any.
func Err() error {
	once.Do(initStore)
	mu.RLock()
	defer mu.RUnlock()
	return loadErr
}

// System returns the system config.
func System() Config {
	once.Do(initStore)
	mu.RLock()
	defer mu.RUnlock()
	return system
}

// App returns the config of the named app, loading it on first use. A config
// that fails to load is replaced by the defaults.
func App(name string) Config {
	if name == "" {
		return nil
	}
	once.Do(initStore)

	mu.Lock()
	defer mu.Unlock()
	if cfg, ok := apps[name]; ok {
		return cfg
	}
	cfg, err := loadAppLocked(name)
	if err != nil {
		log.Printf("Config: Failed to load app %q config: %v", name, err)
		cfg = make(Config)
		applyAppDefaults(name, cfg)
	}
	apps[name] = cfg
	return cfg
}

// SetSystem replaces the in-memory system config.
func SetSystem(cfg Config) {
	once.Do(initStore)
	mu.Lock()
	defer mu.Unlock()
	system = cloneOrEmpty(cfg)
}

// SetApp replaces the in-memory config of an app. It is not written to disk
// until SaveApp.
func SetApp(name string, cfg Config) {
	if name == "" {
		return
	}
	once.Do(initStore)
	mu.Lock()
	defer mu.Unlock()
	apps[name] = cloneOrEmpty(cfg)
}

// SaveSystem writes the system config to disk.
func SaveSystem() error {
	once.Do(initStore)
	mu.RLock()
	defer mu.RUnlock()
	path, err := systemConfigPath()
	if err != nil {
		return err
	}
	return writeConfig(path, system)
}

// SaveApp writes an app config to disk.
func SaveApp(name string) error {
	if name == "" {
		return nil
	}
	once.Do(initStore)
	mu.Lock()
	defer mu.Unlock()
	cfg, ok := apps[name]
	if !ok {
		cfg = make(Config)
		applyAppDefaults(name, cfg)
		apps[name] = cfg
	}
	path, err := appConfigPath(name)
	if err != nil {
		return err
	}
	return writeConfig(path, cfg)
}

func cloneOrEmpty(cfg Config) Config {
	if cfg == nil {
		return make(Config)
	}
	return Clone(cfg)
}

// readConfig reports a missing file as not existing without an error.
// Files may carry comments and trailing commas.
func readConfig(path string) (Config, bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var cfg Config
	if err := json.Unmarshal(jsonc.ToJSON(data), &cfg); err != nil {
		return nil, true, err
	}
	return cfg, true, nil
}

func writeConfig(path string, cfg Config) error {
	if cfg == nil {
		cfg = make(Config)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
