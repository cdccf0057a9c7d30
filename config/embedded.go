// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/embedded.go
// Summary: Parsed defaults from the embedded JSON files.
//
// The embedded files seed new config files on disk. The code defaults in
// defaults.go then fill any key the file lacks.

package config

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/tidwall/jsonc"

	"github.com/pragmatrix/massive-terminal/defaults"
)

var (
	embeddedMu    sync.Mutex
	embeddedCache = make(map[string]Config)
)

// embedded parses and caches an embedded file. A missing file yields nil.
func embedded(key string, read func() ([]byte, error)) Config {
	embeddedMu.Lock()
	defer embeddedMu.Unlock()
	if cfg, ok := embeddedCache[key]; ok {
		return Clone(cfg)
	}

	var cfg Config
	if data, err := read(); err == nil {
		if err := json.Unmarshal(jsonc.ToJSON(data), &cfg); err != nil {
			log.Printf("Config: Bad embedded defaults %s: %v", key, err)
			cfg = nil
		}
	}
	embeddedCache[key] = cfg
	return Clone(cfg)
}

func defaultSystemConfig() Config {
	return embedded("", defaults.SystemConfig)
}

func defaultAppConfig(app string) Config {
	return embedded("app:"+app, func() ([]byte, error) { return defaults.AppConfig(app) })
}
