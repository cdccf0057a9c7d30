// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/massterm/settings.go
// Summary: Typed settings read from the massterm app config.

package massterm

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/pragmatrix/massive-terminal/apps/massterm/buckets"
	"github.com/pragmatrix/massive-terminal/apps/massterm/scroller"
	"github.com/pragmatrix/massive-terminal/apps/massterm/termbuf"
	"github.com/pragmatrix/massive-terminal/config"
)

// AppName is the config name of the terminal app.
const AppName = "massterm"

// Settings configure a Term.
type Settings struct {
	// Shell is the command started in the pty. Empty uses $SHELL.
	Shell      string
	Scrollback int
	// ArchivePath is the SQLite file receiving trimmed scrollback. Empty
	// disables archiving.
	ArchivePath string

	CellWidth      uint32
	CellHeight     uint32
	Ascender       uint32
	BucketSize     int
	ScrollDuration time.Duration

	DragGain   float64
	WheelLines int
	EdgeZone   int

	WordBoundary  string
	MultiClick    time.Duration
	CopyOnSelect  bool
	PasteOnMiddle bool
}

// DefaultSettings returns the built-in settings.
func DefaultSettings() Settings {
	return Settings{
		Scrollback:     termbuf.DefaultScrollback,
		CellWidth:      8,
		CellHeight:     16,
		Ascender:       12,
		BucketSize:     buckets.DefaultBucketSize,
		ScrollDuration: scroller.DefaultScrollDuration,
		DragGain:       scroller.DefaultDragGain,
		WheelLines:     3,
		EdgeZone:       2,
		MultiClick:     DefaultMultiClickTimeout,
		CopyOnSelect:   true,
		PasteOnMiddle:  true,
	}
}

// LoadSettings reads the massterm sections of cfg. Missing keys keep their
// defaults.
func LoadSettings(cfg config.Config) Settings {
	s := DefaultSettings()
	if cfg == nil {
		return s
	}

	s.Shell = cfg.GetString("massterm", "shell", s.Shell)
	s.Scrollback = cfg.GetInt("massterm", "scrollback_lines", s.Scrollback)
	if cfg.GetBool("massterm", "archive_enabled", false) {
		s.ArchivePath = cfg.GetString("massterm", "archive_path", "")
		if s.ArchivePath == "" {
			s.ArchivePath = defaultArchivePath()
		}
	}

	s.CellWidth = uint32(max(cfg.GetInt("massterm.view", "cell_width", int(s.CellWidth)), 1))
	s.CellHeight = uint32(max(cfg.GetInt("massterm.view", "cell_height", int(s.CellHeight)), 1))
	s.Ascender = uint32(max(cfg.GetInt("massterm.view", "ascender", int(s.Ascender)), 0))
	s.BucketSize = cfg.GetInt("massterm.view", "bucket_size", s.BucketSize)
	s.ScrollDuration = cfg.GetDuration("massterm.view", "scroll_duration_ms", s.ScrollDuration)

	s.DragGain = cfg.GetFloat("massterm.scroll", "drag_gain", s.DragGain)
	s.WheelLines = cfg.GetInt("massterm.scroll", "wheel_lines", s.WheelLines)
	s.EdgeZone = cfg.GetInt("massterm.scroll", "edge_zone", s.EdgeZone)

	s.WordBoundary = cfg.GetString("massterm.selection", "word_boundary", s.WordBoundary)
	s.MultiClick = cfg.GetDuration("massterm.selection", "multi_click_ms", s.MultiClick)
	s.CopyOnSelect = cfg.GetBool("massterm.selection", "copy_on_select", s.CopyOnSelect)
	s.PasteOnMiddle = cfg.GetBool("massterm.selection", "paste_on_middle", s.PasteOnMiddle)
	return s
}

func defaultArchivePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		log.Printf("Massterm: no cache dir for the scrollback archive: %v", err)
		return ""
	}
	return filepath.Join(dir, "massterm", "scrollback.db")
}

func (s Settings) shell() string {
	if s.Shell != "" {
		return s.Shell
	}
	if sh := os.Getenv("SHELL"); sh != "" {
		return sh
	}
	return "/bin/bash"
}
