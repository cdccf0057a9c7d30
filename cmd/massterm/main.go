// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/massterm/main.go
// Summary: Standalone entry point running the massterm terminal full screen.
// Usage: massterm [--shell PATH] [--archive FILE] [-- command args...]
//        massterm [--archive FILE] --search TEXT [--limit N]
//        massterm [--archive FILE] --row N

package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/pragmatrix/massive-terminal/apps/massterm"
	"github.com/pragmatrix/massive-terminal/config"
	"github.com/pragmatrix/massive-terminal/internal/devshell"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "massterm: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	fs := pflag.NewFlagSet("massterm", pflag.ContinueOnError)
	shell := fs.String("shell", "", "shell to run (default: config, then $SHELL)")
	archive := fs.String("archive", "", "SQLite file receiving trimmed scrollback")
	logFile := fs.String("log-file", "", "write logs to this file (default: discard)")
	cellWidth := fs.Int("cell-width", 0, "cell width in pixels")
	cellHeight := fs.Int("cell-height", 0, "cell height in pixels")
	scrollback := fs.Int("scrollback", 0, "scrollback lines kept in memory")
	search := fs.String("search", "", "print archived rows containing TEXT and exit")
	limit := fs.Int("limit", 100, "maximum number of rows printed by --search")
	row := fs.Int64("row", -1, "print one archived row and exit")

	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	// Logs would corrupt the screen.
	log.SetOutput(io.Discard)
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		log.SetOutput(f)
		log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	}
	if err := config.Err(); err != nil {
		log.Printf("Massterm: config: %v", err)
	}

	name := config.System().GetString("", "defaultApp", massterm.AppName)

	cfg := config.Clone(config.App(name))
	if cfg == nil {
		cfg = make(config.Config)
	}
	if *shell != "" {
		cfg.Set("massterm", "shell", *shell)
	}
	if *archive != "" {
		cfg.Set("massterm", "archive_enabled", true)
		cfg.Set("massterm", "archive_path", *archive)
	}
	if *scrollback > 0 {
		cfg.Set("massterm", "scrollback_lines", *scrollback)
	}
	if *cellWidth > 0 {
		cfg.Set("massterm.view", "cell_width", *cellWidth)
	}
	if *cellHeight > 0 {
		cfg.Set("massterm.view", "cell_height", *cellHeight)
	}
	config.SetApp(name, cfg)

	switch {
	case *search != "":
		n, err := massterm.SearchHistory(os.Stdout, massterm.LoadSettings(cfg).ArchivePath, *search, *limit)
		if err == nil && n == 0 {
			return fmt.Errorf("no archived row contains %q", *search)
		}
		return err
	case fs.Changed("row"):
		return massterm.PrintHistoryRow(os.Stdout, massterm.LoadSettings(cfg).ArchivePath, *row)
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("stdin and stdout must be a terminal")
	}
	return devshell.RunApp(name, fs.Args())
}
