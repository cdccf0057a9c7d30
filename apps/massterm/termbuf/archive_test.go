// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/massterm/termbuf/archive_test.go
// Summary: Archive round trips and search.

package termbuf

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/pragmatrix/massive-terminal/apps/massterm/engine"
)

func openTestArchive(t *testing.T) *Archive {
	t.Helper()
	a, err := OpenArchive(filepath.Join(t.TempDir(), "history", "archive.db"))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func textLine(s string) engine.Line {
	var l engine.Line
	for _, r := range s {
		l.Cells = append(l.Cells, engine.Cell{Text: string(r), Width: 1})
	}
	return l
}

func TestArchiveRestoresCells(t *testing.T) {
	a := openTestArchive(t)
	l := textLine("ok")
	l.Cells[0].FG = engine.Color{Mode: engine.ColorRGB, R: 1, G: 2, B: 3}
	l.Cells[1].Link = &engine.Hyperlink{URI: "https://example.com"}
	l.Wrapped = true
	l.Version = 42

	if err := a.Store([]ArchivedLine{{Row: 7, Line: l}}); err != nil {
		t.Fatalf("store: %v", err)
	}
	got, err := a.Line(7)
	if err != nil {
		t.Fatalf("line: %v", err)
	}
	if got.Text() != "ok" || !got.Wrapped || got.Version != 0 {
		t.Fatalf("line = %+v", got)
	}
	if got.Cells[0].FG != l.Cells[0].FG || got.Cells[1].Link == nil || got.Cells[1].Link.URI != "https://example.com" {
		t.Fatalf("cells = %+v", got.Cells)
	}

	if _, err := a.Line(8); !errors.Is(err, ErrNotArchived) {
		t.Fatalf("missing row err = %v", err)
	}
}

func TestArchiveSearchNewestFirst(t *testing.T) {
	a := openTestArchive(t)
	err := a.Store([]ArchivedLine{
		{Row: 1, Line: textLine("make test")},
		{Row: 2, Line: textLine("ls")},
		{Row: 3, Line: textLine("make build")},
	})
	if err != nil {
		t.Fatalf("store: %v", err)
	}

	matches, err := a.Search("make", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(matches) != 2 || matches[0].Row != 3 || matches[1].Text != "make test" {
		t.Fatalf("matches = %+v", matches)
	}

	matches, _ = a.Search("make", 1)
	if len(matches) != 1 {
		t.Fatalf("limit ignored: %+v", matches)
	}
}

func TestBufferArchivesIntoSQLite(t *testing.T) {
	a := openTestArchive(t)
	b := New(5, 1, WithScrollback(1), WithArchive(a))
	write(t, b, "one\r\ntwo\r\nsix")

	got, err := a.Line(0)
	if err != nil {
		t.Fatalf("line 0: %v", err)
	}
	if got.Text() != "one" {
		t.Fatalf("row 0 = %q", got.Text())
	}
}
