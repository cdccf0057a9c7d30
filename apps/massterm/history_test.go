// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/massterm/history_test.go
// Summary: Archive queries over scrollback trimmed by a running terminal.

package massterm

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pragmatrix/massive-terminal/apps/massterm/termbuf"
)

// archivedTerm writes n numbered lines into a terminal that keeps almost no
// scrollback and returns the archive path once the terminal is stopped.
func archivedTerm(t *testing.T, n int) string {
	t.Helper()
	s := DefaultSettings()
	s.Scrollback = 2
	s.ArchivePath = filepath.Join(t.TempDir(), "scrollback.db")
	term := New(s, WithClipboard(&fakeClipboard{}))
	term.out = &bytes.Buffer{}
	term.Resize(20, 5)
	for i := 0; i < n; i++ {
		feed(term, fmt.Sprintf("line %d\r\n", i))
	}
	term.Stop()
	return s.ArchivePath
}

func TestSearchHistory(t *testing.T) {
	path := archivedTerm(t, 40)

	tests := []struct {
		name  string
		query string
		limit int
		want  []string
	}{
		{"single", "line 7", 10, []string{"7\tline 7"}},
		{"newest first", "line 2", 2, []string{"29\tline 29", "28\tline 28"}},
		{"no match", "make", 10, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			n, err := SearchHistory(&out, path, tt.query, tt.limit)
			if err != nil {
				t.Fatalf("search: %v", err)
			}
			var got []string
			if s := strings.TrimSuffix(out.String(), "\n"); s != "" {
				got = strings.Split(s, "\n")
			}
			if n != len(got) || strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Fatalf("matches = %d %q, want %q", n, got, tt.want)
			}
		})
	}
}

func TestPrintHistoryRow(t *testing.T) {
	path := archivedTerm(t, 20)

	var out bytes.Buffer
	if err := PrintHistoryRow(&out, path, 2); err != nil {
		t.Fatalf("row 2: %v", err)
	}
	if out.String() != "line 2\n" {
		t.Fatalf("row 2 = %q", out.String())
	}
	if err := PrintHistoryRow(&out, path, 1000); !errors.Is(err, termbuf.ErrNotArchived) {
		t.Fatalf("unknown row err = %v", err)
	}
}

func TestHistoryWithoutArchive(t *testing.T) {
	if _, err := SearchHistory(&bytes.Buffer{}, "", "x", 1); !errors.Is(err, ErrNoArchive) {
		t.Fatalf("search err = %v", err)
	}
	if err := PrintHistoryRow(&bytes.Buffer{}, "", 0); !errors.Is(err, ErrNoArchive) {
		t.Fatalf("row err = %v", err)
	}
}
