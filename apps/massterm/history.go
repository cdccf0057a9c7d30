// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/massterm/history.go
// Summary: Queries against the scrollback archive for the command line.

package massterm

import (
	"errors"
	"fmt"
	"io"

	"github.com/pragmatrix/massive-terminal/apps/massterm/termbuf"
)

// ErrNoArchive is returned by the history queries when no archive is
// configured.
var ErrNoArchive = errors.New("massterm: no scrollback archive configured")

func openHistory(path string) (*termbuf.Archive, error) {
	if path == "" {
		return nil, ErrNoArchive
	}
	return termbuf.OpenArchive(path)
}

// SearchHistory writes the archived rows containing query to w, newest
// first, as "row<TAB>text" lines. It returns the number of matches.
func SearchHistory(w io.Writer, path, query string, limit int) (int, error) {
	a, err := openHistory(path)
	if err != nil {
		return 0, err
	}
	defer a.Close()

	if limit <= 0 {
		limit = 100
	}
	matches, err := a.Search(query, limit)
	if err != nil {
		return 0, fmt.Errorf("search %q: %w", query, err)
	}
	for _, m := range matches {
		if _, err := fmt.Fprintf(w, "%d\t%s\n", m.Row, m.Text); err != nil {
			return 0, err
		}
	}
	return len(matches), nil
}

// PrintHistoryRow writes the text of an archived row to w.
func PrintHistoryRow(w io.Writer, path string, row int64) error {
	a, err := openHistory(path)
	if err != nil {
		return err
	}
	defer a.Close()

	l, err := a.Line(row)
	if err != nil {
		return fmt.Errorf("row %d: %w", row, err)
	}
	_, err = fmt.Fprintln(w, l.Text())
	return err
}
