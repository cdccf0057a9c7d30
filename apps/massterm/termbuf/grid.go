// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/massterm/termbuf/grid.go
// Summary: Line store with stable row numbering for one screen.
//
// The live screen is always the last `rows` lines of the store; everything
// above it is scrollback. Rows are never renumbered: trimming the oldest
// lines advances first instead.

package termbuf

import (
	"github.com/pragmatrix/massive-terminal/apps/massterm/engine"
	"github.com/pragmatrix/massive-terminal/apps/massterm/geometry"
)

// ArchivedLine is a row trimmed off the scrollback.
type ArchivedLine struct {
	Row  int64
	Line engine.Line
}

type grid struct {
	lines      []engine.Line
	first      int64
	rows       int
	scrollback int
}

func newGrid(rows, scrollback int, first int64, version uint64) *grid {
	g := &grid{first: first, rows: rows, scrollback: max(scrollback, 0)}
	for i := 0; i < rows; i++ {
		g.lines = append(g.lines, engine.Line{Version: version})
	}
	return g
}

func (g *grid) retained() geometry.RowRange {
	return geometry.RowsWithLen(g.first, len(g.lines))
}

func (g *grid) visibleTop() int64 {
	return g.first + int64(len(g.lines)-g.rows)
}

func (g *grid) base() int {
	return len(g.lines) - g.rows
}

// screen returns the lines of the live screen.
func (g *grid) screen() []engine.Line {
	return g.lines[g.base():]
}

func (g *grid) at(row int64) (*engine.Line, bool) {
	i := row - g.first
	if i < 0 || i >= int64(len(g.lines)) {
		return nil, false
	}
	return &g.lines[i], true
}

// scrollUp moves n new lines in at the bottom and returns the lines that
// fell off the scrollback.
func (g *grid) scrollUp(n int, version uint64) []ArchivedLine {
	for i := 0; i < n; i++ {
		g.lines = append(g.lines, engine.Line{Version: version})
	}
	return g.trim(g.scrollback)
}

// trim keeps at most keep lines above the screen.
func (g *grid) trim(keep int) []ArchivedLine {
	excess := len(g.lines) - g.rows - keep
	if excess <= 0 {
		return nil
	}
	out := make([]ArchivedLine, excess)
	for i := range out {
		out[i] = ArchivedLine{Row: g.first + int64(i), Line: g.lines[i]}
	}
	g.lines = append([]engine.Line(nil), g.lines[excess:]...)
	g.first += int64(excess)
	return out
}

// insertLines inserts n blank lines at screen row y. Lines pushed past the
// bottom are lost.
func (g *grid) insertLines(y, n int, version uint64) {
	s := g.screen()
	n = min(n, g.rows-y)
	if n <= 0 {
		return
	}
	copy(s[y+n:], s[y:g.rows-n])
	for i := y; i < y+n; i++ {
		s[i] = engine.Line{}
	}
	for i := y; i < g.rows; i++ {
		s[i].Version = version
	}
}

// deleteLines removes n lines at screen row y; blank lines fill the
// bottom.
func (g *grid) deleteLines(y, n int, version uint64) {
	s := g.screen()
	n = min(n, g.rows-y)
	if n <= 0 {
		return
	}
	copy(s[y:], s[y+n:])
	for i := g.rows - n; i < g.rows; i++ {
		s[i] = engine.Line{}
	}
	for i := y; i < g.rows; i++ {
		s[i].Version = version
	}
}

// resize changes the screen height. Shrinking first drops the blank lines
// below the cursor, then moves lines into scrollback; growing pulls lines
// back from scrollback. It returns the new cursor row and trimmed lines.
func (g *grid) resize(rows, cursorY int, version uint64) (int, []ArchivedLine) {
	switch {
	case rows < g.rows:
		drop := g.rows - rows
		below := min(drop, g.rows-1-cursorY)
		g.lines = g.lines[:len(g.lines)-below]
		cursorY -= drop - below
	case rows > g.rows:
		grow := rows - g.rows
		pull := min(grow, g.base())
		cursorY += pull
		for i := 0; i < grow-pull; i++ {
			g.lines = append(g.lines, engine.Line{})
		}
	}
	g.rows = rows
	for i := range g.screen() {
		g.screen()[i].Version = version
	}
	return max(cursorY, 0), g.trim(g.scrollback)
}

// clearScrollback drops every line above the screen.
func (g *grid) clearScrollback() {
	g.trim(0)
}
