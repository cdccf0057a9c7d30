// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/massterm/engine/engine.go
// Summary: Read-only contract between the presenter and a terminal engine.

package engine

import (
	"github.com/pragmatrix/massive-terminal/apps/massterm/geometry"
)

// Terminal is a terminal engine shared with the output-feeding goroutine.
type Terminal interface {
	// View runs fn while holding the engine lock. The Screen must not be
	// retained after fn returns.
	View(fn func(Screen))
	// Resize changes the cell grid of the engine.
	Resize(columns, rows int)
}

// Screen is the locked, read-only state of an engine.
type Screen interface {
	// Version increases with every mutation batch.
	Version() uint64
	// VisibleTop is the stable row shown at the top of the live screen.
	VisibleTop() int64
	Columns() int
	Rows() int
	// Retained is the range of stable rows the engine still holds.
	Retained() geometry.RowRange
	Cursor() Cursor
	AltScreen() bool
	// ChangedRows returns the rows in r modified after version since.
	ChangedRows(r geometry.RowRange, since uint64) geometry.RowSet
	// Lines copies the lines of r. r must lie inside Retained.
	Lines(r geometry.RowRange) []Line
	// LogicalLines returns the soft-wrapped groups covering r, extended
	// beyond r so that every group is complete.
	LogicalLines(r geometry.RowRange) []LogicalGroup
}

// LogicalGroup is a run of physical lines joined by soft wraps.
type LogicalGroup struct {
	FirstRow int64
	Lines    []Line
}

// Rows returns the stable rows covered by the group.
func (g LogicalGroup) Rows() geometry.RowRange {
	return geometry.RowsWithLen(g.FirstRow, len(g.Lines))
}
