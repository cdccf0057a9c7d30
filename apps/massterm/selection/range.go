// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/massterm/selection/range.go
// Summary: Normalized closed selection ranges in stable cell coordinates.

package selection

import (
	"fmt"

	"github.com/pragmatrix/massive-terminal/apps/massterm/geometry"
)

// Range is a closed selection range with Start <= End in (row, column)
// order. It is never empty: Start == End selects one cell. Either end may
// lie outside the terminal and express what the user pointed at.
type Range struct {
	Start geometry.CellPos
	End   geometry.CellPos
}

// NewRange orders two positions.
func NewRange(a, b geometry.CellPos) Range {
	if b.Less(a) {
		return Range{Start: b, End: a}
	}
	return Range{Start: a, End: b}
}

// Single is the range covering one cell.
func Single(p geometry.CellPos) Range {
	return Range{Start: p, End: p}
}

// Boundary returns the smallest range covering a and b.
func Boundary(a, b Range) Range {
	start, end := a.Start, a.End
	if b.Start.Less(start) {
		start = b.Start
	}
	if end.Less(b.End) {
		end = b.End
	}
	return Range{Start: start, End: end}
}

func (r Range) String() string {
	return fmt.Sprintf("%s..=%s", r.Start, r.End)
}

// Rows returns the stable rows the range touches.
func (r Range) Rows() geometry.RowRange {
	return geometry.RowRange{Start: r.Start.Row, End: r.End.Row + 1}
}

// ColsForRow returns the half-open column range selected in row. An end of
// geometry.MaxColumn extends to the end of the row. Rows outside the range
// yield an empty range.
func (r Range) ColsForRow(row int64, rectangular bool) (int64, int64) {
	if !r.Rows().Contains(row) {
		return 0, 0
	}
	switch {
	case rectangular, r.Start.Row == r.End.Row:
		return columnRange(r.Start.Column, r.End.Column)
	case row == r.End.Row:
		return columnRange(0, r.End.Column)
	case row == r.Start.Row:
		return columnRange(r.Start.Column, geometry.MaxColumn)
	}
	return 0, geometry.MaxColumn
}

// columnRange converts an inclusive column pair in any order to a half-open
// range clamped at zero.
func columnRange(from, to int64) (int64, int64) {
	if to < from {
		from, to = to, from
	}
	end := to
	if end < geometry.MaxColumn {
		end++
	}
	return max(from, 0), max(end, 0)
}

// ClampToRows restricts the range to rows. Starts cut off above rows begin
// at column 0, ends cut off below end at the last column. It returns false
// if nothing remains.
func (r Range) ClampToRows(rows geometry.RowRange, columns int) (Range, bool) {
	if !r.Rows().Intersects(rows) {
		return Range{}, false
	}
	start, end := r.Start, r.End
	if rows.Start > start.Row {
		start = geometry.CellPos{Column: 0, Row: rows.Start}
	}
	if rows.End <= end.Row {
		end = geometry.CellPos{Column: int64(columns) - 1, Row: rows.End - 1}
	}
	if start.Row == end.Row && start.Column > end.Column {
		return Range{}, false
	}
	return NewRange(start, end), true
}

// Extend grows both ends to the granularity of mode.
func (r Range) Extend(mode Mode, src LogicalSource, wordBoundary string) Range {
	var around func(geometry.CellPos) Range
	switch mode {
	case ModeWord:
		around = func(p geometry.CellPos) Range { return wordAround(p, src, wordBoundary) }
	case ModeLine:
		around = func(p geometry.CellPos) Range { return lineAround(p, src) }
	default:
		around = func(p geometry.CellPos) Range { return cellAround(p, src) }
	}
	return Boundary(around(r.Start), around(r.End))
}
