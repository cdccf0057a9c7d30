// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/massterm/geometry/geometry.go
// Summary: Terminal cell geometry, pixel/cell positions and the view geometry.
//
// Coordinate systems:
//   - Stable rows: signed, monotonic row indices assigned by the terminal
//     engine. They never renumber when scrollback is trimmed.
//   - Scroll pixels: stable row * line height. The scroll offset is the
//     scroll pixel shown at the top edge of the viewport.
//   - View pixels: relative to the viewport's top-left corner.

package geometry

import (
	"fmt"
	"math"
)

// MaxColumn marks a cell position that extends to the end of its row.
const MaxColumn = math.MaxInt64

// PixelPoint is a point in view pixels.
type PixelPoint struct {
	X float64
	Y float64
}

// CellPos addresses a cell by column and stable row. Positions are ordered
// by row first, then column.
type CellPos struct {
	Column int64
	Row    int64
}

func Cell(column, row int64) CellPos {
	return CellPos{Column: column, Row: row}
}

func (p CellPos) Less(o CellPos) bool {
	if p.Row != o.Row {
		return p.Row < o.Row
	}
	return p.Column < o.Column
}

func (p CellPos) String() string {
	if p.Column == MaxColumn {
		return fmt.Sprintf("(max,%d)", p.Row)
	}
	return fmt.Sprintf("(%d,%d)", p.Column, p.Row)
}

// TerminalGeometry is the cell grid of the terminal together with the pixel
// size of one cell.
type TerminalGeometry struct {
	CellWidth  uint32
	CellHeight uint32
	Columns    int
	Rows       int
}

// NewTerminalGeometry clamps all dimensions to at least one.
func NewTerminalGeometry(cellWidth, cellHeight uint32, columns, rows int) TerminalGeometry {
	return TerminalGeometry{
		CellWidth:  max(cellWidth, 1),
		CellHeight: max(cellHeight, 1),
		Columns:    max(columns, 1),
		Rows:       max(rows, 1),
	}
}

// Resized returns the geometry that fits into the given pixel area. The grid
// never shrinks below one cell.
func (g TerminalGeometry) Resized(widthPx, heightPx uint32) TerminalGeometry {
	g.Columns = max(int(widthPx/g.CellWidth), 1)
	g.Rows = max(int(heightPx/g.CellHeight), 1)
	return g
}

// LineHeight is the pixel height of one row.
func (g TerminalGeometry) LineHeight() uint32 {
	return g.CellHeight
}

// SizePx returns the pixel size of the whole grid.
func (g TerminalGeometry) SizePx() (uint32, uint32) {
	return g.CellWidth * uint32(g.Columns), g.CellHeight * uint32(g.Rows)
}

// RowOffsetPx returns the scroll pixel of the top edge of row.
func (g TerminalGeometry) RowOffsetPx(row int64) int64 {
	return row * int64(g.CellHeight)
}

// ClampPxOffset limits a scroll offset so that the viewport stays inside the
// retained buffer. If the buffer is shorter than the viewport, the offset is
// pinned to its first row.
func (g TerminalGeometry) ClampPxOffset(buffer RowRange, px float64) float64 {
	lo := float64(g.RowOffsetPx(buffer.Start))
	hi := float64(g.RowOffsetPx(buffer.End - int64(g.Rows)))
	if px > hi {
		px = hi
	}
	if px < lo {
		px = lo
	}
	return px
}

// ScrollDistance returns how far a view pixel lies outside the viewport in
// the vertical direction. The distance is negative above the top edge and
// positive below the bottom edge.
func (g TerminalGeometry) ScrollDistance(p PixelPoint) (float64, bool) {
	_, h := g.SizePx()
	switch {
	case p.Y < 0:
		return p.Y, true
	case p.Y > float64(h):
		return p.Y - float64(h), true
	}
	return 0, false
}

// CellHit is the cell under a view pixel. It may lie outside the grid.
type CellHit struct {
	Column int64
	Row    int64
}

func (h CellHit) Pos() CellPos {
	return CellPos{Column: h.Column, Row: h.Row}
}

// ViewGeometry is the stable row range the viewport covers at a given scroll
// offset.
type ViewGeometry struct {
	Terminal TerminalGeometry
	// Rows covers every row at least partially visible.
	Rows RowRange
	// AscendPx is how many pixels of the first row are scrolled above the
	// top edge, in [0, line height).
	AscendPx uint32
}

// NewViewGeometry computes the visible rows for a scroll offset in scroll
// pixels. Fractional offsets are floored.
func NewViewGeometry(term TerminalGeometry, scrollPx float64) ViewGeometry {
	lh := int64(term.LineHeight())
	px := int64(math.Floor(scrollPx))
	top := floorDiv(px, lh)
	ascend := px - top*lh
	bottom := floorDiv(px+int64(term.Rows)*lh-1, lh)
	return ViewGeometry{
		Terminal: term,
		Rows:     RowRange{Start: top, End: bottom + 1},
		AscendPx: uint32(ascend),
	}
}

// HitTestCell maps a view pixel to the cell under it. The first visible row
// starts AscendPx pixels above the top edge.
func (v ViewGeometry) HitTestCell(p PixelPoint) CellHit {
	col := math.Floor(p.X / float64(v.Terminal.CellWidth))
	row := math.Floor((p.Y + float64(v.AscendPx)) / float64(v.Terminal.CellHeight))
	return CellHit{
		Column: int64(col),
		Row:    v.Rows.Start + int64(row),
	}
}

// LinesPixelSpan returns the scroll pixel span covered by all rows of the
// view, including the partially visible ones.
func (v ViewGeometry) LinesPixelSpan() (int64, int64) {
	return v.Terminal.RowOffsetPx(v.Rows.Start), v.Terminal.RowOffsetPx(v.Rows.End)
}

// ScrollPx returns the scroll offset this geometry was computed from, at
// whole pixel resolution.
func (v ViewGeometry) ScrollPx() int64 {
	return v.Terminal.RowOffsetPx(v.Rows.Start) + int64(v.AscendPx)
}

// FloorDiv divides rounding toward negative infinity.
func FloorDiv(a, b int64) int64 {
	return floorDiv(a, b)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
