// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/massterm/view/selection.go
// Summary: Selection highlight visual.

package view

import (
	"slices"

	"github.com/pragmatrix/massive-terminal/apps/massterm/geometry"
	"github.com/pragmatrix/massive-terminal/apps/massterm/scene"
	"github.com/pragmatrix/massive-terminal/apps/massterm/selection"
)

type selectionVisual struct {
	visual scene.VisualHandle
	frame  scene.FrameHandle
	rows   geometry.RowRange
	rects  []scene.Rect
}

// CellRect is a rectangle in cell units.
type CellRect struct {
	Column, Row   int64
	Width, Height int64
}

// SelectionRects returns the one to three cell rectangles covering r: the
// partial first row, the full middle rows and the partial last row.
// Columns are clamped to the grid.
func SelectionRects(r selection.Range, columns int) []CellRect {
	cols := int64(columns)
	clampCol := func(c int64) int64 { return min(max(c, 0), cols) }
	startX, endX := clampCol(r.Start.Column), clampCol(r.End.Column)
	rows := r.End.Row + 1 - r.Start.Row

	if rows == 1 {
		return []CellRect{{Column: startX, Row: r.Start.Row, Width: min(endX+1, cols) - startX, Height: 1}}
	}
	top := CellRect{Column: startX, Row: r.Start.Row, Width: cols - startX, Height: 1}
	bottom := CellRect{Column: 0, Row: r.End.Row, Width: min(endX+1, cols), Height: 1}
	if rows == 2 {
		return []CellRect{top, bottom}
	}
	middle := CellRect{Column: 0, Row: r.Start.Row + 1, Width: cols, Height: rows - 2}
	return []CellRect{top, middle, bottom}
}

// UpdateSelection shows the selection highlight, or removes it for nil.
// The visual lives in the frame of the selection's first row.
func (v *View) UpdateSelection(r *selection.Range) {
	if r == nil {
		v.removeSelection()
		return
	}
	term := v.params.Terminal
	cw, ch := float64(term.CellWidth), float64(term.CellHeight)

	// Rows are placed relative to the first row's top inside its frame.
	frame, top := v.alloc.Acquire(r.Start.Row)

	var rects []scene.Rect
	for _, cr := range SelectionRects(*r, term.Columns) {
		if cr.Width <= 0 {
			continue
		}
		rects = append(rects, scene.Rect{
			Left:   float64(cr.Column) * cw,
			Top:    float64(top) + float64(cr.Row-r.Start.Row)*ch,
			Width:  float64(cr.Width) * cw,
			Height: float64(cr.Height) * ch,
			Color:  v.params.Palette.Selection,
		})
	}
	shapes := make([]scene.Shape, len(rects))
	for i, rc := range rects {
		shapes[i] = rc
	}

	if s := v.selection; s != nil && s.frame == frame {
		s.rows = r.Rows()
		if !slices.Equal(s.rects, rects) {
			s.rects = rects
			v.scene.UpdateVisual(s.visual, shapes)
		}
		return
	}
	v.removeSelection()
	v.selection = &selectionVisual{
		visual: v.scene.StageVisual(frame, scene.LayerSelection, shapes),
		frame:  frame,
		rows:   r.Rows(),
		rects:  rects,
	}
}

// SelectionRows returns the rows of the shown selection.
func (v *View) SelectionRows() (geometry.RowRange, bool) {
	if v.selection == nil {
		return geometry.RowRange{}, false
	}
	return v.selection.rows, true
}

func (v *View) removeSelection() {
	if v.selection == nil {
		return
	}
	v.scene.RemoveVisual(v.selection.visual)
	v.selection = nil
}
