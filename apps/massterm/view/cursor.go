// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/massterm/view/cursor.go
// Summary: Cursor visual.

package view

import (
	"math"

	"github.com/pragmatrix/massive-terminal/apps/massterm/engine"
	"github.com/pragmatrix/massive-terminal/apps/massterm/scene"
)

// CursorShape is the drawn form of the cursor.
type CursorShape int

const (
	// CursorOutline is drawn when the window is not focused.
	CursorOutline CursorShape = iota
	CursorBlock
	CursorUnderline
	CursorBar
)

// Cursor is the cursor in stable coordinates.
type Cursor struct {
	Column  int
	Row     int64
	Visible bool
	Shape   engine.CursorShape
	Focused bool
}

type cursorVisual struct {
	visual scene.VisualHandle
	frame  scene.FrameHandle
	row    int64
}

// ShapeFor maps the engine shape and focus state to the drawn shape.
func ShapeFor(shape engine.CursorShape, focused bool) CursorShape {
	if !focused {
		return CursorOutline
	}
	switch shape.Style() {
	case engine.StyleUnderline:
		return CursorUnderline
	case engine.StyleBar:
		return CursorBar
	}
	return CursorBlock
}

// UpdateCursor shows, moves or hides the cursor.
func (v *View) UpdateCursor(c Cursor) {
	if !c.Visible {
		v.removeCursor()
		return
	}
	frame, top := v.alloc.Acquire(c.Row)
	shapes := []scene.Shape{v.cursorShape(ShapeFor(c.Shape, c.Focused), c.Column, float64(top))}

	if v.cursor != nil && v.cursor.frame == frame {
		v.scene.UpdateVisual(v.cursor.visual, shapes)
		v.cursor.row = c.Row
		return
	}
	v.removeCursor()
	v.cursor = &cursorVisual{
		visual: v.scene.StageVisual(frame, scene.LayerCursor, shapes),
		frame:  frame,
		row:    c.Row,
	}
}

// CursorRow returns the stable row of the visible cursor.
func (v *View) CursorRow() (int64, bool) {
	if v.cursor == nil {
		return 0, false
	}
	return v.cursor.row, true
}

func (v *View) removeCursor() {
	if v.cursor == nil {
		return
	}
	v.scene.RemoveVisual(v.cursor.visual)
	v.cursor = nil
}

func (v *View) cursorShape(shape CursorShape, column int, top float64) scene.Shape {
	term := v.params.Terminal
	cw, ch := float64(term.CellWidth), float64(term.CellHeight)
	left := cw * float64(column)
	thickness := math.Trunc(cw/4 + 1)
	color := v.params.Palette.Cursor

	switch shape {
	case CursorOutline:
		return scene.StrokeRect{Left: left, Top: top, Width: cw, Height: ch, Thickness: thickness, Color: color}
	case CursorUnderline:
		return scene.Rect{Left: left, Top: top + float64(v.params.AscenderPx), Width: cw, Height: thickness, Color: color}
	case CursorBar:
		return scene.Rect{Left: left, Top: top, Width: thickness, Height: ch, Color: color}
	}
	return scene.Rect{Left: left, Top: top, Width: cw, Height: ch, Color: color}
}
