// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/massterm/engine/line.go
// Summary: Cells, lines, colors and cursor state.

package engine

import (
	"strings"
)

// ColorMode selects how a Color is interpreted.
type ColorMode uint8

const (
	ColorDefault ColorMode = iota
	ColorStandard
	Color256
	ColorRGB
)

// Color is a terminal color.
type Color struct {
	Mode  ColorMode `cbor:"1,keyasint,omitempty"`
	Index uint8     `cbor:"2,keyasint,omitempty"`
	R     uint8     `cbor:"3,keyasint,omitempty"`
	G     uint8     `cbor:"4,keyasint,omitempty"`
	B     uint8     `cbor:"5,keyasint,omitempty"`
}

var DefaultColor = Color{Mode: ColorDefault}

// Attr is a bit set of cell attributes.
type Attr uint16

const (
	AttrBold Attr = 1 << iota
	AttrFaint
	AttrItalic
	AttrUnderline
	AttrReverse
	AttrStrike
	AttrHidden
)

// Hyperlink is an OSC 8 link target.
type Hyperlink struct {
	ID  string `cbor:"1,keyasint,omitempty"`
	URI string `cbor:"2,keyasint"`
}

// Cell is one column of a line. A wide grapheme occupies a cell of Width 2
// followed by a spacer cell of Width 0.
type Cell struct {
	Text  string     `cbor:"1,keyasint,omitempty"`
	Width uint8      `cbor:"2,keyasint,omitempty"`
	FG    Color      `cbor:"3,keyasint,omitempty"`
	BG    Color      `cbor:"4,keyasint,omitempty"`
	Attr  Attr       `cbor:"5,keyasint,omitempty"`
	Link  *Hyperlink `cbor:"6,keyasint,omitempty"`
}

// BlankCell is an empty cell with default colors.
var BlankCell = Cell{Text: " ", Width: 1}

// IsSpacer reports whether c is the trailing half of a wide grapheme.
func (c Cell) IsSpacer() bool {
	return c.Width == 0
}

// SameStyle reports whether two cells can share one glyph run.
func (c Cell) SameStyle(o Cell) bool {
	return c.FG == o.FG && c.BG == o.BG && c.Attr == o.Attr && c.Link == o.Link
}

// Line is one physical row.
type Line struct {
	Cells []Cell `cbor:"1,keyasint,omitempty"`
	// Wrapped is set when the line continues on the next row.
	Wrapped bool `cbor:"2,keyasint,omitempty"`
	// Version is the engine version of the last modification.
	Version uint64 `cbor:"3,keyasint,omitempty"`
}

// Len returns the number of columns.
func (l Line) Len() int {
	return len(l.Cells)
}

// Text returns the line's text. Spacer cells contribute nothing.
func (l Line) Text() string {
	return l.ColumnsText(0, len(l.Cells))
}

// ColumnsText returns the text of the columns [from, to), clamped to the
// line.
func (l Line) ColumnsText(from, to int) string {
	from = max(from, 0)
	to = min(to, len(l.Cells))
	var sb strings.Builder
	for i := from; i < to; i++ {
		c := l.Cells[i]
		if c.IsSpacer() {
			continue
		}
		if c.Text == "" {
			sb.WriteByte(' ')
			continue
		}
		sb.WriteString(c.Text)
	}
	return sb.String()
}

// Clone returns a deep copy of the cell slice.
func (l Line) Clone() Line {
	cells := make([]Cell, len(l.Cells))
	copy(cells, l.Cells)
	l.Cells = cells
	return l
}

// BlankLine returns a line of n blank cells.
func BlankLine(n int) Line {
	cells := make([]Cell, n)
	for i := range cells {
		cells[i] = BlankCell
	}
	return Line{Cells: cells}
}

// CursorShape is the DECSCUSR cursor style.
type CursorShape uint8

const (
	CursorDefault CursorShape = iota
	CursorBlinkingBlock
	CursorSteadyBlock
	CursorBlinkingUnderline
	CursorSteadyUnderline
	CursorBlinkingBar
	CursorSteadyBar
)

// CursorStyle is the drawn form of a shape.
type CursorStyle uint8

const (
	StyleBlock CursorStyle = iota
	StyleUnderline
	StyleBar
)

// Style folds blinking and steady variants together.
func (s CursorShape) Style() CursorStyle {
	switch s {
	case CursorBlinkingUnderline, CursorSteadyUnderline:
		return StyleUnderline
	case CursorBlinkingBar, CursorSteadyBar:
		return StyleBar
	default:
		return StyleBlock
	}
}

// Cursor is the engine's cursor. Row is relative to the visible top.
type Cursor struct {
	Column  int
	Row     int
	Visible bool
	Shape   CursorShape
}
