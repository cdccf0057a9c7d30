// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/massterm/shaper/shaper.go
// Summary: Converts terminal lines into glyph runs and background rects.

package shaper

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/pragmatrix/massive-terminal/apps/massterm/engine"
	"github.com/pragmatrix/massive-terminal/apps/massterm/scene"
)

// ErrMultipleLines is returned when a run would lay out on more than one
// line.
var ErrMultipleLines = errors.New("shaper: run lays out on more than one line")

// Shaper turns one line into shapes positioned at top (px) inside the
// line's frame.
type Shaper interface {
	ShapeLine(line engine.Line, top float64) ([]scene.Shape, error)
}

// CellShaper lays out glyphs on a fixed cell grid.
type CellShaper struct {
	CellWidth  uint32
	CellHeight uint32
	Palette    *Palette
}

// NewCellShaper creates a shaper with the default palette if p is nil.
func NewCellShaper(cellWidth, cellHeight uint32, p *Palette) *CellShaper {
	if p == nil {
		p = DefaultPalette()
	}
	return &CellShaper{CellWidth: max(cellWidth, 1), CellHeight: max(cellHeight, 1), Palette: p}
}

// cluster is a run of cells sharing one style.
type cluster struct {
	column int
	width  int
	cells  []engine.Cell
}

// clusters groups the visible cells of a line. Spacer cells extend the
// width of the preceding wide cell.
func clusters(line engine.Line) []cluster {
	var out []cluster
	for col, c := range line.Cells {
		if c.IsSpacer() {
			if n := len(out); n > 0 {
				out[n-1].width++
			}
			continue
		}
		if n := len(out); n > 0 && out[n-1].cells[0].SameStyle(c) {
			out[n-1].cells = append(out[n-1].cells, c)
			out[n-1].width++
			continue
		}
		out = append(out, cluster{column: col, width: 1, cells: []engine.Cell{c}})
	}
	return out
}

func (s *CellShaper) ShapeLine(line engine.Line, top float64) ([]scene.Shape, error) {
	cw := float64(s.CellWidth)
	var shapes []scene.Shape
	for _, cl := range clusters(line) {
		style := cl.cells[0]
		fg, bg, bgDefault := s.Palette.CellColors(style)
		left := float64(cl.column) * cw

		if !bgDefault {
			shapes = append(shapes, scene.Rect{
				Left:   left,
				Top:    top,
				Width:  float64(cl.width) * cw,
				Height: float64(s.CellHeight),
				Color:  bg,
			})
		}

		run, err := s.run(cl, left, top, fg)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", cl.column, err)
		}
		if len(run.Glyphs) > 0 {
			shapes = append(shapes, run)
		}
	}
	return shapes, nil
}

func (s *CellShaper) run(cl cluster, left, top float64, fg scene.Color) (scene.GlyphRun, error) {
	style := cl.cells[0]
	run := scene.GlyphRun{
		Left:       left,
		Top:        top,
		Foreground: fg,
		Italic:     style.Attr&engine.AttrItalic != 0,
		Underline:  style.Attr&engine.AttrUnderline != 0 || style.Link != nil,
		Strike:     style.Attr&engine.AttrStrike != 0,
	}
	switch {
	case style.Attr&engine.AttrBold != 0:
		run.Weight = scene.WeightBold
	case style.Attr&engine.AttrFaint != 0:
		run.Weight = scene.WeightLight
	}

	var text strings.Builder
	offset := 0
	for _, c := range cl.cells {
		cols := max(int(c.Width), 1)
		// Blank cells only advance the pen.
		if c.Text != "" && c.Text != " " {
			run.Glyphs = append(run.Glyphs, scene.Glyph{Offset: offset, Text: c.Text, Columns: cols})
			text.WriteString(c.Text)
		}
		offset += cols
	}
	if multiline(text.String()) {
		return run, ErrMultipleLines
	}
	return run, nil
}

// multiline reports whether text contains a mandatory line break.
func multiline(text string) bool {
	state := -1
	for len(text) > 0 {
		var segment string
		var mustBreak bool
		segment, text, mustBreak, state = uniseg.FirstLineSegmentInString(text, state)
		if mustBreak && (len(text) > 0 || uniseg.HasTrailingLineBreakInString(segment)) {
			return true
		}
	}
	return false
}
