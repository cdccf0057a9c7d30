// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/massterm/scene/cellscene/render.go
// Summary: Composites scene visuals onto a character cell screen.
//
// Pixel coordinates map to cells by the configured cell size. Frame
// translations are snapped to whole rows so smooth scrolling shows as row
// steps. Glyph runs set text and foreground, line rects set backgrounds, the
// selection layer reverses cells and the cursor layer reverses or underlines
// them.

package cellscene

import (
	"math"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/pragmatrix/massive-terminal/apps/massterm/scene"
)

// Screen is the subset of tcell.Screen the renderer draws to.
type Screen interface {
	Size() (int, int)
	SetContent(x, y int, mainc rune, combc []rune, style tcell.Style)
	Show()
}

type cell struct {
	text  string
	style tcell.Style
	// covered is set for the trailing half of a wide glyph.
	covered bool
}

// Renderer draws scene snapshots. It is not safe for concurrent use.
type Renderer struct {
	cellWidth  float64
	cellHeight float64
	base       tcell.Style
	cols, rows int
	cells      []cell
}

// New creates a renderer for cells of the given pixel size. fg and bg are
// the colors of empty cells.
func New(cellWidth, cellHeight uint32, fg, bg scene.Color) *Renderer {
	return &Renderer{
		cellWidth:  float64(max(cellWidth, 1)),
		cellHeight: float64(max(cellHeight, 1)),
		base:       tcell.StyleDefault.Foreground(color(fg)).Background(color(bg)),
	}
}

func color(c scene.Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// Render composes visuals, which must be ordered by layer, and shows the
// result.
func (r *Renderer) Render(s Screen, visuals []scene.PlacedVisual) {
	r.reset(s.Size())
	for _, v := range visuals {
		t := r.snap(v.Transform)
		for _, sh := range v.Shapes {
			switch sh := sh.(type) {
			case scene.GlyphRun:
				r.glyphs(t, sh)
			case scene.Rect:
				r.rect(t, v.Layer, sh)
			case scene.StrokeRect:
				r.outline(t, sh)
			}
		}
	}
	for y := 0; y < r.rows; y++ {
		for x := 0; x < r.cols; x++ {
			c := r.cells[y*r.cols+x]
			if c.covered {
				continue
			}
			runes := []rune(c.text)
			if len(runes) == 0 {
				runes = []rune{' '}
			}
			s.SetContent(x, y, runes[0], runes[1:], c.style)
		}
	}
	s.Show()
}

func (r *Renderer) reset(cols, rows int) {
	r.cols, r.rows = max(cols, 0), max(rows, 0)
	n := r.cols * r.rows
	if cap(r.cells) < n {
		r.cells = make([]cell, n)
	}
	r.cells = r.cells[:n]
	for i := range r.cells {
		r.cells[i] = cell{text: " ", style: r.base}
	}
}

func (r *Renderer) snap(t scene.Transform) scene.Transform {
	t.X = math.Round(t.X/r.cellWidth) * r.cellWidth
	t.Y = math.Round(t.Y/r.cellHeight) * r.cellHeight
	return t
}

func (r *Renderer) at(x, y int) *cell {
	if x < 0 || y < 0 || x >= r.cols || y >= r.rows {
		return nil
	}
	return &r.cells[y*r.cols+x]
}

// span returns the cells [from, to) covered by a pixel interval.
func span(pos, size, unit float64) (int, int) {
	from := int(math.Floor(pos/unit + 1e-9))
	to := int(math.Ceil((pos+size)/unit - 1e-9))
	return from, max(to, from+1)
}

func (r *Renderer) glyphs(t scene.Transform, run scene.GlyphRun) {
	row := int(math.Floor((run.Top+t.Y)/r.cellHeight + 1e-9))
	col := int(math.Floor((run.Left+t.X)/r.cellWidth + 1e-9))
	for _, g := range run.Glyphs {
		x := col + g.Offset
		c := r.at(x, row)
		if c == nil {
			continue
		}
		c.text = g.Text
		c.style = runStyle(c.style, run)
		// The host measures glyphs itself. A glyph it draws wider than the
		// engine laid it out would shift the rest of the row.
		w := runewidth.StringWidth(g.Text)
		if w > max(g.Columns, 1) {
			c.text, w = string(utf8.RuneError), 1
		}
		for i := 1; i < min(w, g.Columns); i++ {
			if next := r.at(x+i, row); next != nil {
				next.covered = true
			}
		}
	}
}

func runStyle(st tcell.Style, run scene.GlyphRun) tcell.Style {
	st = st.Foreground(color(run.Foreground))
	switch run.Weight {
	case scene.WeightBold:
		st = st.Bold(true)
	case scene.WeightLight:
		st = st.Dim(true)
	}
	if run.Italic {
		st = st.Italic(true)
	}
	if run.Underline {
		st = st.Underline(true)
	}
	if run.Strike {
		st = st.StrikeThrough(true)
	}
	return st
}

func (r *Renderer) rect(t scene.Transform, layer scene.Layer, rect scene.Rect) {
	x0, x1 := span(rect.Left+t.X, rect.Width, r.cellWidth)
	y0, y1 := span(rect.Top+t.Y, rect.Height, r.cellHeight)
	// A cursor thinner than a row is drawn as an underline.
	underline := layer == scene.LayerCursor && rect.Height < r.cellHeight
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			c := r.at(x, y)
			if c == nil {
				continue
			}
			switch {
			case layer == scene.LayerLines:
				c.style = c.style.Background(color(rect.Color))
			case underline:
				c.style = c.style.Underline(true)
			default:
				c.style = c.style.Reverse(true)
			}
		}
	}
}

// outline marks the cells of an unfocused cursor.
func (r *Renderer) outline(t scene.Transform, rect scene.StrokeRect) {
	x0, x1 := span(rect.Left+t.X, rect.Width, r.cellWidth)
	y0, y1 := span(rect.Top+t.Y, rect.Height, r.cellHeight)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if c := r.at(x, y); c != nil {
				c.style = c.style.Underline(true)
			}
		}
	}
}
