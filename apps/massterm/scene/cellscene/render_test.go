// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/massterm/scene/cellscene/render_test.go
// Summary: Cell compositing of glyphs, backgrounds, selection and cursor.

package cellscene

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/pragmatrix/massive-terminal/apps/massterm/scene"
)

type stubScreen struct {
	w, h  int
	text  map[[2]int]string
	style map[[2]int]tcell.Style
	shown int
}

func newStubScreen(w, h int) *stubScreen {
	return &stubScreen{w: w, h: h, text: map[[2]int]string{}, style: map[[2]int]tcell.Style{}}
}

func (s *stubScreen) Size() (int, int) { return s.w, s.h }
func (s *stubScreen) Show()            { s.shown++ }

func (s *stubScreen) SetContent(x, y int, mainc rune, combc []rune, style tcell.Style) {
	s.text[[2]int{x, y}] = string(append([]rune{mainc}, combc...))
	s.style[[2]int{x, y}] = style
}

func (s *stubScreen) row(y int) string {
	out := ""
	for x := 0; x < s.w; x++ {
		out += s.text[[2]int{x, y}]
	}
	return out
}

func (s *stubScreen) attrs(x, y int) tcell.AttrMask {
	_, _, a := s.style[[2]int{x, y}].Decompose()
	return a
}

var (
	white = scene.RGB(255, 255, 255)
	black = scene.RGB(0, 0, 0)
	red   = scene.RGB(255, 0, 0)
)

func TestRenderGlyphsAndBackgrounds(t *testing.T) {
	scr := newStubScreen(6, 3)
	r := New(10, 20, white, black)

	r.Render(scr, []scene.PlacedVisual{{
		Layer:     scene.LayerLines,
		Transform: scene.Translate(20),
		Shapes: []scene.Shape{
			scene.Rect{Left: 10, Top: 0, Width: 20, Height: 20, Color: red},
			scene.GlyphRun{Left: 10, Foreground: white, Weight: scene.WeightBold, Glyphs: []scene.Glyph{
				{Offset: 0, Text: "h", Columns: 1},
				{Offset: 1, Text: "世", Columns: 2},
			}},
		},
	}})

	if scr.shown != 1 {
		t.Fatalf("shown %d times", scr.shown)
	}
	if got := scr.row(1); got != " h世  " {
		t.Fatalf("row 1 = %q", got)
	}
	if _, covered := scr.text[[2]int{3, 1}]; covered {
		t.Fatalf("trailing half of wide glyph was drawn")
	}
	_, bg, attr := scr.style[[2]int{1, 1}].Decompose()
	if bg != tcell.NewRGBColor(255, 0, 0) || attr&tcell.AttrBold == 0 {
		t.Fatalf("style bg = %v attr = %v", bg, attr)
	}
	if _, bg, _ := scr.style[[2]int{4, 1}].Decompose(); bg != tcell.NewRGBColor(0, 0, 0) {
		t.Fatalf("background leaked: %v", bg)
	}
}

func TestRenderSnapsScrollOffsets(t *testing.T) {
	scr := newStubScreen(3, 3)
	r := New(10, 20, white, black)

	r.Render(scr, []scene.PlacedVisual{{
		Layer:     scene.LayerLines,
		Transform: scene.Translate(27),
		Shapes:    []scene.Shape{scene.GlyphRun{Glyphs: []scene.Glyph{{Text: "x", Columns: 1}}}},
	}})
	if got := scr.row(1); got != "x  " {
		t.Fatalf("row 1 = %q", got)
	}
}

func TestRenderSelectionAndCursor(t *testing.T) {
	tests := []struct {
		name  string
		layer scene.Layer
		shape scene.Shape
		want  tcell.AttrMask
	}{
		{"selection", scene.LayerSelection, scene.Rect{Left: 0, Top: 0, Width: 20, Height: 20, Color: red}, tcell.AttrReverse},
		{"block cursor", scene.LayerCursor, scene.Rect{Left: 0, Top: 0, Width: 10, Height: 20}, tcell.AttrReverse},
		{"bar cursor", scene.LayerCursor, scene.Rect{Left: 0, Top: 0, Width: 3, Height: 20}, tcell.AttrReverse},
		{"underline cursor", scene.LayerCursor, scene.Rect{Left: 0, Top: 16, Width: 10, Height: 3}, tcell.AttrUnderline},
		{"outline cursor", scene.LayerCursor, scene.StrokeRect{Left: 0, Top: 0, Width: 10, Height: 20, Thickness: 1}, tcell.AttrUnderline},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scr := newStubScreen(3, 2)
			r := New(10, 20, white, black)
			r.Render(scr, []scene.PlacedVisual{{Layer: tt.layer, Shapes: []scene.Shape{tt.shape}}})

			if scr.attrs(0, 0)&tt.want == 0 {
				t.Fatalf("cell (0,0) attrs = %v, want %v", scr.attrs(0, 0), tt.want)
			}
			if scr.attrs(2, 0) != 0 || scr.attrs(0, 1) != 0 {
				t.Fatalf("attributes leaked to other cells")
			}
		})
	}
}

func TestRenderClipsToScreen(t *testing.T) {
	scr := newStubScreen(2, 1)
	r := New(10, 20, white, black)
	r.Render(scr, []scene.PlacedVisual{{
		Layer:     scene.LayerLines,
		Transform: scene.Translate(-20),
		Shapes: []scene.Shape{
			scene.GlyphRun{Glyphs: []scene.Glyph{{Text: "a", Columns: 1}}},
			scene.GlyphRun{Top: 20, Glyphs: []scene.Glyph{{Text: "b", Columns: 1}, {Offset: 5, Text: "c", Columns: 1}}},
		},
	}})
	if got := scr.row(0); got != "b " {
		t.Fatalf("row 0 = %q", got)
	}
}

func TestRenderHostGlyphWidths(t *testing.T) {
	scr := newStubScreen(4, 1)
	r := New(10, 20, white, black)
	r.Render(scr, []scene.PlacedVisual{{
		Layer: scene.LayerLines,
		Shapes: []scene.Shape{scene.GlyphRun{Glyphs: []scene.Glyph{
			{Offset: 0, Text: "世", Columns: 1},
			{Offset: 1, Text: "a", Columns: 2},
		}}},
	}})
	// A glyph wider than its cells is replaced; a narrower one leaves its
	// trailing cell blank.
	if got := scr.row(0); got != "�a  " {
		t.Fatalf("row 0 = %q", got)
	}
}
