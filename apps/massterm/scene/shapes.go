// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/massterm/scene/shapes.go
// Summary: Shape primitives staged into visuals.

package scene

// Color is an 8-bit RGBA color.
type Color struct {
	R, G, B, A uint8
}

// RGB returns an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 0xff}
}

// WithAlpha returns c with a different alpha value.
func (c Color) WithAlpha(a uint8) Color {
	c.A = a
	return c
}

// Shape is one of GlyphRun, Rect or StrokeRect.
type Shape interface {
	isShape()
}

// Weight is the font weight of a glyph run.
type Weight uint8

const (
	WeightNormal Weight = iota
	WeightBold
	WeightLight
)

// Glyph is one grapheme cluster of a run.
type Glyph struct {
	// Offset is the column offset of the glyph from the run's start.
	Offset int
	Text   string
	// Columns is the number of cells the glyph occupies.
	Columns int
}

// GlyphRun is a horizontal run of glyphs sharing one style.
type GlyphRun struct {
	Left       float64
	Top        float64
	Foreground Color
	Weight     Weight
	Italic     bool
	Underline  bool
	Strike     bool
	Glyphs     []Glyph
}

// Rect is a filled rectangle.
type Rect struct {
	Left, Top     float64
	Width, Height float64
	Color         Color
}

// StrokeRect is a rectangle outline.
type StrokeRect struct {
	Left, Top     float64
	Width, Height float64
	Thickness     float64
	Color         Color
}

func (GlyphRun) isShape()   {}
func (Rect) isShape()       {}
func (StrokeRect) isShape() {}

// Text returns the concatenated glyph text of the run.
func (r GlyphRun) Text() string {
	n := 0
	for _, g := range r.Glyphs {
		n += len(g.Text)
	}
	b := make([]byte, 0, n)
	for _, g := range r.Glyphs {
		b = append(b, g.Text...)
	}
	return string(b)
}
