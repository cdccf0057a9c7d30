// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/massterm/shaper/palette.go
// Summary: xterm 256-color palette and UI colors.

package shaper

import (
	"github.com/pragmatrix/massive-terminal/apps/massterm/engine"
	"github.com/pragmatrix/massive-terminal/apps/massterm/scene"
)

// Palette resolves terminal colors.
type Palette struct {
	Colors     [256]scene.Color
	Foreground scene.Color
	Background scene.Color
	Cursor     scene.Color
	Selection  scene.Color
}

// DefaultPalette returns the standard xterm palette with a light-on-dark
// scheme.
func DefaultPalette() *Palette {
	p := &Palette{}
	base := [16][3]uint8{
		{0, 0, 0},       // Black
		{128, 0, 0},     // Maroon
		{0, 128, 0},     // Green
		{128, 128, 0},   // Olive
		{0, 0, 128},     // Navy
		{128, 0, 128},   // Purple
		{0, 128, 128},   // Teal
		{192, 192, 192}, // Silver
		{128, 128, 128}, // Grey
		{255, 0, 0},     // Red
		{0, 255, 0},     // Lime
		{255, 255, 0},   // Yellow
		{0, 0, 255},     // Blue
		{255, 0, 255},   // Fuchsia
		{0, 255, 255},   // Aqua
		{255, 255, 255}, // White
	}
	for i, c := range base {
		p.Colors[i] = scene.RGB(c[0], c[1], c[2])
	}

	// 6x6x6 color cube
	levels := []uint8{0, 95, 135, 175, 215, 255}
	i := 16
	for r := 0; r < 6; r++ {
		for g := 0; g < 6; g++ {
			for b := 0; b < 6; b++ {
				p.Colors[i] = scene.RGB(levels[r], levels[g], levels[b])
				i++
			}
		}
	}

	// Grayscale ramp
	for j := 0; j < 24; j++ {
		gray := uint8(8 + j*10)
		p.Colors[i] = scene.RGB(gray, gray, gray)
		i++
	}

	p.Foreground = p.Colors[7]
	p.Background = p.Colors[0]
	p.Cursor = scene.RGB(0xc0, 0xc0, 0xc0)
	p.Selection = scene.RGB(0x44, 0x66, 0xaa).WithAlpha(0x80)
	return p
}

// Resolve maps an engine color to RGBA, using def for the default color.
func (p *Palette) Resolve(c engine.Color, def scene.Color) scene.Color {
	switch c.Mode {
	case engine.ColorStandard, engine.Color256:
		return p.Colors[c.Index]
	case engine.ColorRGB:
		return scene.RGB(c.R, c.G, c.B)
	}
	return def
}

// CellColors returns the foreground and background of a cell after
// applying reverse video and hidden text. bgDefault is true when the
// background is the terminal's default.
func (p *Palette) CellColors(c engine.Cell) (fg, bg scene.Color, bgDefault bool) {
	fg = p.Resolve(c.FG, p.Foreground)
	bg = p.Resolve(c.BG, p.Background)
	bgDefault = c.BG.Mode == engine.ColorDefault
	if c.Attr&engine.AttrReverse != 0 {
		fg, bg = bg, fg
		bgDefault = false
	}
	if c.Attr&engine.AttrHidden != 0 {
		fg = bg
	}
	return fg, bg, bgDefault
}
