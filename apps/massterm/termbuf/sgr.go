// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/massterm/termbuf/sgr.go
// Summary: SGR (Select Graphic Rendition) - text attributes and colors.

package termbuf

import (
	"github.com/charmbracelet/x/ansi"

	"github.com/pragmatrix/massive-terminal/apps/massterm/engine"
)

// handleSGR processes SGR sequences: attributes, standard, 256-color and RGB
// colors in both the semicolon and the colon form. The hyperlink survives a
// reset.
func (b *Buffer) handleSGR(params ansi.Params) {
	if len(params) == 0 {
		b.pen = pen{link: b.pen.link}
		return
	}
	for i := 0; i < len(params); i++ {
		p := params[i].Param(0)
		switch {
		case p == 0:
			b.pen = pen{link: b.pen.link}
		case p == 1:
			b.pen.attr |= engine.AttrBold
		case p == 2:
			b.pen.attr |= engine.AttrFaint
		case p == 3:
			b.pen.attr |= engine.AttrItalic
		case p == 4:
			// 4:0 turns underlining off, other styles count as underline.
			if params[i].HasMore() && i+1 < len(params) {
				i++
				if params[i].Param(1) == 0 {
					b.pen.attr &^= engine.AttrUnderline
					continue
				}
			}
			b.pen.attr |= engine.AttrUnderline
		case p == 7:
			b.pen.attr |= engine.AttrReverse
		case p == 8:
			b.pen.attr |= engine.AttrHidden
		case p == 9:
			b.pen.attr |= engine.AttrStrike
		case p == 22:
			b.pen.attr &^= engine.AttrBold | engine.AttrFaint
		case p == 23:
			b.pen.attr &^= engine.AttrItalic
		case p == 24:
			b.pen.attr &^= engine.AttrUnderline
		case p == 27:
			b.pen.attr &^= engine.AttrReverse
		case p == 28:
			b.pen.attr &^= engine.AttrHidden
		case p == 29:
			b.pen.attr &^= engine.AttrStrike
		case p >= 30 && p <= 37:
			b.pen.fg = engine.Color{Mode: engine.ColorStandard, Index: uint8(p - 30)}
		case p == 39:
			b.pen.fg = engine.DefaultColor
		case p >= 40 && p <= 47:
			b.pen.bg = engine.Color{Mode: engine.ColorStandard, Index: uint8(p - 40)}
		case p == 49:
			b.pen.bg = engine.DefaultColor
		case p >= 90 && p <= 97:
			b.pen.fg = engine.Color{Mode: engine.ColorStandard, Index: uint8(p - 90 + 8)}
		case p >= 100 && p <= 107:
			b.pen.bg = engine.Color{Mode: engine.ColorStandard, Index: uint8(p - 100 + 8)}
		case p == 38 || p == 48:
			c, ok, n := extendedColor(params[i+1:], params[i].HasMore())
			i += n
			if !ok {
				continue
			}
			if p == 38 {
				b.pen.fg = c
			} else {
				b.pen.bg = c
			}
		}
	}
}

// extendedColor parses the parameters following 38 or 48 and returns the
// number consumed.
func extendedColor(rest ansi.Params, colon bool) (engine.Color, bool, int) {
	if len(rest) == 0 {
		return engine.Color{}, false, 0
	}
	switch rest[0].Param(0) {
	case 5:
		if len(rest) < 2 {
			return engine.Color{}, false, len(rest)
		}
		return engine.Color{Mode: engine.Color256, Index: uint8(rest[1].Param(0))}, true, 2
	case 2:
		rgb := rest[1:]
		used := 4
		if colon {
			// The colon form may carry a color space id before r:g:b.
			group := 1
			for group < len(rest) && rest[group-1].HasMore() {
				group++
			}
			if group >= 5 {
				rgb = rest[2:]
			}
			used = group
		}
		if len(rgb) < 3 {
			return engine.Color{}, false, len(rest)
		}
		return engine.Color{
			Mode: engine.ColorRGB,
			R:    uint8(rgb[0].Param(0)),
			G:    uint8(rgb[1].Param(0)),
			B:    uint8(rgb[2].Param(0)),
		}, true, used
	}
	return engine.Color{}, false, 1
}
