// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/massterm/mouse.go
// Summary: Mouse handling: selection, edge-zone drag scrolling and wheel.
//
// Ctrl+click on a hyperlink copies its URI instead of selecting.
//
// A character cell host never reports the pointer outside the window, so a
// drag inside the top or bottom edge zone is translated to a view pixel
// beyond that edge. The presenter then drag scrolls with a velocity that
// grows with the depth into the zone.

package massterm

import (
	"github.com/gdamore/tcell/v2"

	"github.com/pragmatrix/massive-terminal/apps/massterm/geometry"
	"github.com/pragmatrix/massive-terminal/apps/massterm/selection"
)

// mouseHandler turns tcell mouse events into presenter operations.
type mouseHandler struct {
	term   *Term
	clicks *ClickDetector

	lastButtons tcell.ButtonMask
	anchorX     int
	anchorY     int
	moved       bool
}

func newMouseHandler(t *Term) *mouseHandler {
	return &mouseHandler{
		term:   t,
		clicks: NewClickDetector(t.settings.MultiClick),
	}
}

// edgeZone returns the number of rows at each edge that drag scroll. Small
// screens get smaller zones.
func (m *mouseHandler) edgeZone(rows int) int {
	return max(min(m.term.settings.EdgeZone, rows/3), 0)
}

// inEdgeZone reports whether screen row y triggers drag scrolling.
func (m *mouseHandler) inEdgeZone(y, rows int) bool {
	zone := m.edgeZone(rows)
	return y < zone || y >= rows-zone
}

// point returns the view pixel at the center of a screen cell. While
// dragging, rows in an edge zone map beyond the viewport edge.
func (m *mouseHandler) point(x, y int, dragging bool) geometry.PixelPoint {
	g := m.term.presenter.Geometry()
	cw, ch := float64(g.CellWidth), float64(g.CellHeight)
	pt := geometry.PixelPoint{X: (float64(x) + 0.5) * cw, Y: (float64(y) + 0.5) * ch}
	if !dragging || !m.inEdgeZone(y, g.Rows) {
		return pt
	}
	zone := m.edgeZone(g.Rows)
	if y < zone {
		pt.Y = -float64(zone-y) * ch
	} else {
		pt.Y = float64(g.Rows)*ch + float64(y-(g.Rows-zone)+1)*ch
	}
	return pt
}

// handle processes one mouse event and reports whether it changed anything.
func (m *mouseHandler) handle(ev *tcell.EventMouse) bool {
	if ev == nil {
		return false
	}
	x, y := ev.Position()
	buttons := ev.Buttons()
	prev := m.lastButtons
	m.lastButtons = buttons
	p := m.term.presenter

	if dy := wheelDelta(buttons); dy != 0 {
		lh := float64(p.Geometry().LineHeight())
		p.ScrollDeltaPx(float64(dy*m.term.settings.WheelLines) * lh)
		return true
	}

	pressed := func(b tcell.ButtonMask) bool { return buttons&b != 0 && prev&b == 0 }
	released := buttons&tcell.Button1 == 0 && prev&tcell.Button1 != 0
	dragging := buttons&tcell.Button1 != 0 && prev&tcell.Button1 != 0

	switch {
	case pressed(tcell.Button1) && ev.Modifiers()&tcell.ModCtrl != 0 && m.copyLink(x, y):
		m.clicks.Reset()
		return true

	case pressed(tcell.Button1):
		mode := m.clicks.DetectClick(y, x).Mode()
		m.anchorX, m.anchorY, m.moved = x, y, false
		p.SelectionBegin(mode, m.point(x, y, false))
		return true

	case dragging && p.SelectionCanProgress():
		if x != m.anchorX || y != m.anchorY {
			m.moved = true
		}
		p.SelectionProgress(m.point(x, y, true))
		return true

	case released && p.SelectionCanProgress():
		p.SelectionProgress(m.point(x, y, false))
		p.SelectionCommit()
		m.finishSelection()
		return true

	case pressed(tcell.Button2):
		if m.term.settings.PasteOnMiddle {
			m.term.pasteClipboard()
			return true
		}

	case pressed(tcell.Button3):
		m.clicks.Reset()
		if p.SelectionState() != selection.StateUnselected {
			p.SelectionClear()
			return true
		}
	}
	return false
}

// copyLink copies the URI of the hyperlink under a screen cell.
func (m *mouseHandler) copyLink(x, y int) bool {
	link, ok := m.term.presenter.HyperlinkAt(m.point(x, y, false))
	if !ok || link.URI == "" {
		return false
	}
	m.term.copyText(link.URI)
	return true
}

// finishSelection drops plain clicks and copies real selections.
func (m *mouseHandler) finishSelection() {
	p := m.term.presenter
	if mode, ok := p.SelectionMode(); ok && mode == selection.ModeCell && !m.moved {
		p.SelectionClear()
		return
	}
	if m.term.settings.CopyOnSelect {
		m.term.copySelection()
	}
}

// wheelDelta returns the vertical wheel direction: negative scrolls toward
// older output.
func wheelDelta(mask tcell.ButtonMask) int {
	dy := 0
	if mask&tcell.WheelUp != 0 {
		dy--
	}
	if mask&tcell.WheelDown != 0 {
		dy++
	}
	return dy
}
