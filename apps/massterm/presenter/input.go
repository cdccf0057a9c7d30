// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/massterm/presenter/input.go
// Summary: Input surface of the presenter: resize, scrolling and selection.

package presenter

import (
	"github.com/pragmatrix/massive-terminal/apps/massterm/engine"
	"github.com/pragmatrix/massive-terminal/apps/massterm/geometry"
	"github.com/pragmatrix/massive-terminal/apps/massterm/selection"
)

// Resize fits the cell grid into a pixel area. It returns true if the grid
// changed; the engine has then been resized too and the caller must resize
// the pty.
func (p *Presenter) Resize(widthPx, heightPx uint32) bool {
	g := p.geometry.Resized(widthPx, heightPx)
	if g == p.geometry {
		return false
	}
	p.term.Resize(g.Columns, g.Rows)
	p.geometry = g
	p.params.Terminal = g
	p.view.SetTerminal(g)
	return true
}

// ScrollDeltaPx scrolls relative to where the view is heading.
func (p *Presenter) ScrollDeltaPx(delta float64) {
	p.scroller.ScrollBy(delta, p.view.FinalOffsetPx())
}

// EnableAutoScroll follows the live screen again.
func (p *Presenter) EnableAutoScroll() {
	p.scroller.EnableAuto()
}

// SetFocused changes the cursor between its focused shape and the outline.
func (p *Presenter) SetFocused(focused bool) {
	p.focused = focused
}

func (p *Presenter) Focused() bool {
	return p.focused
}

// HitTestCell returns the cell under a view pixel. The view is shifted up
// by the ascend offset, so y+AscendPx is the pixel inside the first visible
// row's frame.
func (p *Presenter) HitTestCell(pt geometry.PixelPoint) geometry.CellHit {
	return p.view.Geometry().HitTestCell(pt)
}

// HyperlinkAt returns the hyperlink shown under a view pixel.
func (p *Presenter) HyperlinkAt(pt geometry.PixelPoint) (*engine.Hyperlink, bool) {
	hit := p.HitTestCell(pt)
	return p.view.HyperlinkAt(hit.Column, hit.Row)
}

// SelectionBegin starts a selection at a view pixel and returns the mode
// actually used.
func (p *Presenter) SelectionBegin(mode selection.Mode, pt geometry.PixelPoint) selection.Mode {
	p.stopDrag()
	return p.selection.Begin(mode, pt, p.HitTestCell(pt).Pos())
}

// SelectionProgress moves the live end of the selection. Outside the
// viewport's vertical bounds it drag scrolls with a velocity proportional
// to the distance.
func (p *Presenter) SelectionProgress(pt geometry.PixelPoint) {
	if p.selection.CanProgress() {
		if d, outside := p.geometry.ScrollDistance(pt); outside {
			p.scroller.Drag(d, p.now())
		} else {
			p.stopDrag()
		}
	}
	p.selection.Progress(pt)
}

// SelectionCommit ends dragging and fixes the selection.
func (p *Presenter) SelectionCommit() {
	p.stopDrag()
	p.selection.Commit(p.view.Geometry())
}

func (p *Presenter) SelectionClear() {
	p.stopDrag()
	p.selection.Reset()
}

// SelectionCanProgress reports whether a selection is being dragged.
func (p *Presenter) SelectionCanProgress() bool {
	return p.selection.CanProgress()
}

// SelectionState returns the lifecycle phase of the selection.
func (p *Presenter) SelectionState() selection.State {
	return p.selection.State()
}

// SelectionMode returns the mode of an active selection.
func (p *Presenter) SelectionMode() (selection.Mode, bool) {
	return p.selection.Mode()
}

// SelectionRange returns the selection extended to its mode's boundaries.
func (p *Presenter) SelectionRange() (selection.Range, bool) {
	var (
		r  selection.Range
		ok bool
	)
	vg := p.view.Geometry()
	p.term.View(func(s engine.Screen) {
		r, ok = p.extendedSelection(vg, s)
	})
	return r, ok
}

// SelectedText returns the text of the selection, or "" without one.
func (p *Presenter) SelectedText() string {
	var text string
	vg := p.view.Geometry()
	p.term.View(func(s engine.Screen) {
		r, ok := p.extendedSelection(vg, s)
		if !ok {
			return
		}
		if clamped, ok := r.ClampToRows(s.Retained(), s.Columns()); ok {
			text = selection.Text(clamped, s, false)
		}
	})
	return text
}

func (p *Presenter) stopDrag() {
	p.scroller.StopDrag(p.view.Geometry())
}
