// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/massterm/scroller/scroller.go
// Summary: Scroll state machine: follow output, rest at a pixel, or drag.
//
// State changes are lazy. Input handlers only switch the state; the view is
// moved once per frame by Advance, which turns the state into a scroll
// target for the view.

package scroller

import (
	"fmt"
	"time"

	"github.com/pragmatrix/massive-terminal/apps/massterm/geometry"
)

// DefaultDragGain converts a pointer distance outside the viewport (px) into
// a scroll velocity (px per second).
const DefaultDragGain = 16.0

// Kind is the scroll mode.
type Kind int

const (
	// KindAuto follows the terminal's live screen.
	KindAuto Kind = iota
	// KindResting keeps a fixed scroll pixel (wheel scrolling, end of a drag).
	KindResting
	// KindDrag scrolls with a velocity while a selection is dragged past an
	// edge of the viewport.
	KindDrag
)

func (k Kind) String() string {
	switch k {
	case KindAuto:
		return "auto"
	case KindResting:
		return "resting"
	case KindDrag:
		return "drag"
	}
	return "unknown"
}

// State is a snapshot of the scroller.
type State struct {
	Kind Kind
	// Pixel is the resting offset for KindResting.
	Pixel float64
	// Velocity is the drag velocity in px/s for KindDrag.
	Velocity float64
}

func (s State) String() string {
	switch s.Kind {
	case KindResting:
		return fmt.Sprintf("resting(%.1f)", s.Pixel)
	case KindDrag:
		return fmt.Sprintf("drag(%.1f px/s)", s.Velocity)
	}
	return s.Kind.String()
}

// Scroller holds the scroll state of one presenter.
type Scroller struct {
	state State
	// timeBase is the time of the last drag advance.
	timeBase time.Time
	gain     float64
}

// New returns a scroller in auto mode. A gain of zero uses DefaultDragGain.
func New(gain float64) *Scroller {
	if gain <= 0 {
		gain = DefaultDragGain
	}
	return &Scroller{gain: gain}
}

func (s *Scroller) State() State {
	return s.state
}

// Gain returns the drag gain.
func (s *Scroller) Gain() float64 {
	return s.gain
}

// EnableAuto follows the live screen again.
func (s *Scroller) EnableAuto() {
	s.state = State{Kind: KindAuto}
}

// RestAt stops at a scroll pixel.
func (s *Scroller) RestAt(px float64) {
	s.state = State{Kind: KindResting, Pixel: px}
}

// ScrollBy rests at finalOffset + delta. finalOffset is where the view is
// heading to, so consecutive wheel events accumulate.
func (s *Scroller) ScrollBy(delta, finalOffset float64) {
	s.RestAt(finalOffset + delta)
}

// Drag enters or updates drag scrolling for a pointer distance outside the
// viewport. The time base is kept while already dragging.
func (s *Scroller) Drag(distance float64, now time.Time) {
	velocity := distance * s.gain
	if s.state.Kind == KindDrag {
		s.state.Velocity = velocity
		return
	}
	s.state = State{Kind: KindDrag, Velocity: velocity}
	s.timeBase = now
}

// Dragging reports whether a drag scroll is active.
func (s *Scroller) Dragging() bool {
	return s.state.Kind == KindDrag
}

// StopDrag leaves drag scrolling and rests on a whole row: the first row in
// vg, or the next one when moving down and the first row is only partially
// visible. It returns false if no drag was active.
func (s *Scroller) StopDrag(vg geometry.ViewGeometry) bool {
	if s.state.Kind != KindDrag {
		return false
	}
	row := vg.Rows.Start
	if vg.AscendPx != 0 && s.state.Velocity >= 0 {
		row++
	}
	s.RestAt(float64(vg.Terminal.RowOffsetPx(row)))
	return true
}

// Frame is what Advance needs to know about the current frame.
type Frame struct {
	Terminal geometry.TerminalGeometry
	// VisibleTop is the stable row at the top of the engine's live screen.
	VisibleTop int64
	// Buffer is the range of rows the engine retains.
	Buffer geometry.RowRange
	// FinalPx is the scroll offset the view is currently heading to.
	FinalPx float64
}

// Target is the scroll position the view should move to.
type Target struct {
	// ToRow selects Row over Px.
	ToRow bool
	Row   int64
	Px    float64
}

// Advance turns the state into this frame's scroll target.
func (s *Scroller) Advance(now time.Time, f Frame) Target {
	switch s.state.Kind {
	case KindResting:
		return Target{Px: f.Terminal.ClampPxOffset(f.Buffer, s.state.Pixel)}
	case KindDrag:
		elapsed := now.Sub(s.timeBase).Seconds()
		s.timeBase = now
		px := f.FinalPx + s.state.Velocity*max(elapsed, 0)
		return Target{Px: f.Terminal.ClampPxOffset(f.Buffer, px)}
	}
	return Target{ToRow: true, Row: f.VisibleTop}
}
