// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/massterm/selection/state.go
// Summary: Selection state machine anchored at a stable cell.

package selection

import (
	"log"

	"github.com/pragmatrix/massive-terminal/apps/massterm/geometry"
)

// Mode is the granularity a selection extends to.
type Mode int

const (
	// ModeCell selects individual cells (plain drag).
	ModeCell Mode = iota
	// ModeWord extends both ends to word boundaries (double click).
	ModeWord
	// ModeLine extends both ends to whole logical lines (triple click).
	ModeLine
)

func (m Mode) String() string {
	switch m {
	case ModeCell:
		return "cell"
	case ModeWord:
		return "word"
	case ModeLine:
		return "line"
	}
	return "unknown"
}

// State is the lifecycle phase of a selection.
type State int

const (
	StateUnselected State = iota
	// StateSelecting means the pointer is still down. The live end is kept
	// as a view pixel so it follows the content while the view scrolls.
	StateSelecting
	// StateSelected means the selection was committed to two cells.
	StateSelected
)

func (s State) String() string {
	switch s {
	case StateUnselected:
		return "unselected"
	case StateSelecting:
		return "selecting"
	case StateSelected:
		return "selected"
	}
	return "unknown"
}

// Selection tracks one selection from begin to commit.
type Selection struct {
	state State
	mode  Mode
	// anchor is the cell under the pointer at Begin.
	anchor geometry.CellPos
	// live is the pointer position while selecting.
	live geometry.PixelPoint
	// end is the resolved cell after Commit.
	end geometry.CellPos
}

// Begin starts a new selection, dropping any previous one. A word selection
// begun while a word selection exists is promoted to a line selection. The
// effective mode is returned.
func (s *Selection) Begin(mode Mode, hit geometry.PixelPoint, anchor geometry.CellPos) Mode {
	if mode == ModeWord && s.state != StateUnselected && s.mode == ModeWord {
		mode = ModeLine
	}
	*s = Selection{
		state:  StateSelecting,
		mode:   mode,
		anchor: anchor,
		live:   hit,
	}
	return mode
}

// Progress moves the live end. Outside of selecting it resets.
func (s *Selection) Progress(p geometry.PixelPoint) {
	if s.state != StateSelecting {
		log.Printf("Selection: progressing, but state is %s", s.state)
		s.Reset()
		return
	}
	s.live = p
}

// Commit resolves the live end to a cell and finishes the selection.
func (s *Selection) Commit(vg geometry.ViewGeometry) {
	if s.state != StateSelecting {
		log.Printf("Selection: internal error: ending, but state is %s", s.state)
		s.Reset()
		return
	}
	s.end = vg.HitTestCell(s.live).Pos()
	s.state = StateSelected
}

func (s *Selection) Reset() {
	*s = Selection{}
}

// CanProgress reports whether the pointer is still selecting.
func (s *Selection) CanProgress() bool {
	return s.state == StateSelecting
}

func (s *Selection) State() State {
	return s.state
}

// Mode returns the mode of an active selection.
func (s *Selection) Mode() (Mode, bool) {
	if s.state == StateUnselected {
		return 0, false
	}
	return s.mode, true
}

// Anchor returns the cell the selection started at.
func (s *Selection) Anchor() (geometry.CellPos, bool) {
	if s.state == StateUnselected {
		return geometry.CellPos{}, false
	}
	return s.anchor, true
}

// LivePoint returns the pointer position while selecting.
func (s *Selection) LivePoint() (geometry.PixelPoint, bool) {
	if s.state != StateSelecting {
		return geometry.PixelPoint{}, false
	}
	return s.live, true
}

// Range returns the normalized, unextended range. While selecting, the live
// end is resolved against vg.
func (s *Selection) Range(vg geometry.ViewGeometry) (Range, bool) {
	switch s.state {
	case StateSelecting:
		return NewRange(s.anchor, vg.HitTestCell(s.live).Pos()), true
	case StateSelected:
		return NewRange(s.anchor, s.end), true
	}
	return Range{}, false
}
