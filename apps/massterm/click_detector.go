// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/massterm/click_detector.go
// Summary: Multi-click detection mapped to selection modes.

package massterm

import (
	"time"

	"github.com/pragmatrix/massive-terminal/apps/massterm/selection"
)

// ClickType represents the type of click detected.
type ClickType int

const (
	SingleClick ClickType = 1
	DoubleClick ClickType = 2
	TripleClick ClickType = 3
)

// Mode returns the selection granularity a click starts.
func (c ClickType) Mode() selection.Mode {
	switch c {
	case DoubleClick:
		return selection.ModeWord
	case TripleClick:
		return selection.ModeLine
	default:
		return selection.ModeCell
	}
}

// DefaultMultiClickTimeout is the maximum time between clicks for multi-click detection.
const DefaultMultiClickTimeout = 500 * time.Millisecond

// ClickDetector tracks click timing and cell position to detect multi-clicks.
type ClickDetector struct {
	timeout    time.Duration
	now        func() time.Time
	lastTime   time.Time
	lastRow    int
	lastCol    int
	clickCount int
}

// NewClickDetector creates a click detector. A timeout of zero uses
// DefaultMultiClickTimeout.
func NewClickDetector(timeout time.Duration) *ClickDetector {
	if timeout <= 0 {
		timeout = DefaultMultiClickTimeout
	}
	return &ClickDetector{timeout: timeout, now: time.Now}
}

// DetectClick analyzes a click at a screen cell. Consecutive clicks at the
// same cell within the timeout count as multi-clicks; the count cycles
// 1 → 2 → 3 → 1.
func (c *ClickDetector) DetectClick(row, col int) ClickType {
	now := c.now()
	samePosition := row == c.lastRow && col == c.lastCol
	withinTimeout := now.Sub(c.lastTime) < c.timeout

	if samePosition && withinTimeout {
		c.clickCount++
		if c.clickCount > 3 {
			c.clickCount = 1
		}
	} else {
		c.clickCount = 1
	}

	c.lastTime = now
	c.lastRow = row
	c.lastCol = col
	return ClickType(c.clickCount)
}

// Reset clears the click history, causing the next click to be a single click.
func (c *ClickDetector) Reset() {
	c.clickCount = 0
	c.lastTime = time.Time{}
}
