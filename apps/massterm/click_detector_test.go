// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/massterm/click_detector_test.go
// Summary: Tests for multi-click detection.

package massterm

import (
	"testing"
	"time"

	"github.com/pragmatrix/massive-terminal/apps/massterm/selection"
)

func newTestDetector(timeout time.Duration) (*ClickDetector, *time.Time) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cd := NewClickDetector(timeout)
	cd.now = func() time.Time { return now }
	return cd, &now
}

func TestClickDetectorCycles(t *testing.T) {
	cd, _ := newTestDetector(500 * time.Millisecond)

	want := []ClickType{SingleClick, DoubleClick, TripleClick, SingleClick}
	for i, w := range want {
		if ct := cd.DetectClick(5, 10); ct != w {
			t.Errorf("click %d: expected %v, got %v", i+1, w, ct)
		}
	}
}

func TestClickDetectorTimeoutResetsCount(t *testing.T) {
	cd, now := newTestDetector(50 * time.Millisecond)

	cd.DetectClick(5, 10)
	*now = now.Add(100 * time.Millisecond)
	if ct := cd.DetectClick(5, 10); ct != SingleClick {
		t.Errorf("expected SingleClick after timeout, got %v", ct)
	}
}

func TestClickDetectorPositionChangeResetsCount(t *testing.T) {
	cd, _ := newTestDetector(0)

	cd.DetectClick(5, 10)
	if ct := cd.DetectClick(5, 11); ct != SingleClick {
		t.Errorf("expected SingleClick at new column, got %v", ct)
	}
	if ct := cd.DetectClick(6, 11); ct != SingleClick {
		t.Errorf("expected SingleClick on new row, got %v", ct)
	}
}

func TestClickDetectorReset(t *testing.T) {
	cd, _ := newTestDetector(0)

	cd.DetectClick(5, 10)
	cd.DetectClick(5, 10)
	cd.Reset()
	if ct := cd.DetectClick(5, 10); ct != SingleClick {
		t.Errorf("expected SingleClick after reset, got %v", ct)
	}
}

func TestClickTypeModes(t *testing.T) {
	tests := map[ClickType]selection.Mode{
		SingleClick: selection.ModeCell,
		DoubleClick: selection.ModeWord,
		TripleClick: selection.ModeLine,
	}
	for ct, want := range tests {
		if got := ct.Mode(); got != want {
			t.Errorf("%v.Mode() = %v, want %v", ct, got, want)
		}
	}
}
