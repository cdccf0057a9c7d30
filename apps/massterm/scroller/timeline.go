// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/massterm/scroller/timeline.go
// Summary: Animated scalar value with cubic-out easing.

package scroller

import (
	"time"
)

// DefaultScrollDuration is the duration of a scroll animation.
const DefaultScrollDuration = 100 * time.Millisecond

// Easing maps linear progress in [0, 1] to eased progress.
type Easing func(t float64) float64

// CubicOut decelerates towards the end.
func CubicOut(t float64) float64 {
	u := 1 - t
	return 1 - u*u*u
}

// Timeline animates a value towards a target.
type Timeline struct {
	from     float64
	to       float64
	start    time.Time
	duration time.Duration
	easing   Easing
}

// NewTimeline returns a timeline resting at value.
func NewTimeline(value float64) Timeline {
	return Timeline{from: value, to: value, easing: CubicOut}
}

// AnimateTo starts an animation from the current value to target. Animating
// to the current target keeps the running animation.
func (t *Timeline) AnimateTo(target float64, duration time.Duration, now time.Time) {
	if target == t.to {
		return
	}
	if duration <= 0 {
		t.Set(target)
		return
	}
	t.from = t.Value(now)
	t.to = target
	t.start = now
	t.duration = duration
}

// Set jumps to value without animating.
func (t *Timeline) Set(value float64) {
	t.from = value
	t.to = value
	t.duration = 0
}

// Value samples the timeline.
func (t *Timeline) Value(now time.Time) float64 {
	if !t.Animating(now) {
		return t.to
	}
	p := float64(now.Sub(t.start)) / float64(t.duration)
	p = min(max(p, 0), 1)
	ease := t.easing
	if ease == nil {
		ease = CubicOut
	}
	return t.from + (t.to-t.from)*ease(p)
}

// Animating reports whether the value still changes after now.
func (t *Timeline) Animating(now time.Time) bool {
	return t.duration > 0 && now.Before(t.start.Add(t.duration))
}

// Final returns the value the timeline ends at.
func (t *Timeline) Final() float64 {
	return t.to
}
