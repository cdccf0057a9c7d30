// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/massterm/presenter/options.go
// Summary: Functional options for the presenter.

package presenter

import (
	"time"

	"github.com/pragmatrix/massive-terminal/apps/massterm/shaper"
)

// Option configures a Presenter.
type Option func(*Presenter)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(p *Presenter) { p.now = now }
}

// WithBucketSize sets the number of rows sharing one coordinate frame.
func WithBucketSize(rows int) Option {
	return func(p *Presenter) { p.params.BucketSize = rows }
}

// WithDragGain sets the px/s of drag scrolling per pixel outside the
// viewport.
func WithDragGain(gain float64) Option {
	return func(p *Presenter) { p.dragGain = gain }
}

func WithScrollDuration(d time.Duration) Option {
	return func(p *Presenter) { p.params.ScrollDuration = d }
}

// WithWordBoundary sets the characters that end a word selection.
func WithWordBoundary(chars string) Option {
	return func(p *Presenter) { p.wordBoundary = chars }
}

// WithAscender sets the baseline offset used for underline cursors.
func WithAscender(px uint32) Option {
	return func(p *Presenter) { p.params.AscenderPx = px }
}

func WithPalette(pal *shaper.Palette) Option {
	return func(p *Presenter) { p.params.Palette = pal }
}
