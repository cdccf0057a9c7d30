// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/massterm/presenter/presenter.go
// Summary: Per-frame reconciliation of a terminal engine into the scene.
//
// Each frame reads the engine exactly once: everything the frame needs
// (changed rows, line copies, cursor, the extended selection) is copied out
// while the engine lock is held. Shaping and scene mutations happen after the
// lock is released so the output goroutine is never blocked by rendering.
//
// A Presenter is not safe for concurrent use. Input handlers and Update must
// run on the same goroutine or be serialized by the caller.

package presenter

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/pragmatrix/massive-terminal/apps/massterm/engine"
	"github.com/pragmatrix/massive-terminal/apps/massterm/geometry"
	"github.com/pragmatrix/massive-terminal/apps/massterm/scene"
	"github.com/pragmatrix/massive-terminal/apps/massterm/scroller"
	"github.com/pragmatrix/massive-terminal/apps/massterm/selection"
	"github.com/pragmatrix/massive-terminal/apps/massterm/shaper"
	"github.com/pragmatrix/massive-terminal/apps/massterm/view"
)

// Frame describes what one Update did.
type Frame struct {
	// Geometry is the view geometry the frame was reconciled against.
	Geometry geometry.ViewGeometry
	// Updated are the rows pushed with engine content.
	Updated geometry.RowSet
	// Blank are requested rows outside the retained buffer.
	Blank geometry.RowSet
	// Changed are the visible rows the engine modified since the last
	// committed frame.
	Changed geometry.RowSet
	// Switched is set when the view was replaced for an alternate screen
	// switch.
	Switched bool
	// Animating is set while another frame is needed to finish scrolling.
	Animating bool
}

type lineBatch struct {
	first int64
	lines []engine.Line
}

// snapshot is everything a frame reads from the engine.
type snapshot struct {
	version    uint64
	visibleTop int64
	retained   geometry.RowRange
	columns    int
	alt        bool
	switching  bool

	vg       geometry.ViewGeometry
	required geometry.RowSet
	changed  geometry.RowSet
	fetched  []lineBatch
	updated  geometry.RowSet
	blank    geometry.RowSet
	cursor   engine.Cursor

	selection    selection.Range
	hasSelection bool
}

// Presenter keeps a view in sync with a terminal engine and owns the
// selection and scroll state.
type Presenter struct {
	scene    scene.Scene
	term     engine.Terminal
	geometry geometry.TerminalGeometry
	params   view.Params

	view      *view.View
	scroller  *scroller.Scroller
	selection selection.Selection

	dragGain     float64
	wordBoundary string
	focused      bool
	lastVersion  uint64
	now          func() time.Time

	// retry counts the failed shaping attempts of rows that are fetched
	// again on the next frames even when the engine did not change them.
	retry map[int64]int
}

// maxShapeAttempts bounds how often a row that fails to shape is fetched.
const maxShapeAttempts = 3

// New creates a presenter for term rendering into sc. The view starts at row
// zero of the primary screen and follows the live screen.
func New(sc scene.Scene, term engine.Terminal, tg geometry.TerminalGeometry, sh shaper.Shaper, opts ...Option) *Presenter {
	p := &Presenter{
		scene:        sc,
		term:         term,
		geometry:     tg,
		params:       view.Params{Terminal: tg, Shaper: sh},
		wordBoundary: selection.DefaultWordBoundary,
		focused:      true,
		now:          time.Now,
		retry:        make(map[int64]int),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.params.Palette == nil {
		p.params.Palette = shaper.DefaultPalette()
	}
	p.scroller = scroller.New(p.dragGain)
	p.view = view.New(sc, p.params, false, 0)
	return p
}

// Geometry returns the terminal geometry.
func (p *Presenter) Geometry() geometry.TerminalGeometry {
	return p.geometry
}

// ViewGeometry returns the view geometry at the applied scroll offset.
func (p *Presenter) ViewGeometry() geometry.ViewGeometry {
	return p.view.Geometry()
}

// ScrollState returns the scroller state.
func (p *Presenter) ScrollState() scroller.State {
	return p.scroller.State()
}

// Update runs one frame.
func (p *Presenter) Update() (Frame, error) {
	now := p.now()

	// The animation is applied before anything else so that the frames and
	// the rows reconciled below agree.
	p.view.ApplyAnimations(now)

	var snap snapshot
	p.term.View(func(s engine.Screen) {
		snap = p.capture(s)
	})

	if snap.switching {
		p.switchView(snap)
	}

	if req := p.view.UpdateViewRange(snap.vg.Rows); req.String() != snap.required.String() {
		log.Printf("Presenter: internal error: view requested %v, planned %v", req, snap.required)
	}

	var errs []error
	failed := make(map[int64]bool)
	for _, b := range snap.fetched {
		if err := p.view.UpdateLines(b.first, b.lines); err != nil {
			errs = append(errs, err)
			for _, row := range view.FailedRows(err) {
				failed[row] = true
			}
		}
	}
	p.trackRetries(snap.vg.Rows, snap.updated, failed)
	for _, r := range snap.blank.Ranges() {
		lines := make([]engine.Line, r.Len())
		for i := range lines {
			lines[i] = engine.BlankLine(snap.columns)
		}
		if err := p.view.UpdateLines(r.Start, lines); err != nil {
			errs = append(errs, err)
		}
	}

	p.view.UpdateCursor(view.Cursor{
		Column:  snap.cursor.Column,
		Row:     snap.visibleTop + int64(snap.cursor.Row),
		Visible: snap.cursor.Visible,
		Shape:   snap.cursor.Shape,
		Focused: p.focused,
	})

	p.updateSelection(snap)

	target := p.scroller.Advance(now, scroller.Frame{
		Terminal:   p.geometry,
		VisibleTop: snap.visibleTop,
		Buffer:     snap.retained,
		FinalPx:    p.view.FinalOffsetPx(),
	})
	if target.ToRow {
		p.view.ScrollToRow(target.Row, now)
	} else {
		p.view.ScrollToPx(target.Px, now)
	}

	p.view.UpdatesDone()

	frame := Frame{
		Geometry:  snap.vg,
		Updated:   snap.updated,
		Blank:     snap.blank,
		Changed:   snap.changed,
		Switched:  snap.switching,
		Animating: p.view.Animating(now) || p.scroller.Dragging(),
	}
	// The version is committed even if rows failed to shape. Those rows are
	// retried through p.retry instead of through the change tracking.
	p.lastVersion = snap.version
	if err := errors.Join(errs...); err != nil {
		return frame, fmt.Errorf("presenter: update lines: %w", err)
	}
	return frame, nil
}

// trackRetries records the outcome of the rows pushed this frame. A row that
// failed is scheduled again until it reaches maxShapeAttempts. Rows outside
// the view are forgotten; they are fetched anyway when they come back.
func (p *Presenter) trackRetries(rows geometry.RowRange, updated geometry.RowSet, failed map[int64]bool) {
	for row := range p.retry {
		if !rows.Contains(row) || (updated.Contains(row) && !failed[row]) {
			delete(p.retry, row)
		}
	}
	for row := range failed {
		if p.retry[row] >= maxShapeAttempts {
			continue
		}
		p.retry[row]++
		if p.retry[row] == maxShapeAttempts {
			log.Printf("Presenter: Giving up shaping row %d after %d attempts", row, maxShapeAttempts)
		}
	}
}

// retryRows returns the rows of vg scheduled for another shaping attempt.
func (p *Presenter) retryRows(vg geometry.ViewGeometry) geometry.RowSet {
	var rows geometry.RowSet
	for row, n := range p.retry {
		if n < maxShapeAttempts && vg.Rows.Contains(row) {
			rows.Add(row)
		}
	}
	return rows
}

// capture reads the engine. It must not touch the scene.
func (p *Presenter) capture(s engine.Screen) snapshot {
	snap := snapshot{
		version:    s.Version(),
		visibleTop: s.VisibleTop(),
		retained:   s.Retained(),
		columns:    s.Columns(),
		alt:        s.AltScreen(),
		cursor:     s.Cursor(),
	}
	if snap.version < p.lastVersion {
		log.Printf("Presenter: internal error: engine version %d went back from %d", snap.version, p.lastVersion)
	}

	// The view is replaced after the lock is released, so the rows a fresh
	// view needs are planned here.
	if snap.alt != p.view.AltScreen() {
		snap.switching = true
		snap.vg = geometry.NewViewGeometry(p.geometry, float64(p.geometry.RowOffsetPx(snap.visibleTop)))
		snap.required = geometry.NewRowSet(snap.vg.Rows)
	} else {
		snap.vg = p.view.Geometry()
		snap.required = p.view.RequiredRows(snap.vg.Rows)
	}

	if visible, ok := snap.retained.Intersect(snap.vg.Rows); ok && snap.version != p.lastVersion {
		snap.changed = s.ChangedRows(visible, p.lastVersion).IntersectRange(visible)
	}

	want := geometry.NewRowSet(snap.required.Ranges()...)
	want.Union(snap.changed)
	if !snap.switching {
		want.Union(p.retryRows(snap.vg))
	}
	for _, r := range want.IntersectRange(snap.retained).Ranges() {
		snap.fetched = append(snap.fetched, lineBatch{first: r.Start, lines: s.Lines(r)})
		snap.updated.AddRange(r)
	}
	snap.blank = want.Subtract(snap.updated)

	if !snap.switching {
		snap.selection, snap.hasSelection = p.extendedSelection(snap.vg, s)
	}
	return snap
}

// switchView replaces the view for the other screen. Primary and alternate
// screens never share visuals.
func (p *Presenter) switchView(snap snapshot) {
	name := "primary"
	if snap.alt {
		name = "alternate"
	}
	log.Printf("Presenter: Switching to %s view at row %d", name, snap.visibleTop)

	p.view.Release()
	p.params.Terminal = p.geometry
	p.view = view.New(p.scene, p.params, snap.alt, snap.visibleTop)
	p.selection.Reset()
	clear(p.retry)
	if p.scroller.Dragging() {
		p.scroller.EnableAuto()
	}
}

// updateSelection drops an inert selection whose rows changed, and shows
// the remaining one clamped to the retained rows.
func (p *Presenter) updateSelection(snap snapshot) {
	if !snap.hasSelection {
		p.view.UpdateSelection(nil)
		return
	}
	if snap.changed.Intersects(snap.selection.Rows()) && !p.selection.CanProgress() {
		p.selection.Reset()
		p.view.UpdateSelection(nil)
		return
	}
	clamped, ok := snap.selection.ClampToRows(snap.retained, snap.columns)
	if !ok {
		p.view.UpdateSelection(nil)
		return
	}
	p.view.UpdateSelection(&clamped)
}

func (p *Presenter) extendedSelection(vg geometry.ViewGeometry, s engine.Screen) (selection.Range, bool) {
	r, ok := p.selection.Range(vg)
	if !ok {
		return selection.Range{}, false
	}
	mode, _ := p.selection.Mode()
	return r.Extend(mode, s, p.wordBoundary), true
}

// Close removes every visual and frame of the presenter from the scene.
func (p *Presenter) Close() {
	p.view.Release()
}
