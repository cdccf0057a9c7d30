// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/massterm/view/view.go
// Summary: Virtualized pool of line visuals for a contiguous stable row window.
//
// The view keeps exactly one visual per row of its window. When the window
// moves, rows that scrolled out are removed from the scene and rows that
// scrolled in get fresh, empty visuals; only those are reported back so the
// caller fetches their content. Every visual lives in the frame of its
// row's bucket, so scrolling only moves frames.

package view

import (
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/gammazero/deque"

	"github.com/pragmatrix/massive-terminal/apps/massterm/buckets"
	"github.com/pragmatrix/massive-terminal/apps/massterm/engine"
	"github.com/pragmatrix/massive-terminal/apps/massterm/geometry"
	"github.com/pragmatrix/massive-terminal/apps/massterm/scene"
	"github.com/pragmatrix/massive-terminal/apps/massterm/scroller"
	"github.com/pragmatrix/massive-terminal/apps/massterm/shaper"
)

// ErrOutsideWindow is returned for line updates outside the view's window.
var ErrOutsideWindow = errors.New("view: updated lines outside of the view window")

// RowError is a failure to shape one row. The row keeps its previous shapes.
type RowError struct {
	Row int64
	Err error
}

func (e *RowError) Error() string { return fmt.Sprintf("row %d: %v", e.Row, e.Err) }

func (e *RowError) Unwrap() error { return e.Err }

// FailedRows returns the rows of every RowError joined into err.
func FailedRows(err error) []int64 {
	var rows []int64
	var walk func(error)
	walk = func(err error) {
		var re *RowError
		switch e := err.(type) {
		case nil:
		case interface{ Unwrap() []error }:
			for _, inner := range e.Unwrap() {
				walk(inner)
			}
		default:
			if errors.As(err, &re) {
				rows = append(rows, re.Row)
			}
		}
	}
	walk(err)
	return rows
}

// Params configures a view. Views replaced on an alternate screen switch
// reuse the same Params.
type Params struct {
	Terminal       geometry.TerminalGeometry
	Shaper         shaper.Shaper
	Palette        *shaper.Palette
	BucketSize     int
	ScrollDuration time.Duration
	// AscenderPx is the distance from a cell's top to the baseline.
	AscenderPx uint32
}

type lineVisual struct {
	visual scene.VisualHandle
	// top is the row's offset inside its bucket frame.
	top   int64
	links []linkSpan
}

type linkSpan struct {
	from, to int
	link     *engine.Hyperlink
}

// View is the set of visuals presenting one screen (primary or alternate).
type View struct {
	scene  scene.Scene
	params Params
	alloc  *buckets.Allocator

	altScreen bool
	offset    scroller.Timeline
	// appliedPx is the whole-pixel offset last pushed to the allocator.
	appliedPx int64

	first int64
	lines deque.Deque[lineVisual]

	cursor    *cursorVisual
	selection *selectionVisual
}

// New creates an empty view scrolled to row.
func New(sc scene.Scene, p Params, altScreen bool, row int64) *View {
	if p.ScrollDuration <= 0 {
		p.ScrollDuration = scroller.DefaultScrollDuration
	}
	if p.Palette == nil {
		p.Palette = shaper.DefaultPalette()
	}
	px := p.Terminal.RowOffsetPx(row)
	return &View{
		scene:     sc,
		params:    p,
		alloc:     buckets.New(sc, p.Terminal.LineHeight(), p.BucketSize, px),
		altScreen: altScreen,
		offset:    scroller.NewTimeline(float64(px)),
		appliedPx: px,
		first:     row,
	}
}

// AltScreen reports whether the view presents the alternate screen.
func (v *View) AltScreen() bool {
	return v.altScreen
}

// SetTerminal updates the cell grid after a resize. Cell sizes do not
// change.
func (v *View) SetTerminal(term geometry.TerminalGeometry) {
	v.params.Terminal = term
}

// ScrollToRow animates to the top edge of row.
func (v *View) ScrollToRow(row int64, now time.Time) {
	v.ScrollToPx(float64(v.params.Terminal.RowOffsetPx(row)), now)
}

// ScrollToPx animates to a scroll pixel.
func (v *View) ScrollToPx(px float64, now time.Time) {
	v.offset.AnimateTo(px, v.params.ScrollDuration, now)
}

// FinalOffsetPx is the scroll offset the view is heading to.
func (v *View) FinalOffsetPx() float64 {
	return v.offset.Final()
}

// ApplyAnimations samples the scroll animation, rounds it to whole pixels
// and moves the bucket frames.
func (v *View) ApplyAnimations(now time.Time) int64 {
	px := int64(math.Round(v.offset.Value(now)))
	v.appliedPx = px
	v.alloc.SetScrollOffset(px)
	return px
}

// Animating reports whether the scroll offset still moves.
func (v *View) Animating(now time.Time) bool {
	return v.offset.Animating(now)
}

// Geometry returns the view geometry at the last applied scroll offset.
func (v *View) Geometry() geometry.ViewGeometry {
	return geometry.NewViewGeometry(v.params.Terminal, float64(v.appliedPx))
}

// Window returns the stable rows that currently have visuals.
func (v *View) Window() geometry.RowRange {
	return geometry.RowsWithLen(v.first, v.lines.Len())
}

// RequiredRows returns the rows UpdateViewRange(r) would report, without
// changing the view.
func (v *View) RequiredRows(r geometry.RowRange) geometry.RowSet {
	cur := v.Window()
	if !r.Intersects(cur) {
		return geometry.NewRowSet(r)
	}
	var req geometry.RowSet
	if r.Start < cur.Start {
		req.AddRange(geometry.Rows(r.Start, cur.Start))
	}
	if r.End > cur.End {
		req.AddRange(geometry.Rows(cur.End, r.End))
	}
	return req
}

// UpdateViewRange moves the window to r and returns the rows whose visuals
// were newly created and need content.
func (v *View) UpdateViewRange(r geometry.RowRange) geometry.RowSet {
	if r.Empty() {
		log.Printf("View: internal error: empty view range %v", r)
		return geometry.RowSet{}
	}
	cur := v.Window()
	if !r.Intersects(cur) {
		v.dropFront(v.lines.Len())
		v.first = r.Start
		for row := r.Start; row < r.End; row++ {
			v.lines.PushBack(v.newLine(row))
		}
		return geometry.NewRowSet(r)
	}

	var req geometry.RowSet
	switch top := r.Start - cur.Start; {
	case top > 0:
		v.dropFront(int(top))
		v.first += top
	case top < 0:
		for row := cur.Start - 1; row >= r.Start; row-- {
			v.lines.PushFront(v.newLine(row))
		}
		v.first = r.Start
		req.AddRange(geometry.Rows(r.Start, cur.Start))
	}

	switch bottom := r.End - cur.End; {
	case bottom > 0:
		for row := cur.End; row < r.End; row++ {
			v.lines.PushBack(v.newLine(row))
		}
		req.AddRange(geometry.Rows(cur.End, r.End))
	case bottom < 0:
		for i := int64(0); i < -bottom; i++ {
			v.removeLine(v.lines.PopBack())
		}
	}

	if w := v.Window(); w != r {
		log.Printf("View: internal error: window %v after update to %v", w, r)
	}
	return req
}

func (v *View) newLine(row int64) lineVisual {
	frame, top := v.alloc.Acquire(row)
	return lineVisual{
		visual: v.scene.StageVisual(frame, scene.LayerLines, nil),
		top:    top,
	}
}

func (v *View) dropFront(n int) {
	for i := 0; i < n && v.lines.Len() > 0; i++ {
		v.removeLine(v.lines.PopFront())
	}
}

func (v *View) removeLine(l lineVisual) {
	v.scene.RemoveVisual(l.visual)
}

// UpdateLines replaces the shapes of the rows starting at first. A line
// that fails to shape keeps its previous shapes; the failures are returned
// together after all other lines were updated.
func (v *View) UpdateLines(first int64, lines []engine.Line) error {
	update := geometry.RowsWithLen(first, len(lines))
	window := v.Window()
	if !update.Inside(window) {
		return fmt.Errorf("%w: %v is not inside %v", ErrOutsideWindow, update, window)
	}

	var errs []error
	for i, line := range lines {
		idx := int(first-v.first) + i
		lv := v.lines.At(idx)
		shapes, err := v.params.Shaper.ShapeLine(line, float64(lv.top))
		if err != nil {
			errs = append(errs, &RowError{Row: first + int64(i), Err: err})
			continue
		}
		v.scene.UpdateVisual(lv.visual, shapes)
		lv.links = linkSpans(line)
		v.lines.Set(idx, lv)
	}
	return errors.Join(errs...)
}

func linkSpans(line engine.Line) []linkSpan {
	var spans []linkSpan
	for col, c := range line.Cells {
		if c.Link == nil {
			continue
		}
		if n := len(spans); n > 0 && spans[n-1].to == col && spans[n-1].link == c.Link {
			spans[n-1].to++
			continue
		}
		spans = append(spans, linkSpan{from: col, to: col + 1, link: c.Link})
	}
	return spans
}

// HyperlinkAt returns the hyperlink shown at a cell.
func (v *View) HyperlinkAt(column int64, row int64) (*engine.Hyperlink, bool) {
	if !v.Window().Contains(row) {
		return nil, false
	}
	lv := v.lines.At(int(row - v.first))
	for _, s := range lv.links {
		if column >= int64(s.from) && column < int64(s.to) {
			return s.link, true
		}
	}
	return nil, false
}

// UpdatesDone evicts buckets no longer referenced by lines, the selection
// or the cursor.
func (v *View) UpdatesDone() {
	used := []geometry.RowRange{v.Window()}
	if v.selection != nil {
		used = append(used, v.selection.rows)
	}
	if v.cursor != nil {
		used = append(used, geometry.RowsWithLen(v.cursor.row, 1))
	}
	v.alloc.MarkUsed(used...)
}

// Release removes every visual and frame of the view.
func (v *View) Release() {
	v.dropFront(v.lines.Len())
	v.removeCursor()
	v.removeSelection()
	v.alloc.Release()
}

// Buckets returns the number of live bucket frames.
func (v *View) Buckets() int {
	return v.alloc.Len()
}
