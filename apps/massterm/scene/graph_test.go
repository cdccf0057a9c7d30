// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/massterm/scene/graph_test.go
// Summary: Tests for the retained scene graph.

package scene

import "testing"

func TestGraphSnapshotOrder(t *testing.T) {
	g := NewGraph()
	f := g.StageFrame(Translate(10))
	cursor := g.StageVisual(f, LayerCursor, []Shape{Rect{Width: 1, Height: 1}})
	line := g.StageVisual(f, LayerLines, []Shape{GlyphRun{Glyphs: []Glyph{{Text: "a", Columns: 1}}}})

	snap := g.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("snapshot has %d visuals, want 2", len(snap))
	}
	if snap[0].Handle != line || snap[1].Handle != cursor {
		t.Fatalf("unexpected order: %+v", snap)
	}
	if snap[0].Transform.Y != 10 {
		t.Fatalf("transform = %+v", snap[0].Transform)
	}
	if g.Dirty() {
		t.Fatal("snapshot must clear the dirty flag")
	}
}

func TestGraphUpdateFrameCountsCalls(t *testing.T) {
	g := NewGraph()
	f := g.StageFrame(Translate(0))
	g.Snapshot()

	g.UpdateFrame(f, Translate(0))
	if g.Dirty() {
		t.Fatal("unchanged transform must not mark dirty")
	}
	g.UpdateFrame(f, Translate(5))
	if !g.Dirty() {
		t.Fatal("changed transform must mark dirty")
	}
	if got := g.Stats().FrameUpdates; got != 2 {
		t.Fatalf("frame updates = %d, want 2", got)
	}
}

func TestGraphRemoval(t *testing.T) {
	g := NewGraph()
	f := g.StageFrame(Translate(0))
	v := g.StageVisual(f, LayerLines, nil)
	g.RemoveVisual(v)
	g.RemoveVisual(v)
	g.RemoveFrame(f)
	frames, visuals := g.Counts()
	if frames != 0 || visuals != 0 {
		t.Fatalf("counts = %d/%d, want 0/0", frames, visuals)
	}
	if s := g.Stats(); s.VisualsRemoved != 1 || s.FramesRemoved != 1 {
		t.Fatalf("stats = %+v", s)
	}
}

func TestGlyphRunText(t *testing.T) {
	r := GlyphRun{Glyphs: []Glyph{{Text: "h"}, {Text: "é"}, {Text: "漢", Columns: 2}}}
	if got := r.Text(); got != "hé漢" {
		t.Fatalf("text = %q", got)
	}
}
