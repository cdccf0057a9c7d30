// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/massterm/buckets/allocator_test.go
// Summary: Tests for bucket assignment, frame offsets and eviction.

package buckets

import (
	"testing"

	"github.com/pragmatrix/massive-terminal/apps/massterm/geometry"
	"github.com/pragmatrix/massive-terminal/apps/massterm/scene"
)

func TestAcquireAssignsBuckets(t *testing.T) {
	g := scene.NewGraph()
	a := New(g, 10, 16, 0)

	f0, top0 := a.Acquire(0)
	f15, top15 := a.Acquire(15)
	f16, top16 := a.Acquire(16)
	if f0 != f15 {
		t.Fatal("rows 0 and 15 must share a bucket")
	}
	if f0 == f16 {
		t.Fatal("row 16 must start a new bucket")
	}
	if top0 != 0 || top15 != 150 || top16 != 0 {
		t.Fatalf("offsets = %d %d %d", top0, top15, top16)
	}
	if tr, _ := g.Frame(f16); tr.Y != 160 {
		t.Fatalf("bucket 1 translation = %v, want 160", tr.Y)
	}
}

func TestAcquireNegativeRows(t *testing.T) {
	g := scene.NewGraph()
	a := New(g, 10, 16, 0)

	if idx := a.BucketIndex(-1); idx != -1 {
		t.Fatalf("bucket of -1 = %d, want -1", idx)
	}
	if idx := a.BucketIndex(-16); idx != -1 {
		t.Fatalf("bucket of -16 = %d, want -1", idx)
	}
	if idx := a.BucketIndex(-17); idx != -2 {
		t.Fatalf("bucket of -17 = %d, want -2", idx)
	}
	f, top := a.Acquire(-1)
	if top != 150 {
		t.Fatalf("offset of row -1 = %d, want 150", top)
	}
	if tr, _ := g.Frame(f); tr.Y != -160 {
		t.Fatalf("translation = %v, want -160", tr.Y)
	}
}

func TestAcquireIsDeterministic(t *testing.T) {
	g := scene.NewGraph()
	a := New(g, 10, 16, 0)
	for row := int64(-40); row < 40; row++ {
		f1, t1 := a.Acquire(row)
		f2, t2 := a.Acquire(row)
		if f1 != f2 || t1 != t2 {
			t.Fatalf("row %d acquired twice differently", row)
		}
	}
	if a.Len() != 6 {
		t.Fatalf("buckets = %d, want 6", a.Len())
	}
}

func TestSetScrollOffsetOnlyUpdatesChangedFrames(t *testing.T) {
	g := scene.NewGraph()
	a := New(g, 10, 16, 0)
	a.Acquire(0)
	a.Acquire(20)

	a.SetScrollOffset(25)
	if got := g.Stats().FrameUpdates; got != 2 {
		t.Fatalf("updates after first scroll = %d, want 2", got)
	}
	a.SetScrollOffset(25)
	if got := g.Stats().FrameUpdates; got != 2 {
		t.Fatalf("repeated scroll offset issued %d extra updates", got-2)
	}

	// A bucket acquired after scrolling starts at its final offset.
	f, _ := a.Acquire(40)
	if tr, _ := g.Frame(f); tr.Y != 320-25 {
		t.Fatalf("translation = %v, want %v", tr.Y, 320-25)
	}
}

func TestMarkUsedEvicts(t *testing.T) {
	g := scene.NewGraph()
	a := New(g, 10, 16, 0)
	a.Acquire(0)
	a.Acquire(16)
	a.Acquire(32)
	a.Acquire(100)

	a.MarkUsed(geometry.Rows(20, 30), geometry.Rows(90, 96))
	got := a.Indices()
	if len(got) != 1 || got[0] != 1 {
		t.Fatalf("live buckets = %v, want [1]", got)
	}
	frames, _ := g.Counts()
	if frames != 1 {
		t.Fatalf("scene frames = %d, want 1", frames)
	}

	a.MarkUsed()
	if a.Len() != 0 {
		t.Fatal("no referenced rows must evict everything")
	}
}

func TestDefaultBucketSize(t *testing.T) {
	a := New(scene.NewGraph(), 10, 0, 0)
	if r := a.BucketRows(1); r != geometry.Rows(DefaultBucketSize, 2*DefaultBucketSize) {
		t.Fatalf("bucket rows = %v", r)
	}
}
