// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/massterm/buckets/allocator.go
// Summary: Scroll bucket allocator keeping frame offsets small.
//
// Stable rows grow without bound, so placing every line at row*lineHeight
// would eventually lose float precision in the renderer. Rows are grouped
// into buckets of a fixed size; each bucket gets its own frame, translated
// by (bucket top - scroll offset). Lines inside a bucket are positioned
// relative to the bucket top, so their coordinates stay below
// bucketSize*lineHeight no matter how far the terminal has scrolled.

package buckets

import (
	"sort"

	"github.com/pragmatrix/massive-terminal/apps/massterm/geometry"
	"github.com/pragmatrix/massive-terminal/apps/massterm/scene"
)

// DefaultBucketSize is the number of rows per bucket.
const DefaultBucketSize = 1024

type bucket struct {
	frame scene.FrameHandle
	// offset is the last translation pushed to the frame.
	offset int64
}

// Allocator maps stable rows to per-bucket frames.
type Allocator struct {
	scene      scene.Scene
	lineHeight int64
	bucketSize int64
	scrollPx   int64
	buckets    map[int64]*bucket
}

// New creates an allocator. A bucket size below one uses DefaultBucketSize.
func New(sc scene.Scene, lineHeight uint32, bucketSize int, scrollPx int64) *Allocator {
	if bucketSize < 1 {
		bucketSize = DefaultBucketSize
	}
	return &Allocator{
		scene:      sc,
		lineHeight: int64(max(lineHeight, 1)),
		bucketSize: int64(bucketSize),
		scrollPx:   scrollPx,
		buckets:    make(map[int64]*bucket),
	}
}

// BucketIndex returns the bucket a stable row belongs to. Negative rows
// round toward negative infinity.
func (a *Allocator) BucketIndex(row int64) int64 {
	return geometry.FloorDiv(row, a.bucketSize)
}

// BucketRows returns the stable rows covered by a bucket.
func (a *Allocator) BucketRows(index int64) geometry.RowRange {
	start := index * a.bucketSize
	return geometry.RowRange{Start: start, End: start + a.bucketSize}
}

func (a *Allocator) bucketTopPx(index int64) int64 {
	return index * a.bucketSize * a.lineHeight
}

// Acquire returns the frame for row's bucket, creating it if needed, and the
// pixel offset of the row's top edge inside that frame.
func (a *Allocator) Acquire(row int64) (scene.FrameHandle, int64) {
	idx := a.BucketIndex(row)
	b, ok := a.buckets[idx]
	if !ok {
		offset := a.bucketTopPx(idx) - a.scrollPx
		b = &bucket{
			frame:  a.scene.StageFrame(scene.Translate(float64(offset))),
			offset: offset,
		}
		a.buckets[idx] = b
	}
	return b.frame, (row - idx*a.bucketSize) * a.lineHeight
}

// SetScrollOffset moves all live buckets to a new scroll offset. Only frames
// whose translation changes receive an update.
func (a *Allocator) SetScrollOffset(px int64) {
	a.scrollPx = px
	for idx, b := range a.buckets {
		offset := a.bucketTopPx(idx) - px
		if offset == b.offset {
			continue
		}
		b.offset = offset
		a.scene.UpdateFrame(b.frame, scene.Translate(float64(offset)))
	}
}

// ScrollOffset returns the offset last set.
func (a *Allocator) ScrollOffset() int64 {
	return a.scrollPx
}

// MarkUsed evicts every bucket that intersects none of the given row
// ranges. Visuals inside evicted buckets must have been removed already.
func (a *Allocator) MarkUsed(used ...geometry.RowRange) {
	for idx, b := range a.buckets {
		rows := a.BucketRows(idx)
		keep := false
		for _, r := range used {
			if rows.Intersects(r) {
				keep = true
				break
			}
		}
		if !keep {
			a.scene.RemoveFrame(b.frame)
			delete(a.buckets, idx)
		}
	}
}

// Release removes all frames.
func (a *Allocator) Release() {
	for idx, b := range a.buckets {
		a.scene.RemoveFrame(b.frame)
		delete(a.buckets, idx)
	}
}

// Len returns the number of live buckets.
func (a *Allocator) Len() int {
	return len(a.buckets)
}

// Indices returns the live bucket indices in ascending order.
func (a *Allocator) Indices() []int64 {
	out := make([]int64, 0, len(a.buckets))
	for idx := range a.buckets {
		out = append(out, idx)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
