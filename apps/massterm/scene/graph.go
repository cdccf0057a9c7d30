// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/massterm/scene/graph.go
// Summary: In-memory retained scene used by renderers and tests.

package scene

import (
	"log"
	"sort"
	"sync"
)

type frameEntry struct {
	transform Transform
}

type visualEntry struct {
	id     VisualHandle
	frame  FrameHandle
	layer  Layer
	shapes []Shape
}

// Stats counts the update calls a Graph received.
type Stats struct {
	FramesStaged   int
	FrameUpdates   int
	FramesRemoved  int
	VisualsStaged  int
	VisualUpdates  int
	VisualsRemoved int
}

// Graph is a mutex-guarded, retained scene. It implements Scene.
type Graph struct {
	mu      sync.Mutex
	nextID  uint64
	frames  map[FrameHandle]*frameEntry
	visuals map[VisualHandle]*visualEntry
	stats   Stats
	dirty   bool
}

func NewGraph() *Graph {
	return &Graph{
		frames:  make(map[FrameHandle]*frameEntry),
		visuals: make(map[VisualHandle]*visualEntry),
	}
}

func (g *Graph) StageFrame(t Transform) FrameHandle {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nextID++
	h := FrameHandle(g.nextID)
	g.frames[h] = &frameEntry{transform: t}
	g.stats.FramesStaged++
	g.dirty = true
	return h
}

// UpdateFrame counts every call but only marks the graph dirty when the
// transform actually changed.
func (g *Graph) UpdateFrame(h FrameHandle, t Transform) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.stats.FrameUpdates++
	f, ok := g.frames[h]
	if !ok {
		log.Printf("Scene: update of unknown frame %d", h)
		return
	}
	if f.transform == t {
		return
	}
	f.transform = t
	g.dirty = true
}

func (g *Graph) RemoveFrame(h FrameHandle) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.frames[h]; !ok {
		return
	}
	delete(g.frames, h)
	g.stats.FramesRemoved++
	g.dirty = true
}

func (g *Graph) StageVisual(frame FrameHandle, layer Layer, shapes []Shape) VisualHandle {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nextID++
	h := VisualHandle(g.nextID)
	g.visuals[h] = &visualEntry{id: h, frame: frame, layer: layer, shapes: shapes}
	g.stats.VisualsStaged++
	g.dirty = true
	return h
}

func (g *Graph) UpdateVisual(h VisualHandle, shapes []Shape) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.stats.VisualUpdates++
	v, ok := g.visuals[h]
	if !ok {
		log.Printf("Scene: update of unknown visual %d", h)
		return
	}
	v.shapes = shapes
	g.dirty = true
}

func (g *Graph) RemoveVisual(h VisualHandle) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.visuals[h]; !ok {
		return
	}
	delete(g.visuals, h)
	g.stats.VisualsRemoved++
	g.dirty = true
}

// Stats returns the update counters.
func (g *Graph) Stats() Stats {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stats
}

// Counts returns the number of live frames and visuals.
func (g *Graph) Counts() (frames, visuals int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.frames), len(g.visuals)
}

// Frame returns the transform of a live frame.
func (g *Graph) Frame(h FrameHandle) (Transform, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	f, ok := g.frames[h]
	if !ok {
		return Transform{}, false
	}
	return f.transform, true
}

// PlacedVisual is a visual together with the transform of its frame.
type PlacedVisual struct {
	Handle    VisualHandle
	Layer     Layer
	Transform Transform
	Shapes    []Shape
}

// Snapshot returns all visuals whose frame is live, ordered by layer and
// staging order, and clears the dirty flag.
func (g *Graph) Snapshot() []PlacedVisual {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]PlacedVisual, 0, len(g.visuals))
	for _, v := range g.visuals {
		f, ok := g.frames[v.frame]
		if !ok {
			continue
		}
		out = append(out, PlacedVisual{Handle: v.id, Layer: v.layer, Transform: f.transform, Shapes: v.shapes})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Layer != out[j].Layer {
			return out[i].Layer < out[j].Layer
		}
		return out[i].Handle < out[j].Handle
	})
	g.dirty = false
	return out
}

// Dirty reports whether anything changed since the last Snapshot.
func (g *Graph) Dirty() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.dirty
}
