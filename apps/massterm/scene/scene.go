// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/massterm/scene/scene.go
// Summary: Retained scene contract: frames, visuals and shapes.
//
// A frame is a coordinate system (a vertical translation in view pixels).
// Visuals belong to exactly one frame and carry a list of shapes whose
// coordinates are relative to that frame. Moving a frame moves all of its
// visuals without touching their shapes.

package scene

// FrameHandle identifies a staged frame.
type FrameHandle uint64

// VisualHandle identifies a staged visual.
type VisualHandle uint64

// Layer orders visuals when they overlap. Higher layers are drawn later.
type Layer int

const (
	LayerLines Layer = iota
	LayerSelection
	LayerCursor
)

// Transform places a frame relative to the view's top-left corner.
type Transform struct {
	X float64
	Y float64
}

// Translate returns a vertical translation.
func Translate(y float64) Transform {
	return Transform{Y: y}
}

// Scene is the staging and update surface of a retained scene graph.
// Updates are applied before the next render.
type Scene interface {
	StageFrame(t Transform) FrameHandle
	UpdateFrame(h FrameHandle, t Transform)
	RemoveFrame(h FrameHandle)

	StageVisual(frame FrameHandle, layer Layer, shapes []Shape) VisualHandle
	UpdateVisual(h VisualHandle, shapes []Shape)
	RemoveVisual(h VisualHandle)
}
