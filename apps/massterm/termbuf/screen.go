// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/massterm/termbuf/screen.go
// Summary: Locked read access to a Buffer.

package termbuf

import (
	"github.com/pragmatrix/massive-terminal/apps/massterm/engine"
	"github.com/pragmatrix/massive-terminal/apps/massterm/geometry"
)

// screen is only valid inside Buffer.View.
type screen struct {
	b *Buffer
}

var _ engine.Screen = screen{}

func (s screen) Version() uint64             { return s.b.version }
func (s screen) VisibleTop() int64           { return s.b.active.visibleTop() }
func (s screen) Columns() int                { return s.b.cols }
func (s screen) Rows() int                   { return s.b.rows }
func (s screen) Retained() geometry.RowRange { return s.b.active.retained() }
func (s screen) AltScreen() bool             { return s.b.active == s.b.alt }

func (s screen) Cursor() engine.Cursor {
	return engine.Cursor{
		Column:  min(s.b.x, s.b.cols-1),
		Row:     s.b.y,
		Visible: s.b.cursorVisible,
		Shape:   s.b.cursorShape,
	}
}

func (s screen) ChangedRows(r geometry.RowRange, since uint64) geometry.RowSet {
	var out geometry.RowSet
	r, ok := r.Intersect(s.b.active.retained())
	if !ok {
		return out
	}
	for row := r.Start; row < r.End; row++ {
		if l, _ := s.b.active.at(row); l.Version > since {
			out.Add(row)
		}
	}
	return out
}

// Lines returns copies of the rows in r. Rows the buffer no longer holds come
// back blank.
func (s screen) Lines(r geometry.RowRange) []engine.Line {
	out := make([]engine.Line, 0, max(r.Len(), 0))
	for row := r.Start; row < r.End; row++ {
		if l, ok := s.b.active.at(row); ok {
			out = append(out, l.Clone())
		} else {
			out = append(out, engine.Line{})
		}
	}
	return out
}

func (s screen) LogicalLines(r geometry.RowRange) []engine.LogicalGroup {
	g := s.b.active
	ret := g.retained()
	r, ok := r.Intersect(ret)
	if !ok {
		return nil
	}
	row := r.Start
	for row > ret.Start {
		if l, _ := g.at(row - 1); !l.Wrapped {
			break
		}
		row--
	}
	var groups []engine.LogicalGroup
	for row < r.End {
		group := engine.LogicalGroup{FirstRow: row}
		for {
			l, _ := g.at(row)
			group.Lines = append(group.Lines, l.Clone())
			row++
			if !l.Wrapped || row >= ret.End {
				break
			}
		}
		groups = append(groups, group)
	}
	return groups
}
