// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/massterm/selection/logical.go
// Summary: Logical line coordinates and cell/word/line extension.
//
// A logical line is the concatenation of soft-wrapped physical rows. Word
// and line extension work on logical columns so that a word broken by a wrap
// is still selected as a whole.

package selection

import (
	"strings"
	"unicode/utf8"

	"github.com/pragmatrix/massive-terminal/apps/massterm/engine"
	"github.com/pragmatrix/massive-terminal/apps/massterm/geometry"
)

// DefaultWordBoundary lists the characters that end a word.
const DefaultWordBoundary = " \t\n{[}]()\"'`"

// LogicalSource provides soft-wrapped groups of rows. engine.Screen
// implements it.
type LogicalSource interface {
	LogicalLines(r geometry.RowRange) []engine.LogicalGroup
}

// LogicalLine addresses the physical rows of one logical line.
type LogicalLine struct {
	FirstRow int64
	Physical []engine.Line
}

// NewLogicalLine wraps an engine group.
func NewLogicalLine(g engine.LogicalGroup) LogicalLine {
	return LogicalLine{FirstRow: g.FirstRow, Physical: g.Lines}
}

// LogicalLinesAround returns the logical lines touching rows.
func LogicalLinesAround(src LogicalSource, rows geometry.RowRange) []LogicalLine {
	groups := src.LogicalLines(rows)
	out := make([]LogicalLine, 0, len(groups))
	for _, g := range groups {
		if len(g.Lines) == 0 {
			continue
		}
		out = append(out, NewLogicalLine(g))
	}
	return out
}

func (l LogicalLine) ContainsRow(row int64) bool {
	return row >= l.FirstRow && row < l.FirstRow+int64(len(l.Physical))
}

// LastRow returns the last physical row.
func (l LogicalLine) LastRow() int64 {
	return l.FirstRow + int64(len(l.Physical)) - 1
}

// Len returns the number of logical columns.
func (l LogicalLine) Len() int64 {
	var n int64
	for _, p := range l.Physical {
		n += int64(p.Len())
	}
	return n
}

// XYToLogicalX converts a physical column on row to a logical column. Rows
// above the line map to 0; columns past a row's end are allowed.
func (l LogicalLine) XYToLogicalX(x int64, row int64) int64 {
	var offset int64
	for i, p := range l.Physical {
		physRow := l.FirstRow + int64(i)
		if row < physRow {
			return 0
		}
		if row == physRow {
			return saturatingAdd(offset, x)
		}
		offset += int64(p.Len())
	}
	return saturatingAdd(offset, x)
}

// LogicalXToPhysical converts a logical column back to (row, column).
// Columns past the end land on the last row.
func (l LogicalLine) LogicalXToPhysical(x int64) (int64, int64) {
	if len(l.Physical) == 0 {
		return l.FirstRow, x
	}
	row := l.FirstRow
	var idx int64
	for _, p := range l.Physical {
		n := int64(p.Len())
		if x-idx < n {
			return row, x - idx
		}
		row++
		idx += n
	}
	last := int64(l.Physical[len(l.Physical)-1].Len())
	return row - 1, x - idx + last
}

// cells returns the logical cells with their logical column index.
func (l LogicalLine) cells() []logicalCell {
	out := make([]logicalCell, 0, l.Len())
	var idx int64
	for _, p := range l.Physical {
		for _, c := range p.Cells {
			if !c.IsSpacer() {
				out = append(out, logicalCell{index: idx, cell: c})
			}
			idx++
		}
	}
	return out
}

type logicalCell struct {
	index int64
	cell  engine.Cell
}

func (c logicalCell) width() int64 {
	return int64(max(c.cell.Width, 1))
}

// lineAt returns the logical line containing row.
func lineAt(src LogicalSource, row int64) (LogicalLine, bool) {
	for _, l := range LogicalLinesAround(src, geometry.RowsWithLen(row, 1)) {
		if l.ContainsRow(row) {
			return l, true
		}
	}
	return LogicalLine{}, false
}

// clickRange converts a half-open logical column range into a closed cell
// range.
func clickRange(l LogicalLine, lo, hi int64) Range {
	startRow, startCol := l.LogicalXToPhysical(lo)
	endRow, endCol := startRow, startCol
	if hi > lo {
		endRow, endCol = l.LogicalXToPhysical(hi - 1)
	}
	return NewRange(
		geometry.CellPos{Column: startCol, Row: startRow},
		geometry.CellPos{Column: endCol, Row: endRow},
	)
}

// cellAround widens pos to the full extent of a wide grapheme.
func cellAround(pos geometry.CellPos, src LogicalSource) Range {
	l, ok := lineAt(src, pos.Row)
	if !ok {
		return Single(pos)
	}
	idx := l.XYToLogicalX(max(pos.Column, 0), pos.Row)
	for _, c := range l.cells() {
		if idx >= c.index && idx < c.index+c.width() {
			return clickRange(l, c.index, c.index+c.width())
		}
	}
	return Single(pos)
}

// wordAround selects the run of word characters around pos. A position on
// a boundary character selects only that cell.
func wordAround(pos geometry.CellPos, src LogicalSource, boundary string) Range {
	l, ok := lineAt(src, pos.Row)
	if !ok {
		return Single(pos)
	}
	if boundary == "" {
		boundary = DefaultWordBoundary
	}
	click := l.XYToLogicalX(max(pos.Column, 0), pos.Row)
	if click >= l.Len() {
		return clickRange(l, click, click)
	}

	cells := l.cells()
	lower, upper := click, click
	for _, c := range cells {
		if c.index < click {
			continue
		}
		if !IsWordCluster(c.cell.Text, boundary) {
			break
		}
		upper = c.index + c.width()
	}
	for i := len(cells) - 1; i >= 0; i-- {
		c := cells[i]
		if c.index > click {
			continue
		}
		if !IsWordCluster(c.cell.Text, boundary) {
			break
		}
		lower = c.index
		// A click on the right half of a wide grapheme.
		upper = max(upper, c.index+c.width())
	}
	return clickRange(l, lower, upper)
}

// lineAround selects the whole logical line containing pos.
func lineAround(pos geometry.CellPos, src LogicalSource) Range {
	l, ok := lineAt(src, pos.Row)
	if !ok {
		return Single(pos)
	}
	return NewRange(
		geometry.CellPos{Column: 0, Row: l.FirstRow},
		geometry.CellPos{Column: geometry.MaxColumn, Row: l.LastRow()},
	)
}

// IsWordCluster reports whether a grapheme cluster belongs to a word. Empty
// clusters never do, clusters of more than one character always do.
func IsWordCluster(s string, boundary string) bool {
	switch utf8.RuneCountInString(s) {
	case 0:
		return false
	case 1:
		return !strings.Contains(boundary, s)
	}
	return true
}

func saturatingAdd(a, b int64) int64 {
	if b > 0 && a > geometry.MaxColumn-b {
		return geometry.MaxColumn
	}
	return a + b
}
