// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/massterm/geometry/rows.go
// Summary: Half-open stable row ranges and sorted row sets.

package geometry

import (
	"fmt"
	"sort"
)

// RowRange is a half-open range of stable row indices [Start, End).
type RowRange struct {
	Start int64
	End   int64
}

// Rows is shorthand for RowRange{start, end}.
func Rows(start, end int64) RowRange {
	return RowRange{Start: start, End: end}
}

// RowsWithLen returns the range of n rows starting at start.
func RowsWithLen(start int64, n int) RowRange {
	return RowRange{Start: start, End: start + int64(n)}
}

func (r RowRange) String() string {
	return fmt.Sprintf("%d..%d", r.Start, r.End)
}

func (r RowRange) Len() int {
	if r.End <= r.Start {
		return 0
	}
	return int(r.End - r.Start)
}

func (r RowRange) Empty() bool {
	return r.End <= r.Start
}

func (r RowRange) Contains(row int64) bool {
	return row >= r.Start && row < r.End
}

// Intersects reports whether both ranges share at least one row.
func (r RowRange) Intersects(o RowRange) bool {
	return r.Start < o.End && o.Start < r.End && !r.Empty() && !o.Empty()
}

// Intersect returns the common rows of r and o.
func (r RowRange) Intersect(o RowRange) (RowRange, bool) {
	res := RowRange{Start: max(r.Start, o.Start), End: min(r.End, o.End)}
	if res.Empty() {
		return RowRange{}, false
	}
	return res, true
}

// Inside reports whether r lies completely within o. An empty range is
// inside anything.
func (r RowRange) Inside(o RowRange) bool {
	if r.Empty() {
		return true
	}
	return r.Start >= o.Start && r.End <= o.End
}

// Union returns the smallest range covering both r and o.
func (r RowRange) Union(o RowRange) RowRange {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	return RowRange{Start: min(r.Start, o.Start), End: max(r.End, o.End)}
}

// RowSet is a set of stable rows kept as sorted, disjoint, non-adjacent
// ranges.
type RowSet struct {
	ranges []RowRange
}

// NewRowSet builds a set from arbitrary ranges.
func NewRowSet(ranges ...RowRange) RowSet {
	var s RowSet
	for _, r := range ranges {
		s.AddRange(r)
	}
	return s
}

func (s *RowSet) Add(row int64) {
	s.AddRange(RowRange{Start: row, End: row + 1})
}

func (s *RowSet) AddRange(r RowRange) {
	if r.Empty() {
		return
	}
	// First range that ends at or after r.Start can merge with r.
	i := sort.Search(len(s.ranges), func(i int) bool { return s.ranges[i].End >= r.Start })
	j := i
	for j < len(s.ranges) && s.ranges[j].Start <= r.End {
		r = r.Union(s.ranges[j])
		j++
	}
	merged := make([]RowRange, 0, len(s.ranges)-(j-i)+1)
	merged = append(merged, s.ranges[:i]...)
	merged = append(merged, r)
	merged = append(merged, s.ranges[j:]...)
	s.ranges = merged
}

// Union adds all rows of o to s.
func (s *RowSet) Union(o RowSet) {
	for _, r := range o.ranges {
		s.AddRange(r)
	}
}

// IntersectRange returns the rows of s that lie inside r.
func (s RowSet) IntersectRange(r RowRange) RowSet {
	var res RowSet
	for _, sr := range s.ranges {
		if i, ok := sr.Intersect(r); ok {
			res.ranges = append(res.ranges, i)
		}
	}
	return res
}

// Subtract returns the rows of s that are not in o.
func (s RowSet) Subtract(o RowSet) RowSet {
	var res RowSet
	for _, sr := range s.ranges {
		cur := sr
		for _, or := range o.ranges {
			if or.End <= cur.Start || or.Start >= cur.End {
				continue
			}
			if or.Start > cur.Start {
				res.ranges = append(res.ranges, RowRange{Start: cur.Start, End: or.Start})
			}
			cur.Start = or.End
			if cur.Empty() {
				break
			}
		}
		if !cur.Empty() {
			res.ranges = append(res.ranges, cur)
		}
	}
	return res
}

func (s RowSet) Contains(row int64) bool {
	i := sort.Search(len(s.ranges), func(i int) bool { return s.ranges[i].End > row })
	return i < len(s.ranges) && s.ranges[i].Start <= row
}

// Intersects reports whether any row of s lies in r.
func (s RowSet) Intersects(r RowRange) bool {
	for _, sr := range s.ranges {
		if sr.Intersects(r) {
			return true
		}
	}
	return false
}

// Ranges returns the disjoint ranges in ascending order.
func (s RowSet) Ranges() []RowRange {
	return s.ranges
}

// Len returns the number of rows in the set.
func (s RowSet) Len() int {
	n := 0
	for _, r := range s.ranges {
		n += r.Len()
	}
	return n
}

func (s RowSet) Empty() bool {
	return len(s.ranges) == 0
}

func (s RowSet) String() string {
	return fmt.Sprint(s.ranges)
}
