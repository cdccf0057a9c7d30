// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/massterm/selection/text.go
// Summary: Text extraction for a selection range.

package selection

import (
	"strings"
	"unicode"
)

// Text returns the selected text. Rows of one logical line are joined
// without a newline; trailing whitespace is trimmed only at the end of a
// logical line.
func Text(r Range, src LogicalSource, rectangular bool) string {
	var sb strings.Builder
	rows := r.Rows()
	lastWasWrapped := false

	for _, l := range LogicalLinesAround(src, rows) {
		if sb.Len() > 0 && !lastWasWrapped {
			sb.WriteByte('\n')
		}
		lastIdx := len(l.Physical) - 1
		for i, phys := range l.Physical {
			row := l.FirstRow + int64(i)
			if !rows.Contains(row) {
				continue
			}
			from, to := r.ColsForRow(row, rectangular)
			n := int64(phys.Len())
			to = min(to, n)
			span := ""
			if from < to {
				span = phys.ColumnsText(int(from), int(to))
			}
			if i == lastIdx {
				span = strings.TrimRightFunc(span, unicode.IsSpace)
			}
			sb.WriteString(span)

			lastCol := min(to-1, n-1)
			lastWasWrapped = n > 0 && lastCol == n-1 && phys.Wrapped
		}
	}
	return sb.String()
}
