// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/massterm/termbuf/decode.go
// Summary: Dispatch of decoded graphemes, controls and escape sequences.

package termbuf

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"

	"github.com/pragmatrix/massive-terminal/apps/massterm/engine"
)

// incompleteRune reports whether data starts with a truncated UTF-8
// sequence.
func incompleteRune(data []byte) bool {
	return data[0] >= 0xC0 && !utf8.FullRune(data)
}

func (b *Buffer) dispatch(seq []byte, width int) {
	switch {
	case width > 0:
		b.print(string(seq), width)
	case ansi.HasCsiPrefix(seq):
		b.handleCSI(ansi.Cmd(b.parser.Command()), b.parser.Params())
	case ansi.HasOscPrefix(seq):
		b.handleOSC(b.parser.Command(), b.parser.Data())
	case ansi.HasDcsPrefix(seq), ansi.HasApcPrefix(seq), ansi.HasSosPrefix(seq), ansi.HasPmPrefix(seq):
		// Not supported.
	case ansi.HasEscPrefix(seq):
		b.handleESC(ansi.Cmd(b.parser.Command()))
	case len(seq) == 1:
		b.handleControl(seq[0])
	case utf8.Valid(seq):
		b.combine(string(seq))
	}
}

func (b *Buffer) print(text string, width int) {
	if width > b.cols {
		return
	}
	if b.wrapPending && b.autowrap {
		b.wrap()
	}
	if b.x+width > b.cols {
		if !b.autowrap {
			b.x = b.cols - width
		} else {
			b.wrap()
		}
	}
	l := b.line(b.y)
	clearWide(l, b.x, width)
	setCell(l, b.x, b.pen.cell(text, width))
	if width == 2 {
		setCell(l, b.x+1, b.pen.cell("", 0))
	}
	b.x += width
	b.wrapPending = false
	if b.x >= b.cols {
		b.x = b.cols - 1
		b.wrapPending = true
	}
}

// combine appends a zero-width cluster to the previous cell.
func (b *Buffer) combine(text string) {
	col := b.x - 1
	if b.wrapPending {
		col = b.x
	}
	l := b.line(b.y)
	if col < 0 || col >= len(l.Cells) {
		return
	}
	if l.Cells[col].IsSpacer() && col > 0 {
		col--
	}
	l.Cells[col].Text += text
}

// setCell stores c at x, padding the line with blanks.
func setCell(l *engine.Line, x int, c engine.Cell) {
	for len(l.Cells) <= x {
		l.Cells = append(l.Cells, engine.BlankCell)
	}
	l.Cells[x] = c
}

// clearWide blanks the halves of wide cells that an overwrite of
// [x, x+width) would split.
func clearWide(l *engine.Line, x, width int) {
	if x > 0 && x < len(l.Cells) && l.Cells[x].IsSpacer() {
		l.Cells[x-1] = engine.BlankCell
	}
	if end := x + width; end < len(l.Cells) && l.Cells[end].IsSpacer() {
		l.Cells[end] = engine.BlankCell
	}
}

func (b *Buffer) handleControl(c byte) {
	switch c {
	case ansi.CR:
		b.x = 0
		b.wrapPending = false
	case ansi.LF, ansi.VT, ansi.FF:
		b.lineFeed()
	case ansi.BS:
		b.x = max(b.x-1, 0)
		b.wrapPending = false
	case ansi.HT:
		b.x = min((b.x/8+1)*8, b.cols-1)
	}
}

func (b *Buffer) handleESC(cmd ansi.Cmd) {
	if cmd.Intermediate() != 0 {
		// Charset designations.
		return
	}
	switch cmd.Final() {
	case '7':
		b.saveCursor()
	case '8':
		b.restoreCursor()
	case 'D':
		b.lineFeed()
	case 'E':
		b.x = 0
		b.lineFeed()
	case 'M':
		b.reverseIndex()
	case 'c':
		b.reset()
	}
}

func (b *Buffer) saveCursor() {
	b.saved = savedCursor{x: b.x, y: b.y, pen: b.pen}
}

func (b *Buffer) restoreCursor() {
	b.x, b.y, b.pen = min(b.saved.x, b.cols-1), min(b.saved.y, b.rows-1), b.saved.pen
	b.wrapPending = false
}

func param(params ansi.Params, i, def int) int {
	v, _, _ := params.Param(i, def)
	return v
}

// count returns a movement count, treating 0 as 1.
func count(params ansi.Params) int {
	return max(param(params, 0, 1), 1)
}

func (b *Buffer) moveTo(x, y int) {
	b.x = min(max(x, 0), b.cols-1)
	b.y = min(max(y, 0), b.rows-1)
	b.wrapPending = false
}

func (b *Buffer) handleCSI(cmd ansi.Cmd, params ansi.Params) {
	if cmd.Prefix() == '?' {
		switch cmd.Final() {
		case 'h':
			b.setModes(params, true)
		case 'l':
			b.setModes(params, false)
		}
		return
	}
	if cmd.Prefix() != 0 {
		return
	}
	if cmd.Intermediate() == ' ' && cmd.Final() == 'q' {
		if s := param(params, 0, 0); s <= int(engine.CursorSteadyBar) {
			b.cursorShape = engine.CursorShape(s)
		}
		return
	}
	if cmd.Intermediate() != 0 {
		return
	}

	switch cmd.Final() {
	case 'A':
		b.moveTo(b.x, b.y-count(params))
	case 'B', 'e':
		b.moveTo(b.x, b.y+count(params))
	case 'C', 'a':
		b.moveTo(b.x+count(params), b.y)
	case 'D':
		b.moveTo(b.x-count(params), b.y)
	case 'E':
		b.moveTo(0, b.y+count(params))
	case 'F':
		b.moveTo(0, b.y-count(params))
	case 'G', '`':
		b.moveTo(count(params)-1, b.y)
	case 'd':
		b.moveTo(b.x, count(params)-1)
	case 'H', 'f':
		b.moveTo(max(param(params, 1, 1), 1)-1, max(param(params, 0, 1), 1)-1)
	case 'J':
		b.eraseDisplay(param(params, 0, 0))
	case 'K':
		b.eraseLine(param(params, 0, 0))
	case 'X':
		b.eraseChars(count(params))
	case '@':
		b.insertChars(count(params))
	case 'P':
		b.deleteChars(count(params))
	case 'L':
		b.active.insertLines(b.y, count(params), b.version)
		b.x = 0
	case 'M':
		b.active.deleteLines(b.y, count(params), b.version)
		b.x = 0
	case 'S':
		b.scrollUp(count(params))
	case 'T':
		b.active.insertLines(0, count(params), b.version)
	case 'm':
		b.handleSGR(params)
	case 's':
		b.saveCursor()
	case 'u':
		b.restoreCursor()
	case 'n':
		b.deviceStatus(param(params, 0, 0))
	case 'c':
		b.replies = append(b.replies, []byte("\x1b[?62;22c"))
	}
}

func (b *Buffer) deviceStatus(n int) {
	switch n {
	case 5:
		b.replies = append(b.replies, []byte("\x1b[0n"))
	case 6:
		b.replies = append(b.replies, fmt.Appendf(nil, "\x1b[%d;%dR", b.y+1, b.x+1))
	}
}

func (b *Buffer) setModes(params ansi.Params, on bool) {
	params.ForEach(0, func(_, mode int, _ bool) {
		switch mode {
		case 1:
			b.modes.AppCursorKeys = on
		case 7:
			b.autowrap = on
		case 25:
			b.cursorVisible = on
		case 47:
			b.setAltScreen(on, false)
		case 1047:
			b.setAltScreen(on, true)
		case 1049:
			if on {
				b.altSaved = savedCursor{x: b.x, y: b.y, pen: b.pen}
				b.setAltScreen(true, true)
				b.moveTo(0, 0)
			} else {
				b.setAltScreen(false, false)
				b.x, b.y, b.pen = min(b.altSaved.x, b.cols-1), min(b.altSaved.y, b.rows-1), b.altSaved.pen
			}
		case 2004:
			b.modes.BracketedPaste = on
		}
	})
}

func (b *Buffer) blank() engine.Cell {
	return engine.Cell{Text: " ", Width: 1, BG: b.pen.bg}
}

// clearFrom erases the line from column x to its end.
func (b *Buffer) clearFrom(l *engine.Line, x int) {
	if x < len(l.Cells) {
		clearWide(l, x, 0)
		l.Cells = l.Cells[:x]
	}
	if b.pen.bg != engine.DefaultColor {
		for i := x; i < b.cols; i++ {
			setCell(l, i, b.blank())
		}
	}
	l.Wrapped = false
}

// clearTo erases the columns [0, x].
func (b *Buffer) clearTo(l *engine.Line, x int) {
	clearWide(l, 0, x+1)
	for i := 0; i <= x && i < b.cols; i++ {
		setCell(l, i, b.blank())
	}
}

func (b *Buffer) eraseLine(mode int) {
	l := b.line(b.y)
	switch mode {
	case 0:
		b.clearFrom(l, b.x)
	case 1:
		b.clearTo(l, b.x)
	case 2:
		b.clearFrom(l, 0)
	}
}

func (b *Buffer) eraseDisplay(mode int) {
	switch mode {
	case 0:
		b.clearFrom(b.line(b.y), b.x)
		for y := b.y + 1; y < b.rows; y++ {
			b.clearFrom(b.line(y), 0)
		}
	case 1:
		for y := 0; y < b.y; y++ {
			b.clearFrom(b.line(y), 0)
		}
		b.clearTo(b.line(b.y), b.x)
	case 2:
		for y := 0; y < b.rows; y++ {
			b.clearFrom(b.line(y), 0)
		}
	case 3:
		b.active.clearScrollback()
	}
}

func (b *Buffer) eraseChars(n int) {
	l := b.line(b.y)
	clearWide(l, b.x, n)
	for i := b.x; i < b.x+n && i < b.cols; i++ {
		if i < len(l.Cells) || b.pen.bg != engine.DefaultColor {
			setCell(l, i, b.blank())
		}
	}
}

func (b *Buffer) insertChars(n int) {
	l := b.line(b.y)
	if b.x >= len(l.Cells) {
		return
	}
	clearWide(l, b.x, 0)
	ins := make([]engine.Cell, n)
	for i := range ins {
		ins[i] = b.blank()
	}
	l.Cells = append(l.Cells[:b.x], append(ins, l.Cells[b.x:]...)...)
	if len(l.Cells) > b.cols {
		l.Cells = l.Cells[:b.cols]
		if last := len(l.Cells) - 1; l.Cells[last].Width == 2 {
			l.Cells[last] = engine.BlankCell
		}
	}
}

func (b *Buffer) deleteChars(n int) {
	l := b.line(b.y)
	if b.x >= len(l.Cells) {
		return
	}
	end := min(b.x+n, len(l.Cells))
	clearWide(l, b.x, end-b.x)
	l.Cells = append(l.Cells[:b.x], l.Cells[end:]...)
}

// handleOSC handles titles (0, 2) and hyperlinks (8).
func (b *Buffer) handleOSC(cmd int, data []byte) {
	parts := strings.SplitN(string(data), ";", 3)
	switch cmd {
	case 0, 2:
		if len(parts) >= 2 {
			b.title = strings.Join(parts[1:], ";")
			b.newTitle = true
		}
	case 8:
		if len(parts) < 3 || parts[2] == "" {
			b.pen.link = nil
			return
		}
		link := &engine.Hyperlink{URI: parts[2]}
		for _, kv := range strings.Split(parts[1], ":") {
			if id, ok := strings.CutPrefix(kv, "id="); ok {
				link.ID = id
			}
		}
		b.pen.link = link
	}
}
