// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/massterm/termbuf/buffer_test.go
// Summary: Output decoding, screen switching, scrollback and versions.

package termbuf

import (
	"testing"

	"github.com/pragmatrix/massive-terminal/apps/massterm/engine"
	"github.com/pragmatrix/massive-terminal/apps/massterm/geometry"
)

func write(t *testing.T, b *Buffer, s string) {
	t.Helper()
	if _, err := b.Write([]byte(s)); err != nil {
		t.Fatalf("write %q: %v", s, err)
	}
}

func rowLine(b *Buffer, row int64) engine.Line {
	var l engine.Line
	b.View(func(s engine.Screen) {
		l = s.Lines(geometry.RowsWithLen(row, 1))[0]
	})
	return l
}

func rowText(b *Buffer, row int64) string {
	return rowLine(b, row).Text()
}

func cursor(b *Buffer) engine.Cursor {
	var c engine.Cursor
	b.View(func(s engine.Screen) { c = s.Cursor() })
	return c
}

func TestPrintWrapsAndMarksSoftWraps(t *testing.T) {
	b := New(5, 3)
	write(t, b, "abcdefg")

	if got := rowText(b, 0); got != "abcde" {
		t.Fatalf("row 0 = %q", got)
	}
	if got := rowText(b, 1); got != "fg" {
		t.Fatalf("row 1 = %q", got)
	}
	if !rowLine(b, 0).Wrapped || rowLine(b, 1).Wrapped {
		t.Fatalf("wrap flags wrong")
	}
	if c := cursor(b); c.Column != 2 || c.Row != 1 {
		t.Fatalf("cursor = %+v", c)
	}

	var groups []engine.LogicalGroup
	b.View(func(s engine.Screen) { groups = s.LogicalLines(geometry.Rows(1, 2)) })
	if len(groups) != 1 || groups[0].FirstRow != 0 || len(groups[0].Lines) != 2 {
		t.Fatalf("logical groups = %+v", groups)
	}
}

func TestWideCharactersWrapAsAUnit(t *testing.T) {
	b := New(4, 2)
	write(t, b, "a世b世")

	l := rowLine(b, 0)
	if len(l.Cells) != 4 || l.Cells[1].Width != 2 || !l.Cells[2].IsSpacer() {
		t.Fatalf("row 0 cells = %+v", l.Cells)
	}
	if got := l.Text(); got != "a世b" {
		t.Fatalf("row 0 = %q", got)
	}
	if got := rowText(b, 1); got != "世" {
		t.Fatalf("row 1 = %q", got)
	}
}

func TestCursorMovementAndErase(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"overwrite", "hello\x1b[1;3HX", "heXlo"},
		{"erase to end", "hello\x1b[1;3H\x1b[K", "he"},
		{"erase line", "hello\x1b[2K", ""},
		{"erase to cursor", "hello\x1b[1;2H\x1b[1K", "  llo"},
		{"delete chars", "hello\x1b[1;2H\x1b[2P", "hlo"},
		{"insert chars", "hello\x1b[1;2H\x1b[2@", "h  ello"},
		{"erase chars", "hello\x1b[1;2H\x1b[3X", "h   o"},
		{"backspace", "hellp\bo", "hello"},
		{"column", "hello\x1b[4GL", "helLo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(10, 3)
			write(t, b, tt.input)
			if got := rowText(b, 0); got != tt.want {
				t.Fatalf("row 0 = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEraseDisplayBelowCursor(t *testing.T) {
	b := New(10, 3)
	write(t, b, "one\r\ntwo\r\nthree\x1b[2;2H\x1b[J")
	for row, want := range []string{"one", "t", ""} {
		if got := rowText(b, int64(row)); got != want {
			t.Fatalf("row %d = %q, want %q", row, got, want)
		}
	}
}

func TestSGR(t *testing.T) {
	b := New(10, 2)
	write(t, b, "\x1b[1;31mA\x1b[38;5;200mB\x1b[38:2::1:2:3mC\x1b[0mD\x1b[4;44mE\x1b[24;49mF")

	cells := rowLine(b, 0).Cells
	if cells[0].Attr != engine.AttrBold || cells[0].FG != (engine.Color{Mode: engine.ColorStandard, Index: 1}) {
		t.Fatalf("A = %+v", cells[0])
	}
	if cells[1].FG != (engine.Color{Mode: engine.Color256, Index: 200}) || cells[1].Attr != engine.AttrBold {
		t.Fatalf("B = %+v", cells[1])
	}
	if cells[2].FG != (engine.Color{Mode: engine.ColorRGB, R: 1, G: 2, B: 3}) {
		t.Fatalf("C = %+v", cells[2])
	}
	if cells[3].FG != engine.DefaultColor || cells[3].Attr != 0 {
		t.Fatalf("D = %+v", cells[3])
	}
	if cells[4].Attr != engine.AttrUnderline || cells[4].BG != (engine.Color{Mode: engine.ColorStandard, Index: 4}) {
		t.Fatalf("E = %+v", cells[4])
	}
	if cells[5].Attr != 0 || cells[5].BG != engine.DefaultColor {
		t.Fatalf("F = %+v", cells[5])
	}
}

func TestBrightColorsAndRGBSemicolonForm(t *testing.T) {
	b := New(10, 2)
	write(t, b, "\x1b[91;102mA\x1b[48;2;10;20;30mB")

	cells := rowLine(b, 0).Cells
	if cells[0].FG != (engine.Color{Mode: engine.ColorStandard, Index: 9}) ||
		cells[0].BG != (engine.Color{Mode: engine.ColorStandard, Index: 10}) {
		t.Fatalf("A = %+v", cells[0])
	}
	if cells[1].BG != (engine.Color{Mode: engine.ColorRGB, R: 10, G: 20, B: 30}) {
		t.Fatalf("B = %+v", cells[1])
	}
}

func TestAlternateScreen(t *testing.T) {
	b := New(10, 3)
	write(t, b, "primary\x1b[?1049h")

	var alt bool
	var retained geometry.RowRange
	b.View(func(s engine.Screen) { alt, retained = s.AltScreen(), s.Retained() })
	if !alt || retained != geometry.Rows(0, 3) {
		t.Fatalf("alt = %v retained = %v", alt, retained)
	}
	if got := rowText(b, 0); got != "" {
		t.Fatalf("alt row 0 = %q", got)
	}

	write(t, b, "alt\x1b[?1049l")
	b.View(func(s engine.Screen) { alt = s.AltScreen() })
	if alt {
		t.Fatalf("still on alternate screen")
	}
	if got := rowText(b, 0); got != "primary" {
		t.Fatalf("row 0 = %q", got)
	}
	if c := cursor(b); c.Column != 7 || c.Row != 0 {
		t.Fatalf("restored cursor = %+v", c)
	}
}

func TestHyperlinks(t *testing.T) {
	b := New(10, 2)
	write(t, b, "\x1b]8;id=x;https://example.com\x07L\x1b]8;;\x07N")

	cells := rowLine(b, 0).Cells
	if cells[0].Link == nil || *cells[0].Link != (engine.Hyperlink{ID: "x", URI: "https://example.com"}) {
		t.Fatalf("link = %+v", cells[0].Link)
	}
	if cells[1].Link != nil {
		t.Fatalf("link not closed: %+v", cells[1].Link)
	}
}

func TestSequencesSplitAcrossWrites(t *testing.T) {
	b := New(10, 2)
	write(t, b, "\x1b[3")
	write(t, b, "1mR")
	wide := []byte("世")
	write(t, b, string(wide[:2]))
	write(t, b, string(wide[2:]))

	cells := rowLine(b, 0).Cells
	if cells[0].Text != "R" || cells[0].FG != (engine.Color{Mode: engine.ColorStandard, Index: 1}) {
		t.Fatalf("R = %+v", cells[0])
	}
	if cells[1].Text != "世" || cells[1].Width != 2 {
		t.Fatalf("wide = %+v", cells[1])
	}
}

func TestCombiningMarksStayInOneCell(t *testing.T) {
	b := New(10, 2)
	write(t, b, "e\u0301x")

	cells := rowLine(b, 0).Cells
	if cells[0].Text != "e\u0301" || cells[1].Text != "x" {
		t.Fatalf("cells = %+v", cells)
	}
}

type fakeArchiver struct {
	lines []ArchivedLine
}

func (f *fakeArchiver) Store(lines []ArchivedLine) error {
	f.lines = append(f.lines, lines...)
	return nil
}

func TestScrollbackIsTrimmedIntoArchive(t *testing.T) {
	arch := &fakeArchiver{}
	b := New(5, 2, WithScrollback(3), WithArchive(arch))
	write(t, b, "1\r\n2\r\n3\r\n4\r\n5\r\n6\r\n7")

	var retained geometry.RowRange
	var top int64
	b.View(func(s engine.Screen) { retained, top = s.Retained(), s.VisibleTop() })
	if retained != geometry.Rows(2, 7) || top != 5 {
		t.Fatalf("retained = %v top = %d", retained, top)
	}
	if len(arch.lines) != 2 || arch.lines[0].Row != 0 || arch.lines[1].Line.Text() != "2" {
		t.Fatalf("archived = %+v", arch.lines)
	}
	if got := rowText(b, 6); got != "7" {
		t.Fatalf("row 6 = %q", got)
	}
	// Rows no longer held come back blank.
	if got := rowLine(b, 0); len(got.Cells) != 0 {
		t.Fatalf("trimmed row = %+v", got)
	}
}

func TestClearScrollback(t *testing.T) {
	b := New(5, 2)
	write(t, b, "1\r\n2\r\n3\r\n4\x1b[3J")

	var retained geometry.RowRange
	b.View(func(s engine.Screen) { retained = s.Retained() })
	if retained != geometry.Rows(2, 4) {
		t.Fatalf("retained = %v", retained)
	}
}

func TestChangedRowsFollowVersions(t *testing.T) {
	b := New(10, 3)
	var v uint64
	b.View(func(s engine.Screen) { v = s.Version() })

	write(t, b, "x")
	var changed geometry.RowSet
	var now uint64
	b.View(func(s engine.Screen) {
		changed, now = s.ChangedRows(geometry.Rows(0, 3), v), s.Version()
	})
	if changed.String() != geometry.NewRowSet(geometry.Rows(0, 1)).String() {
		t.Fatalf("changed = %v", changed)
	}

	write(t, b, "\r\n\r\n\r\n")
	b.View(func(s engine.Screen) { changed = s.ChangedRows(geometry.Rows(0, 10), now) })
	if changed.String() != geometry.NewRowSet(geometry.Rows(3, 4)).String() {
		t.Fatalf("changed after scroll = %v", changed)
	}
}

func TestResizeKeepsCursorContent(t *testing.T) {
	b := New(10, 5)
	write(t, b, "a\r\nb")
	b.Resize(10, 3)

	var top int64
	b.View(func(s engine.Screen) { top = s.VisibleTop() })
	if top != 0 || cursor(b).Row != 1 {
		t.Fatalf("top = %d cursor = %+v", top, cursor(b))
	}

	b = New(10, 3)
	write(t, b, "a\r\nb\r\nc")
	b.Resize(10, 2)
	b.View(func(s engine.Screen) { top = s.VisibleTop() })
	if top != 1 || cursor(b).Row != 1 {
		t.Fatalf("after shrink top = %d cursor = %+v", top, cursor(b))
	}
	b.Resize(10, 3)
	b.View(func(s engine.Screen) { top = s.VisibleTop() })
	if top != 0 || cursor(b).Row != 2 {
		t.Fatalf("after grow top = %d cursor = %+v", top, cursor(b))
	}
}

func TestRepliesAndTitle(t *testing.T) {
	var replies []string
	var title string
	b := New(10, 3,
		WithReplyWriter(func(p []byte) { replies = append(replies, string(p)) }),
		WithTitleChangeHandler(func(s string) { title = s }))

	write(t, b, "ab\x1b[6n\x1b[5n\x1b]2;hello\x07")
	if len(replies) != 2 || replies[0] != "\x1b[1;3R" || replies[1] != "\x1b[0n" {
		t.Fatalf("replies = %q", replies)
	}
	if title != "hello" || b.Title() != "hello" {
		t.Fatalf("title = %q", title)
	}
}

func TestModesAndCursorStyle(t *testing.T) {
	b := New(10, 3)
	write(t, b, "\x1b[?1h\x1b[?2004h\x1b[?25l\x1b[5 q")

	if m := b.Modes(); !m.AppCursorKeys || !m.BracketedPaste {
		t.Fatalf("modes = %+v", m)
	}
	if c := cursor(b); c.Visible || c.Shape != engine.CursorBlinkingBar {
		t.Fatalf("cursor = %+v", c)
	}

	write(t, b, "\x1bc")
	if m := b.Modes(); m.AppCursorKeys || m.BracketedPaste {
		t.Fatalf("modes after reset = %+v", m)
	}
}
