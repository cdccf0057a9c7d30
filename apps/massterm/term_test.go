// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/massterm/term_test.go
// Summary: Key encoding, paste, mouse selection and scrolling of the Term.

package massterm

import (
	"bytes"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pragmatrix/massive-terminal/apps/massterm/scroller"
	"github.com/pragmatrix/massive-terminal/apps/massterm/selection"
)

type fakeClipboard struct {
	mu   sync.Mutex
	text string
}

func (c *fakeClipboard) ReadAll() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text, nil
}

func (c *fakeClipboard) WriteAll(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text = text
	return nil
}

// newTestTerm returns a Term without a shell. Input sent to the shell ends up
// in the returned buffer.
func newTestTerm(t *testing.T, cols, rows int) (*Term, *bytes.Buffer, *fakeClipboard) {
	t.Helper()
	cb := &fakeClipboard{}
	term := New(DefaultSettings(), WithClipboard(cb))
	out := &bytes.Buffer{}
	term.out = out
	term.Resize(cols, rows)
	t.Cleanup(term.Stop)
	return term, out, cb
}

func feed(term *Term, s string) {
	term.buffer.Write([]byte(s))
}

// draw runs a frame into a simulation screen.
func draw(t *testing.T, term *Term) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	t.Cleanup(s.Fini)
	g := term.presenter.Geometry()
	s.SetSize(g.Columns, g.Rows)
	term.Draw(s)
	return s
}

func mouse(x, y int, b tcell.ButtonMask) *tcell.EventMouse {
	return tcell.NewEventMouse(x, y, b, tcell.ModNone)
}

func click(term *Term, x, y int) {
	term.HandleMouse(mouse(x, y, tcell.Button1))
	term.HandleMouse(mouse(x, y, tcell.ButtonNone))
}

func TestKeyBytes(t *testing.T) {
	tests := []struct {
		name      string
		key       tcell.Key
		r         rune
		mod       tcell.ModMask
		appCursor bool
		want      string
	}{
		{"rune", tcell.KeyRune, 'x', tcell.ModNone, false, "x"},
		{"wide rune", tcell.KeyRune, '世', tcell.ModNone, false, "世"},
		{"alt rune", tcell.KeyRune, 'x', tcell.ModAlt, false, "\x1bx"},
		{"enter", tcell.KeyEnter, 0, tcell.ModNone, false, "\r"},
		{"tab", tcell.KeyTab, 0, tcell.ModNone, false, "\t"},
		{"backspace", tcell.KeyBackspace, 0, tcell.ModNone, false, "\x7f"},
		{"backspace2", tcell.KeyBackspace2, 0, tcell.ModNone, false, "\x7f"},
		{"ctrl backspace", tcell.KeyBackspace, 0, tcell.ModCtrl, false, "\b"},
		{"alt backspace", tcell.KeyBackspace2, 0, tcell.ModAlt, false, "\x1b\x7f"},
		{"ctrl c", tcell.KeyCtrlC, 0, tcell.ModCtrl, false, "\x03"},
		{"backtab", tcell.KeyBacktab, 0, tcell.ModNone, false, "\x1b[Z"},
		{"up", tcell.KeyUp, 0, tcell.ModNone, false, "\x1b[A"},
		{"up app cursor", tcell.KeyUp, 0, tcell.ModNone, true, "\x1bOA"},
		{"ctrl right", tcell.KeyRight, 0, tcell.ModCtrl, false, "\x1b[1;5C"},
		{"shift home", tcell.KeyHome, 0, tcell.ModShift, true, "\x1b[1;2H"},
		{"f1", tcell.KeyF1, 0, tcell.ModNone, false, "\x1bOP"},
		{"f5", tcell.KeyF5, 0, tcell.ModNone, false, "\x1b[15~"},
		{"alt delete", tcell.KeyDelete, 0, tcell.ModAlt, false, "\x1b[3;3~"},
		{"pgdn", tcell.KeyPgDn, 0, tcell.ModNone, false, "\x1b[6~"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := keyBytes(tcell.NewEventKey(tt.key, tt.r, tt.mod), tt.appCursor)
			if string(got) != tt.want {
				t.Errorf("keyBytes = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHandleKeyWritesToShell(t *testing.T) {
	term, out, _ := newTestTerm(t, 20, 5)

	term.HandleKey(tcell.NewEventKey(tcell.KeyRune, 'l', tcell.ModNone))
	term.HandleKey(tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone))
	term.HandleKey(tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone))
	feed(term, "\x1b[?1h")
	term.HandleKey(tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone))

	if got, want := out.String(), "l\x7f\x1b[A\x1bOA"; got != want {
		t.Errorf("shell input = %q, want %q", got, want)
	}
}

func TestHandlePaste(t *testing.T) {
	term, out, _ := newTestTerm(t, 20, 5)

	term.HandlePaste([]byte("ls"))
	feed(term, "\x1b[?2004h")
	term.HandlePaste([]byte("pwd"))
	term.HandlePaste(nil)

	if got, want := out.String(), "ls\x1b[200~pwd\x1b[201~"; got != want {
		t.Errorf("shell input = %q, want %q", got, want)
	}
}

func TestDoubleClickCopiesWord(t *testing.T) {
	term, _, cb := newTestTerm(t, 20, 5)
	feed(term, "hello world")
	draw(t, term)

	click(term, 1, 0)
	if st := term.presenter.SelectionState(); st != selection.StateUnselected {
		t.Fatalf("plain click left selection in state %v", st)
	}
	click(term, 1, 0)

	if mode, ok := term.presenter.SelectionMode(); !ok || mode != selection.ModeWord {
		t.Fatalf("selection mode = %v, %v", mode, ok)
	}
	if cb.text != "hello" {
		t.Errorf("clipboard = %q, want %q", cb.text, "hello")
	}

	term.HandleMouse(mouse(1, 0, tcell.Button3))
	if st := term.presenter.SelectionState(); st != selection.StateUnselected {
		t.Errorf("right click left selection in state %v", st)
	}
}

func TestDragSelectsCells(t *testing.T) {
	term, _, cb := newTestTerm(t, 10, 9)
	feed(term, "\r\n\r\n\r\nabcdef")
	draw(t, term)

	term.HandleMouse(mouse(0, 3, tcell.Button1))
	term.HandleMouse(mouse(2, 3, tcell.Button1))
	if !term.presenter.SelectionCanProgress() {
		t.Fatal("selection not dragging")
	}
	term.HandleMouse(mouse(2, 3, tcell.ButtonNone))

	if st := term.presenter.SelectionState(); st != selection.StateSelected {
		t.Fatalf("selection state = %v", st)
	}
	if cb.text != "abc" {
		t.Errorf("clipboard = %q, want %q", cb.text, "abc")
	}
}

func TestCtrlClickCopiesLink(t *testing.T) {
	tests := []struct {
		name string
		x    int
		mod  tcell.ModMask
		want string
	}{
		{"ctrl on link", 5, tcell.ModCtrl, "https://example.com"},
		{"plain on link", 5, tcell.ModNone, ""},
		{"ctrl off link", 1, tcell.ModCtrl, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term, _, cb := newTestTerm(t, 20, 5)
			feed(term, "see \x1b]8;;https://example.com\x07here\x1b]8;;\x07 now")
			draw(t, term)

			term.HandleMouse(tcell.NewEventMouse(tt.x, 0, tcell.Button1, tt.mod))
			if tt.want != "" && term.presenter.SelectionState() != selection.StateUnselected {
				t.Fatal("link click started a selection")
			}
			term.HandleMouse(tcell.NewEventMouse(tt.x, 0, tcell.ButtonNone, tt.mod))
			if cb.text != tt.want {
				t.Errorf("clipboard = %q, want %q", cb.text, tt.want)
			}
		})
	}
}

func TestMiddleClickPastes(t *testing.T) {
	term, out, cb := newTestTerm(t, 10, 5)
	cb.text = "echo"

	term.HandleMouse(mouse(0, 0, tcell.Button2))

	if out.String() != "echo" {
		t.Errorf("shell input = %q", out.String())
	}
}

func TestEdgeZonePoint(t *testing.T) {
	term, _, _ := newTestTerm(t, 10, 9)
	m := term.mouse
	ch := float64(term.settings.CellHeight)

	tests := []struct {
		y        int
		dragging bool
		want     float64
	}{
		{0, false, 0.5 * ch},
		{0, true, -2 * ch},
		{1, true, -ch},
		{4, true, 4.5 * ch},
		{7, true, 9*ch + ch},
		{8, true, 9*ch + 2*ch},
	}
	for _, tt := range tests {
		if got := m.point(0, tt.y, tt.dragging).Y; got != tt.want {
			t.Errorf("point(0, %d, %v).Y = %v, want %v", tt.y, tt.dragging, got, tt.want)
		}
	}
	if z := m.edgeZone(3); z != 1 {
		t.Errorf("edge zone of 3 rows = %d, want 1", z)
	}
}

func TestWheelAndPagingLeaveAutoScroll(t *testing.T) {
	term, out, _ := newTestTerm(t, 10, 5)
	for i := 0; i < 30; i++ {
		feed(term, "line\r\n")
	}
	draw(t, term)

	term.HandleMouse(mouse(0, 0, tcell.WheelUp))
	if k := term.presenter.ScrollState().Kind; k != scroller.KindResting {
		t.Fatalf("after wheel scroll kind = %v", k)
	}

	term.HandleKey(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone))
	if k := term.presenter.ScrollState().Kind; k != scroller.KindAuto {
		t.Fatalf("after key scroll kind = %v", k)
	}

	term.HandleKey(tcell.NewEventKey(tcell.KeyPgUp, 0, tcell.ModShift))
	if k := term.presenter.ScrollState().Kind; k != scroller.KindResting {
		t.Errorf("after shift+pgup scroll kind = %v", k)
	}
	if out.String() != "q" {
		t.Errorf("shell input = %q, want %q", out.String(), "q")
	}
}

func TestDrawRendersText(t *testing.T) {
	term, _, _ := newTestTerm(t, 10, 3)
	feed(term, "hi")

	s := draw(t, term)
	s.Show()
	cells, w, _ := s.GetContents()
	if got := string(cells[0].Runes) + string(cells[1].Runes); got != "hi" {
		t.Errorf("row 0 = %q (width %d)", got, w)
	}
}

func TestTitle(t *testing.T) {
	term, _, _ := newTestTerm(t, 10, 3)
	refresh := make(chan bool, 1)
	term.SetRefreshNotifier(refresh)

	feed(term, "\x1b]2;build\x07")

	if term.Title() != "build" {
		t.Errorf("title = %q", term.Title())
	}
	select {
	case <-refresh:
	default:
		t.Error("title change did not request a refresh")
	}
}

func TestFramePump(t *testing.T) {
	var ticks atomic.Int32
	f := newFramePump(time.Millisecond, func() { ticks.Add(1) })

	f.Start()
	f.Start()
	if !f.IsActive() {
		t.Fatal("pump not active")
	}
	deadline := time.Now().Add(2 * time.Second)
	for ticks.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	f.Stop()
	f.Stop()

	if ticks.Load() < 2 {
		t.Errorf("ticks = %d", ticks.Load())
	}
	if f.IsActive() {
		t.Error("pump still active")
	}
	n := ticks.Load()
	time.Sleep(5 * time.Millisecond)
	if ticks.Load() != n {
		t.Error("pump ticked after Stop")
	}
}
