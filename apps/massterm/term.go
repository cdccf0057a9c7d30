// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/massterm/term.go
// Summary: Terminal app hosting a shell behind the scene-graph presenter.
//
// The pty reader goroutine only feeds the engine and requests a refresh.
// Everything that touches the presenter (drawing, input, resizing) runs on
// the host's event loop.

package massterm

import (
	"errors"
	"io"
	"log"
	"os"
	"os/exec"
	"sync"
	"syscall"

	"github.com/atotto/clipboard"
	"github.com/creack/pty"
	"github.com/gdamore/tcell/v2"

	"github.com/pragmatrix/massive-terminal/apps/massterm/geometry"
	"github.com/pragmatrix/massive-terminal/apps/massterm/presenter"
	"github.com/pragmatrix/massive-terminal/apps/massterm/scene"
	"github.com/pragmatrix/massive-terminal/apps/massterm/scene/cellscene"
	"github.com/pragmatrix/massive-terminal/apps/massterm/shaper"
	"github.com/pragmatrix/massive-terminal/apps/massterm/termbuf"
)

const (
	initialColumns = 80
	initialRows    = 24
	readBufferSize = 32 * 1024
)

// Clipboard is the system clipboard.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) ReadAll() (string, error)   { return clipboard.ReadAll() }
func (systemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

// Option configures a Term.
type Option func(*Term)

// WithClipboard replaces the system clipboard.
func WithClipboard(c Clipboard) Option {
	return func(t *Term) { t.clipboard = c }
}

// Term runs a shell in a pty and presents its output.
type Term struct {
	settings  Settings
	buffer    *termbuf.Buffer
	archive   *termbuf.Archive
	graph     *scene.Graph
	presenter *presenter.Presenter
	renderer  *cellscene.Renderer
	mouse     *mouseHandler
	pump      *framePump
	clipboard Clipboard

	mu         sync.Mutex
	cols, rows int
	out        io.Writer
	pty        *os.File
	cmd        *exec.Cmd
	title      string
	refresh    chan<- bool

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New creates the terminal. The shell starts with Run.
func New(s Settings, opts ...Option) *Term {
	t := &Term{
		settings:  s,
		graph:     scene.NewGraph(),
		clipboard: systemClipboard{},
		cols:      initialColumns,
		rows:      initialRows,
		title:     AppName,
		stop:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}

	bufOpts := []termbuf.Option{
		termbuf.WithScrollback(s.Scrollback),
		termbuf.WithReplyWriter(t.writeInput),
		termbuf.WithTitleChangeHandler(t.setTitle),
	}
	if s.ArchivePath != "" {
		a, err := termbuf.OpenArchive(s.ArchivePath)
		if err != nil {
			log.Printf("Massterm: scrollback archive disabled: %v", err)
		} else {
			t.archive = a
			bufOpts = append(bufOpts, termbuf.WithArchive(a))
		}
	}
	t.buffer = termbuf.New(initialColumns, initialRows, bufOpts...)

	pal := shaper.DefaultPalette()
	tg := geometry.NewTerminalGeometry(s.CellWidth, s.CellHeight, initialColumns, initialRows)
	popts := []presenter.Option{
		presenter.WithPalette(pal),
		presenter.WithBucketSize(s.BucketSize),
		presenter.WithDragGain(s.DragGain),
		presenter.WithScrollDuration(s.ScrollDuration),
		presenter.WithAscender(s.Ascender),
	}
	if s.WordBoundary != "" {
		popts = append(popts, presenter.WithWordBoundary(s.WordBoundary))
	}
	t.presenter = presenter.New(t.graph, t.buffer, tg, shaper.NewCellShaper(s.CellWidth, s.CellHeight, pal), popts...)
	t.renderer = cellscene.New(s.CellWidth, s.CellHeight, pal.Foreground, pal.Background)
	t.mouse = newMouseHandler(t)
	t.pump = newFramePump(DefaultFrameInterval, t.requestRefresh)
	return t
}

// SetRefreshNotifier sets the channel that asks the host for a redraw.
func (t *Term) SetRefreshNotifier(ch chan<- bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.refresh = ch
}

func (t *Term) requestRefresh() {
	t.mu.Lock()
	ch := t.refresh
	t.mu.Unlock()
	if ch == nil {
		return
	}
	select {
	case ch <- true:
	default:
	}
}

// Title returns the window title set by the shell.
func (t *Term) Title() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.title
}

func (t *Term) setTitle(title string) {
	t.mu.Lock()
	t.title = title
	t.mu.Unlock()
	t.requestRefresh()
}

// Run starts the shell and returns when it exits.
func (t *Term) Run() error {
	cmd := exec.Command(t.settings.shell())
	cmd.Env = append(os.Environ(), "TERM=xterm-256color", "COLORTERM=truecolor")

	t.mu.Lock()
	cols, rows := t.cols, t.rows
	t.mu.Unlock()

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
	if err != nil {
		log.Printf("Massterm: failed to start pty: %v", err)
		return err
	}
	t.mu.Lock()
	t.pty, t.out, t.cmd = ptmx, ptmx, cmd
	t.mu.Unlock()

	t.wg.Add(1)
	go t.readOutput(ptmx)

	return cmd.Wait()
}

func (t *Term) readOutput(r io.Reader) {
	defer t.wg.Done()

	buf := make([]byte, readBufferSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			t.buffer.Write(buf[:n])
			t.requestRefresh()
		}
		if err != nil {
			// The pty reports EIO once the shell has exited.
			if !errors.Is(err, io.EOF) && !errors.Is(err, os.ErrClosed) && !errors.Is(err, syscall.EIO) {
				log.Printf("Massterm: error reading from pty: %v", err)
			}
			return
		}
		select {
		case <-t.stop:
			return
		default:
		}
	}
}

// Stop terminates the shell and releases the scene.
func (t *Term) Stop() {
	t.stopOnce.Do(func() {
		close(t.stop)
		t.pump.Stop()

		t.mu.Lock()
		if t.pty != nil {
			t.pty.Close()
		}
		if t.cmd != nil && t.cmd.Process != nil {
			t.cmd.Process.Signal(syscall.SIGTERM)
		}
		t.mu.Unlock()

		t.wg.Wait()
		t.presenter.Close()
		if t.archive != nil {
			if err := t.archive.Close(); err != nil {
				log.Printf("Massterm: closing archive: %v", err)
			}
		}
	})
}

// Resize fits the terminal into cols x rows screen cells.
func (t *Term) Resize(cols, rows int) {
	if cols <= 0 || rows <= 0 {
		return
	}
	g := t.presenter.Geometry()
	if !t.presenter.Resize(uint32(cols)*g.CellWidth, uint32(rows)*g.CellHeight) {
		return
	}
	g = t.presenter.Geometry()

	t.mu.Lock()
	defer t.mu.Unlock()
	t.cols, t.rows = g.Columns, g.Rows
	if t.pty != nil {
		if err := pty.Setsize(t.pty, &pty.Winsize{Rows: uint16(g.Rows), Cols: uint16(g.Columns)}); err != nil {
			log.Printf("Massterm: resizing pty: %v", err)
		}
	}
}

// Draw reconciles the scene with the engine and composes it onto s.
func (t *Term) Draw(s cellscene.Screen) {
	frame, err := t.presenter.Update()
	if err != nil {
		log.Printf("Massterm: frame: %v", err)
	}
	t.renderer.Render(s, t.graph.Snapshot())
	if frame.Animating {
		t.pump.Start()
	} else {
		t.pump.Stop()
	}
}

// HandleKey sends a key to the shell. Shift+PgUp/PgDn page through the
// scrollback instead; any other key returns to the live screen.
func (t *Term) HandleKey(ev *tcell.EventKey) {
	if ev.Modifiers()&tcell.ModShift != 0 {
		switch ev.Key() {
		case tcell.KeyPgUp:
			t.scrollPages(-1)
			return
		case tcell.KeyPgDn:
			t.scrollPages(1)
			return
		}
	}
	t.presenter.EnableAutoScroll()
	if b := keyBytes(ev, t.buffer.Modes().AppCursorKeys); b != nil {
		t.writeInput(b)
	}
}

func (t *Term) scrollPages(n int) {
	g := t.presenter.Geometry()
	t.presenter.ScrollDeltaPx(float64(n*g.Rows) * float64(g.LineHeight()))
}

// HandlePaste sends pasted text, bracketed if the shell asked for it.
func (t *Term) HandlePaste(data []byte) {
	if len(data) == 0 {
		return
	}
	t.presenter.EnableAutoScroll()
	if t.buffer.Modes().BracketedPaste {
		out := make([]byte, 0, len(data)+12)
		out = append(out, "\x1b[200~"...)
		out = append(out, data...)
		out = append(out, "\x1b[201~"...)
		data = out
	}
	t.writeInput(data)
}

// HandleMouse routes selection, wheel and paste clicks.
func (t *Term) HandleMouse(ev *tcell.EventMouse) {
	t.mouse.handle(ev)
}

// HandleFocus switches the cursor between its focused and outlined form.
func (t *Term) HandleFocus(focused bool) {
	t.presenter.SetFocused(focused)
}

func (t *Term) writeInput(b []byte) {
	t.mu.Lock()
	w := t.out
	t.mu.Unlock()
	if w == nil {
		return
	}
	if _, err := w.Write(b); err != nil {
		log.Printf("Massterm: writing to pty: %v", err)
	}
}

func (t *Term) copySelection() {
	t.copyText(t.presenter.SelectedText())
}

func (t *Term) copyText(text string) {
	if text == "" {
		return
	}
	if err := t.clipboard.WriteAll(text); err != nil {
		log.Printf("Massterm: copying to clipboard: %v", err)
	}
}

func (t *Term) pasteClipboard() {
	text, err := t.clipboard.ReadAll()
	if err != nil {
		log.Printf("Massterm: reading clipboard: %v", err)
		return
	}
	t.HandlePaste([]byte(text))
}
