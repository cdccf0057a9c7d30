// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/massterm/termbuf/buffer.go
// Summary: Mutex-guarded terminal engine fed with process output.
//
// Buffer implements engine.Terminal. Write is called from the goroutine that
// reads the pty; the presenter reads through View. Every Write is one
// mutation batch and bumps the version, and every line touched by it carries
// that version so readers can ask which rows changed since a version.

package termbuf

import (
	"log"
	"sync"

	"github.com/charmbracelet/x/ansi"

	"github.com/pragmatrix/massive-terminal/apps/massterm/engine"
)

// DefaultScrollback is the number of lines kept above the screen.
const DefaultScrollback = 10000

const maxPending = 64 * 1024

// Archiver receives rows trimmed off the scrollback.
type Archiver interface {
	Store(lines []ArchivedLine) error
}

// Option configures a Buffer.
type Option func(*Buffer)

// WithScrollback sets the number of scrollback lines of the primary screen.
func WithScrollback(lines int) Option {
	return func(b *Buffer) { b.scrollback = lines }
}

// WithArchive hands trimmed scrollback rows to a.
func WithArchive(a Archiver) Option {
	return func(b *Buffer) { b.archive = a }
}

// WithReplyWriter sets where answers to terminal queries (device status,
// device attributes) are written. It is called without the lock held.
func WithReplyWriter(w func([]byte)) Option {
	return func(b *Buffer) { b.reply = w }
}

// WithTitleChangeHandler is called with the new title after OSC 0/2.
func WithTitleChangeHandler(h func(string)) Option {
	return func(b *Buffer) { b.onTitle = h }
}

type pen struct {
	fg, bg engine.Color
	attr   engine.Attr
	link   *engine.Hyperlink
}

func (p pen) cell(text string, width int) engine.Cell {
	return engine.Cell{Text: text, Width: uint8(width), FG: p.fg, BG: p.bg, Attr: p.attr, Link: p.link}
}

type savedCursor struct {
	x, y int
	pen  pen
}

// Modes are the DEC private modes the host needs for input encoding.
type Modes struct {
	AppCursorKeys  bool
	BracketedPaste bool
}

// Buffer is a terminal engine with a primary screen with scrollback and an
// alternate screen without.
type Buffer struct {
	mu sync.Mutex

	cols, rows int
	scrollback int
	version    uint64

	primary *grid
	alt     *grid
	active  *grid

	x, y        int
	wrapPending bool
	autowrap    bool
	pen         pen
	saved       savedCursor
	altSaved    savedCursor

	cursorVisible bool
	cursorShape   engine.CursorShape
	modes         Modes
	title         string

	parser  *ansi.Parser
	pending []byte

	archive  Archiver
	trimmed  []ArchivedLine
	reply    func([]byte)
	replies  [][]byte
	onTitle  func(string)
	newTitle bool
}

// New creates a buffer with a blank screen of the given size.
func New(cols, rows int, opts ...Option) *Buffer {
	b := &Buffer{
		cols:          max(cols, 1),
		rows:          max(rows, 1),
		scrollback:    DefaultScrollback,
		autowrap:      true,
		cursorVisible: true,
		parser:        ansi.NewParser(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.version = 1
	b.primary = newGrid(b.rows, b.scrollback, 0, b.version)
	b.active = b.primary
	return b
}

// View runs fn with the engine locked.
func (b *Buffer) View(fn func(engine.Screen)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn(screen{b})
}

// Resize changes the cell grid. Lines are not reflowed.
func (b *Buffer) Resize(cols, rows int) {
	b.mu.Lock()
	cols, rows = max(cols, 1), max(rows, 1)
	if cols == b.cols && rows == b.rows {
		b.mu.Unlock()
		return
	}
	b.version++
	b.cols = cols
	primaryY, altY := b.cursorRowIn(b.primary), 0
	if b.alt != nil {
		altY = b.cursorRowIn(b.alt)
	}
	y, trimmed := b.primary.resize(rows, primaryY, b.version)
	b.trimmed = append(b.trimmed, trimmed...)
	if b.alt != nil {
		ay, _ := b.alt.resize(rows, altY, b.version)
		if b.active == b.alt {
			y = ay
		}
	}
	b.rows = rows
	b.x = min(b.x, cols-1)
	b.y = min(y, rows-1)
	b.wrapPending = false
	b.flushLocked()
}

func (b *Buffer) cursorRowIn(g *grid) int {
	if g == b.active {
		return b.y
	}
	return g.rows - 1
}

// Write feeds process output. Incomplete trailing sequences are kept for the
// next call.
func (b *Buffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	b.version++

	data := p
	if len(b.pending) > 0 {
		data = append(b.pending, p...)
		b.pending = nil
	}
	for len(data) > 0 {
		if incompleteRune(data) {
			b.keepPending(data)
			break
		}
		seq, width, n, state := ansi.DecodeSequence(data, ansi.NormalState, b.parser)
		if state != ansi.NormalState {
			b.keepPending(seq)
			break
		}
		if n == 0 {
			// Invalid sequence start; skip the byte.
			n = 1
		} else {
			b.dispatch(seq, width)
		}
		data = data[n:]
	}
	b.flushLocked()
	return len(p), nil
}

func (b *Buffer) keepPending(data []byte) {
	if len(data) > maxPending {
		log.Printf("Termbuf: dropping unterminated sequence of %d bytes", len(data))
		return
	}
	b.pending = append([]byte(nil), data...)
}

// flushLocked releases the lock, then hands trimmed rows to the archive and
// writes query replies.
func (b *Buffer) flushLocked() {
	trimmed, replies := b.trimmed, b.replies
	b.trimmed, b.replies = nil, nil
	title, titleChanged := b.title, b.newTitle
	b.newTitle = false
	b.mu.Unlock()

	if b.archive != nil && len(trimmed) > 0 {
		if err := b.archive.Store(trimmed); err != nil {
			log.Printf("Termbuf: archiving %d rows: %v", len(trimmed), err)
		}
	}
	if b.reply != nil {
		for _, r := range replies {
			b.reply(r)
		}
	}
	if titleChanged && b.onTitle != nil {
		b.onTitle(title)
	}
}

// Title returns the last title set with OSC 0 or 2.
func (b *Buffer) Title() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.title
}

// Modes returns the input-relevant modes.
func (b *Buffer) Modes() Modes {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.modes
}

// line returns the screen line y and marks it changed.
func (b *Buffer) line(y int) *engine.Line {
	l := &b.active.screen()[y]
	l.Version = b.version
	return l
}

func (b *Buffer) scrollUp(n int) {
	trimmed := b.active.scrollUp(n, b.version)
	if b.active == b.primary {
		b.trimmed = append(b.trimmed, trimmed...)
	}
}

func (b *Buffer) lineFeed() {
	b.wrapPending = false
	if b.y < b.rows-1 {
		b.y++
		return
	}
	b.scrollUp(1)
}

func (b *Buffer) reverseIndex() {
	b.wrapPending = false
	if b.y > 0 {
		b.y--
		return
	}
	b.active.insertLines(0, 1, b.version)
}

// wrap continues output on the next row, marking the current one as soft
// wrapped.
func (b *Buffer) wrap() {
	b.line(b.y).Wrapped = true
	b.x = 0
	b.lineFeed()
}

// setAltScreen switches screens. The alternate screen starts at the
// primary's visible top so stable rows stay comparable.
func (b *Buffer) setAltScreen(on, clear bool) {
	switch {
	case on && b.active != b.alt:
		if b.alt == nil || clear {
			b.alt = newGrid(b.rows, 0, b.primary.visibleTop(), b.version)
		}
		b.active = b.alt
	case !on && b.active == b.alt:
		b.active = b.primary
	default:
		return
	}
	for i := range b.active.screen() {
		b.active.screen()[i].Version = b.version
	}
	b.wrapPending = false
}

func (b *Buffer) reset() {
	b.primary = newGrid(b.rows, b.scrollback, b.primary.visibleTop(), b.version)
	b.alt = nil
	b.active = b.primary
	b.x, b.y = 0, 0
	b.wrapPending = false
	b.autowrap = true
	b.pen = pen{}
	b.saved, b.altSaved = savedCursor{}, savedCursor{}
	b.cursorVisible = true
	b.cursorShape = engine.CursorDefault
	b.modes = Modes{}
}
