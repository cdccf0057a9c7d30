// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/massterm/keys.go
// Summary: Encoding of tcell key events as xterm input bytes.

package massterm

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// Final bytes of the cursor keys. They honor application cursor mode.
var cursorKeys = map[tcell.Key]byte{
	tcell.KeyUp:    'A',
	tcell.KeyDown:  'B',
	tcell.KeyRight: 'C',
	tcell.KeyLeft:  'D',
	tcell.KeyHome:  'H',
	tcell.KeyEnd:   'F',
}

var functionKeys = map[tcell.Key]byte{
	tcell.KeyF1: 'P',
	tcell.KeyF2: 'Q',
	tcell.KeyF3: 'R',
	tcell.KeyF4: 'S',
}

// Keys sent as CSI n ~.
var tildeKeys = map[tcell.Key]int{
	tcell.KeyInsert: 2,
	tcell.KeyDelete: 3,
	tcell.KeyPgUp:   5,
	tcell.KeyPgDn:   6,
	tcell.KeyF5:     15,
	tcell.KeyF6:     17,
	tcell.KeyF7:     18,
	tcell.KeyF8:     19,
	tcell.KeyF9:     20,
	tcell.KeyF10:    21,
	tcell.KeyF11:    23,
	tcell.KeyF12:    24,
}

// modifierParam returns the xterm modifier parameter, 1 for none.
func modifierParam(m tcell.ModMask) int {
	p := 1
	if m&tcell.ModShift != 0 {
		p += 1
	}
	if m&tcell.ModAlt != 0 {
		p += 2
	}
	if m&tcell.ModCtrl != 0 {
		p += 4
	}
	return p
}

// keyBytes returns what the key sends to the shell, or nil for keys without
// an encoding.
func keyBytes(ev *tcell.EventKey, appCursor bool) []byte {
	key := ev.Key()
	mods := modifierParam(ev.Modifiers())

	if final, ok := cursorKeys[key]; ok {
		switch {
		case mods > 1:
			return fmt.Appendf(nil, "\x1b[1;%d%c", mods, final)
		case appCursor:
			return []byte{0x1b, 'O', final}
		default:
			return []byte{0x1b, '[', final}
		}
	}
	if final, ok := functionKeys[key]; ok {
		if mods > 1 {
			return fmt.Appendf(nil, "\x1b[1;%d%c", mods, final)
		}
		return []byte{0x1b, 'O', final}
	}
	if n, ok := tildeKeys[key]; ok {
		if mods > 1 {
			return fmt.Appendf(nil, "\x1b[%d;%d~", n, mods)
		}
		return fmt.Appendf(nil, "\x1b[%d~", n)
	}

	var out []byte
	switch {
	case key == tcell.KeyRune:
		out = []byte(string(ev.Rune()))
	case key == tcell.KeyBacktab:
		return []byte("\x1b[Z")
	case key == tcell.KeyBackspace || key == tcell.KeyBackspace2:
		// tcell reports both as KeyBackspace. Shells expect DEL, and BS
		// with Ctrl.
		out = []byte{0x7f}
		if ev.Modifiers()&tcell.ModCtrl != 0 {
			out = []byte{0x08}
		}
	case key < 0x20:
		// Enter, tab, escape and the control keys are their own byte.
		out = []byte{byte(key)}
	default:
		return nil
	}
	if ev.Modifiers()&tcell.ModAlt != 0 {
		out = append([]byte{0x1b}, out...)
	}
	return out
}
