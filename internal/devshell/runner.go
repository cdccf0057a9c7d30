// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/devshell/runner.go
// Summary: Runs a single app full screen inside a local tcell screen.

package devshell

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/pragmatrix/massive-terminal/apps/massterm"
	"github.com/pragmatrix/massive-terminal/apps/massterm/scene/cellscene"
	"github.com/pragmatrix/massive-terminal/config"
)

// App is an application the runner can host.
type App interface {
	Run() error
	Stop()
	Resize(cols, rows int)
	Draw(s cellscene.Screen)
	HandleKey(ev *tcell.EventKey)
	SetRefreshNotifier(ch chan<- bool)
	Title() string
}

// Builder constructs an App, optionally using CLI args.
type Builder func(args []string) (App, error)

var registry = map[string]Builder{
	massterm.AppName: func(args []string) (App, error) {
		s := massterm.LoadSettings(config.App(massterm.AppName))
		if len(args) > 0 {
			s.Shell = strings.Join(args, " ")
		}
		return massterm.New(s), nil
	},
}

var screenFactory = tcell.NewScreen

// SetScreenFactory overrides the screen factory used by Run. Passing nil restores the default.
func SetScreenFactory(factory func() (tcell.Screen, error)) {
	if factory == nil {
		screenFactory = tcell.NewScreen
		return
	}
	screenFactory = factory
}

// Run executes the provided builder inside a local tcell screen. It returns
// when the app's Run returns.
func Run(builder Builder, args []string) error {
	app, err := builder(args)
	if err != nil {
		return err
	}

	screen, err := screenFactory()
	if err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("screen init: %w", err)
	}
	defer screen.Fini()
	screen.Clear()
	screen.HideCursor()
	screen.EnableMouse()
	defer screen.DisableMouse()
	screen.EnablePaste()
	screen.EnableFocus()
	defer screen.DisableFocus()

	width, height := screen.Size()
	app.Resize(width, height)
	refreshCh := make(chan bool, 1)
	app.SetRefreshNotifier(refreshCh)

	title := ""
	draw := func() {
		app.Draw(screen)
		if t := app.Title(); t != title {
			title = t
			screen.SetTitle(t)
		}
	}

	draw()

	runErr := make(chan error, 1)
	go func() {
		runErr <- app.Run()
		screen.PostEvent(tcell.NewEventInterrupt(nil))
	}()
	defer app.Stop()

	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-done:
				return
			case <-refreshCh:
				screen.PostEvent(tcell.NewEventInterrupt(nil))
			}
		}
	}()

	var pasteBuffer []byte
	var inPaste bool

	for {
		select {
		case err := <-runErr:
			return err
		default:
		}

		ev := screen.PollEvent()
		switch tev := ev.(type) {
		case nil:
			// The screen was finalized.
			return nil
		case *tcell.EventInterrupt:
			draw()
		case *tcell.EventResize:
			w, h := tev.Size()
			app.Resize(w, h)
			screen.Sync()
			draw()
		case *tcell.EventPaste:
			if tev.Start() {
				inPaste = true
				pasteBuffer = nil
			} else if tev.End() {
				inPaste = false
				if ph, ok := app.(interface{ HandlePaste([]byte) }); ok && len(pasteBuffer) > 0 {
					ph.HandlePaste(pasteBuffer)
					draw()
				}
				pasteBuffer = nil
			}
		case *tcell.EventKey:
			if inPaste {
				switch tev.Key() {
				case tcell.KeyRune:
					pasteBuffer = append(pasteBuffer, string(tev.Rune())...)
				case tcell.KeyEnter, tcell.KeyLF:
					pasteBuffer = append(pasteBuffer, '\r')
				case tcell.KeyTab:
					pasteBuffer = append(pasteBuffer, '\t')
				}
				continue
			}
			app.HandleKey(tev)
			draw()
		case *tcell.EventMouse:
			if mh, ok := app.(interface{ HandleMouse(*tcell.EventMouse) }); ok {
				mh.HandleMouse(tev)
				draw()
			}
		case *tcell.EventFocus:
			if fh, ok := app.(interface{ HandleFocus(bool) }); ok {
				fh.HandleFocus(tev.Focused)
				draw()
			}
		}
	}
}

// RunApp finds a registered builder by name and runs it.
func RunApp(name string, args []string) error {
	buildApp, ok := registry[name]
	if !ok {
		return fmt.Errorf("unknown app %q", name)
	}
	return Run(buildApp, args)
}
