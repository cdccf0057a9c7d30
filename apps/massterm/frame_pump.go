// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/massterm/frame_pump.go
// Summary: Periodic refresh requests while scrolling animates.
//
// The presenter only advances animations and drag scrolling when a frame is
// drawn. While a frame reports that it is animating, the pump keeps asking
// the host for the next one.

package massterm

import (
	"sync"
	"time"
)

// DefaultFrameInterval is the pause between requested frames.
const DefaultFrameInterval = 16 * time.Millisecond

type framePump struct {
	mu       sync.Mutex
	active   bool
	stopChan chan struct{}
	wg       sync.WaitGroup
	interval time.Duration
	onTick   func()
}

func newFramePump(interval time.Duration, onTick func()) *framePump {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &framePump{interval: interval, onTick: onTick}
}

// Start begins requesting frames if not already running.
func (f *framePump) Start() {
	f.mu.Lock()
	if f.active {
		f.mu.Unlock()
		return
	}
	f.active = true
	f.stopChan = make(chan struct{})
	f.wg.Add(1)
	stop := f.stopChan
	f.mu.Unlock()

	go f.loop(stop)
}

// Stop terminates the loop and waits for it to exit.
func (f *framePump) Stop() {
	f.mu.Lock()
	if !f.active {
		f.mu.Unlock()
		return
	}
	f.active = false
	close(f.stopChan)
	f.mu.Unlock()

	f.wg.Wait()
}

func (f *framePump) IsActive() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active
}

func (f *framePump) loop(stop <-chan struct{}) {
	defer f.wg.Done()

	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if f.onTick != nil {
				f.onTick()
			}
		}
	}
}
