// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/devshell/runner.go
// Summary: Runs a host inside a local tcell screen.
// Usage: cmd/texelvlist builds the list viewer through a Builder and hands it
// to Run; tests swap the screen for a simulation screen.

package devshell

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/framegrace/texelvlist/texelui/adapter"
	"github.com/framegrace/texelvlist/texelui/core"
	"github.com/framegrace/texelvlist/texelui/virtual"
)

// Host is what Run drives: a UI that renders into a cell buffer.
type Host interface {
	Resize(w, h int)
	HandleKey(ev *tcell.EventKey) bool
	HandleMouse(ev *tcell.EventMouse) bool
	Render() [][]core.Cell
	Dirty() bool
	Unmount()
}

// Builder constructs the host once the frame scheduler exists.
type Builder func(frames virtual.FrameScheduler) (Host, error)

// Options tunes Run.
type Options struct {
	FrameInterval time.Duration
	Logger        *zap.Logger
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

// Run executes the host built by builder until Ctrl-C, 'q' or Escape.
func Run(builder Builder, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
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
	screen.EnableMouse()
	defer screen.DisableMouse()

	frames := adapter.NewScreenFrames(screen, opts.FrameInterval)
	defer frames.Stop()

	host, err := builder(frames)
	if err != nil {
		return err
	}
	defer host.Unmount()

	width, height := screen.Size()
	host.Resize(width, height)
	adapter.Present(screen, host.Render())
	logger.Debug("session started", zap.Int("width", width), zap.Int("height", height))

	for {
		ev := screen.PollEvent()
		if ev == nil {
			return nil
		}
		switch tev := ev.(type) {
		case *tcell.EventResize:
			w, h := tev.Size()
			host.Resize(w, h)
			screen.Sync()
		case *tcell.EventKey:
			if quitKey(tev) {
				logger.Debug("session ended by key")
				return nil
			}
			host.HandleKey(tev)
		case *tcell.EventMouse:
			host.HandleMouse(tev)
		default:
			frames.Dispatch(ev)
		}
		if host.Dirty() {
			screen.Clear()
			adapter.Present(screen, host.Render())
		}
	}
}

func quitKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlC, tcell.KeyEscape:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q'
	}
	return false
}
