// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: texelui/core/uimanager.go
// Summary: Owns a flat widget list, routes input, and composes dirty regions into a buffer.

package core

import (
	"github.com/gdamore/tcell/v2"
)

// UIManager owns a small widget tree and composes it into a cell buffer.
//
// It is driven from the UI goroutine only: input handling, frame callbacks
// and Render all run there.
type UIManager struct {
	W, H     int
	widgets  []Widget // later entries draw on top
	bgStyle  tcell.Style
	notifier chan<- bool
	focused  Widget
	buf      [][]Cell
	dirty    []Rect
}

func NewUIManager(bg tcell.Style) *UIManager {
	return &UIManager{bgStyle: bg}
}

// SetRefreshNotifier registers a channel that receives a token whenever a
// redraw becomes necessary. Sends never block.
func (u *UIManager) SetRefreshNotifier(ch chan<- bool) {
	u.notifier = ch
}

func (u *UIManager) Resize(w, h int) {
	u.W, u.H = max(0, w), max(0, h)
	u.buf = nil
	u.InvalidateAll()
}

func (u *UIManager) AddWidget(w Widget) {
	u.widgets = append(u.widgets, w)
	if ia, ok := w.(InvalidationAware); ok {
		ia.SetInvalidator(u.Invalidate)
	}
	u.InvalidateAll()
}

// RemoveWidget detaches w and unmounts it when it supports that.
func (u *UIManager) RemoveWidget(w Widget) {
	for i, cur := range u.widgets {
		if cur != w {
			continue
		}
		u.widgets = append(u.widgets[:i], u.widgets[i+1:]...)
		if u.focused == w {
			u.focused = nil
		}
		if um, ok := w.(Unmountable); ok {
			um.Unmount()
		}
		u.InvalidateAll()
		return
	}
}

func (u *UIManager) Focus(w Widget) {
	if w == nil || !w.Focusable() || u.focused == w {
		return
	}
	if u.focused != nil {
		u.focused.Blur()
	}
	u.focused = w
	w.Focus()
}

// Focused returns the focused widget, if any.
func (u *UIManager) Focused() Widget { return u.focused }

// HandleKey sends the key to the focused widget. Tab cycles focus among
// root widgets when the focused widget does not consume it.
func (u *UIManager) HandleKey(ev *tcell.EventKey) bool {
	if u.focused != nil && u.focused.HandleKey(ev) {
		u.requestRefresh()
		return true
	}
	if ev.Key() == tcell.KeyTab || ev.Key() == tcell.KeyBacktab {
		return u.cycleFocus(ev.Key() == tcell.KeyTab)
	}
	return false
}

func (u *UIManager) cycleFocus(forward bool) bool {
	n := len(u.widgets)
	current := -1
	for i, w := range u.widgets {
		if w == u.focused {
			current = i
			break
		}
	}
	for step := 1; step <= n; step++ {
		idx := (current + step) % n
		if !forward {
			idx = (current - step + 2*n) % n
		}
		if w := u.widgets[idx]; w.Focusable() {
			u.Focus(w)
			u.InvalidateAll()
			return true
		}
	}
	return false
}

// HandleMouse focuses the topmost widget under a click and forwards the
// event to it. Wheel events go to the widget under the pointer.
func (u *UIManager) HandleMouse(ev *tcell.EventMouse) bool {
	x, y := ev.Position()
	w := u.topmostAt(x, y)
	if w == nil {
		return false
	}
	if ev.Buttons()&tcell.Button1 != 0 {
		u.Focus(w)
	}
	mw, ok := w.(MouseAware)
	if !ok {
		return false
	}
	if mw.HandleMouse(ev) {
		u.requestRefresh()
		return true
	}
	return false
}

func (u *UIManager) topmostAt(x, y int) Widget {
	for i := len(u.widgets) - 1; i >= 0; i-- {
		if u.widgets[i].HitTest(x, y) {
			return u.widgets[i]
		}
	}
	return nil
}

// Invalidate marks a region for redraw.
func (u *UIManager) Invalidate(r Rect) {
	if r.Empty() {
		return
	}
	u.dirty = append(u.dirty, r)
	u.requestRefresh()
}

// InvalidateAll marks the whole surface for redraw.
func (u *UIManager) InvalidateAll() {
	u.Invalidate(Rect{W: u.W, H: u.H})
}

// Dirty reports whether a redraw is pending.
func (u *UIManager) Dirty() bool {
	return len(u.dirty) > 0
}

func (u *UIManager) requestRefresh() {
	if u.notifier == nil {
		return
	}
	select {
	case u.notifier <- true:
	default:
	}
}

func (u *UIManager) ensureBuffer() {
	if u.buf != nil && len(u.buf) == u.H && (u.H == 0 || len(u.buf[0]) == u.W) {
		return
	}
	u.buf = make([][]Cell, u.H)
	for y := range u.buf {
		row := make([]Cell, u.W)
		for x := range row {
			row[x] = Cell{Ch: ' ', Style: u.bgStyle}
		}
		u.buf[y] = row
	}
}

// Render redraws the dirty regions and returns the framebuffer.
func (u *UIManager) Render() [][]Cell {
	u.ensureBuffer()
	dirty := u.dirty
	u.dirty = nil

	surface := Rect{W: u.W, H: u.H}
	for _, clip := range mergeRects(dirty) {
		clip = clip.Intersect(surface)
		if clip.Empty() {
			continue
		}
		p := NewPainter(u.buf, clip)
		p.Fill(clip, ' ', u.bgStyle)
		for _, w := range u.widgets {
			wx, wy := w.Position()
			ww, wh := w.Size()
			if rectsOverlap(Rect{X: wx, Y: wy, W: ww, H: wh}, clip) {
				w.Draw(p)
			}
		}
	}
	return u.buf
}
