// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: texelui/virtual/engine.go
// Summary: Frame-driven pipeline tying heights, positions, viewport and window together.
// Usage: Owned by a list widget; the widget forwards scroll/resize events and
// implements Renderer to paint and measure items.

package virtual

import (
	"fmt"

	"go.uber.org/zap"
)

// Renderer paints one item at an absolute content offset and returns its
// measured height. A negative return means the host will report the height
// later through Engine.Report.
type Renderer interface {
	Paint(index int, offset float64) float64
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(index int, offset float64) float64

// Paint implements Renderer.
func (f RendererFunc) Paint(index int, offset float64) float64 {
	return f(index, offset)
}

// Engine computes which items of a variable-height list to render.
//
// All methods must be called from the goroutine that runs frame callbacks.
// Input methods only record state and request a frame; the work happens
// inside the frame, so bursts of scroll events cost one window computation.
type Engine struct {
	opts      Options
	logger    *zap.Logger
	frames    FrameScheduler
	renderer  Renderer
	heights   *HeightStore
	positions *PositionIndex
	viewport  *ViewportTracker
	selector  *WindowSelector
	reconcile *Reconciler

	window  RenderWindow
	pending CancelFunc
	live    bool
	frameN  uint64

	// OnFrame, when set, runs at the end of every frame that painted.
	OnFrame func(RenderWindow)
}

// NewEngine creates an engine for count items.
func NewEngine(count int, frames FrameScheduler, renderer Renderer, opts ...Option) *Engine {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	heights := NewHeightStore(o.DefaultEstimate, o.Epsilon)
	positions := NewPositionIndex(heights, count)
	viewport := &ViewportTracker{}
	e := &Engine{
		opts:      o,
		logger:    o.Logger,
		frames:    frames,
		renderer:  renderer,
		heights:   heights,
		positions: positions,
		viewport:  viewport,
		selector:  NewWindowSelector(heights, positions),
		reconcile: NewReconciler(heights, positions, viewport, o.JitterThreshold, o.Logger),
		window:    RenderWindow{EndIndex: -1},
		live:      true,
	}
	return e
}

// Options returns the effective configuration.
func (e *Engine) Options() Options { return e.opts }

// Live reports whether the engine is still mounted.
func (e *Engine) Live() bool { return e.live }

// Len returns the current item count.
func (e *Engine) Len() int { return e.positions.Len() }

// Window returns the window computed by the most recent frame.
func (e *Engine) Window() RenderWindow { return e.window }

// Viewport returns the current viewport state.
func (e *Engine) Viewport() ViewportState { return e.viewport.Current() }

// TotalHeight returns the scroll track length.
func (e *Engine) TotalHeight() float64 { return e.positions.TotalHeight() }

// OffsetOf returns the start offset of index.
func (e *Engine) OffsetOf(index int) float64 { return e.positions.OffsetOf(index) }

// IndexAtOffset returns the item containing offset.
func (e *Engine) IndexAtOffset(offset float64) int { return e.positions.IndexAtOffset(offset) }

// Height returns the best-known height record of index.
func (e *Engine) Height(index int) HeightRecord { return e.heights.Record(index) }

// Frames returns how many frames have run.
func (e *Engine) Frames() uint64 { return e.frameN }

// OnScroll records a scroll offset and schedules a frame.
func (e *Engine) OnScroll(offset float64) {
	if !e.live {
		return
	}
	e.viewport.OnScroll(offset)
	e.requestFrame()
}

// OnResize records a viewport size and schedules a frame.
func (e *Engine) OnResize(size float64) {
	if !e.live {
		return
	}
	e.viewport.OnResize(size)
	e.requestFrame()
}

// ScrollToIndex aligns the start of index with the top of the viewport.
func (e *Engine) ScrollToIndex(index int) {
	if !e.live || e.Len() == 0 {
		return
	}
	index = min(max(0, index), e.Len()-1)
	e.OnScroll(e.positions.OffsetOf(index))
}

// Report queues a measured height for index. Reports arriving after
// Unmount are dropped.
func (e *Engine) Report(index int, height float64) {
	if !e.live {
		return
	}
	e.reconcile.Report(index, height)
	e.requestFrame()
}

// Invalidate reverts index to the estimate because its content may have
// changed size. Offsets are patched before it returns; painting waits for
// the next frame.
func (e *Engine) Invalidate(index int) error {
	if !e.live {
		return nil
	}
	if index < 0 || index >= e.Len() {
		return &IndexOutOfRangeError{Index: index, Count: e.Len()}
	}
	if e.heights.Invalidate(index) {
		if err := e.positions.Patch(e.heights.TakeDirty()); err != nil {
			return err
		}
	}
	e.requestFrame()
	return nil
}

// InvalidateAll reverts every item to the estimate, e.g. after a width
// change that reflows all content.
func (e *Engine) InvalidateAll() {
	if !e.live {
		return
	}
	e.heights.InvalidateAll()
	e.heights.TakeDirty()
	e.reconcile.Reset()
	e.positions.Resize(e.Len(), 0)
	e.requestFrame()
}

// NotifyItemCountChanged tells the engine that items were inserted or
// removed starting at editIndex. Heights before editIndex are kept; all
// others revert to the estimate. A later call fully supersedes an earlier
// one that has not been reconciled yet. Positions are rebuilt before it
// returns so Len and OffsetOf already reflect count; the window itself
// is only chosen and painted by the next frame.
func (e *Engine) NotifyItemCountChanged(count, editIndex int) error {
	if !e.live {
		return nil
	}
	old := e.Len()
	if count < 0 || editIndex < 0 || editIndex > max(old, count) {
		return fmt.Errorf("%w: count=%d edit=%d (was %d)", ErrInvalidEdit, count, editIndex, old)
	}
	editIndex = min(editIndex, count)
	e.heights.InvalidateFrom(editIndex)
	e.reconcile.DropFrom(editIndex)
	e.positions.Resize(count, editIndex)
	if e.window.EndIndex >= editIndex {
		// The painted window refers to shifted indices.
		e.window = e.selector.ComputeWindow(e.viewport.Current(), e.opts.Overscan)
	}
	e.logger.Debug("item count changed",
		zap.Int("old", old), zap.Int("new", count), zap.Int("edit", editIndex))
	e.requestFrame()
	return nil
}

// Unmount releases the engine. The pending frame is cancelled and later
// calls become no-ops.
func (e *Engine) Unmount() {
	if !e.live {
		return
	}
	e.live = false
	if e.pending != nil {
		e.pending()
		e.pending = nil
	}
	e.reconcile.Reset()
	e.window = RenderWindow{EndIndex: -1}
}

// Frame runs one frame synchronously. Hosts normally let the scheduler
// call it; it is exported for hosts that paint on their own clock.
func (e *Engine) Frame() {
	if e.pending != nil {
		e.pending()
		e.pending = nil
	}
	e.frame()
}

func (e *Engine) requestFrame() {
	if e.pending != nil || e.frames == nil {
		return
	}
	e.pending = e.frames.RequestFrame(func() {
		e.pending = nil
		e.frame()
	})
}

func (e *Engine) frame() {
	if !e.live {
		return
	}
	e.frameN++
	e.reconcile.BeginCycle()

	// Measurements reported between frames land before the window is chosen.
	if _, err := e.reconcile.Flush(e.window); err != nil {
		e.logger.Error("reconcile failed", zap.Error(err))
		return
	}
	e.viewport.Clamp(e.positions.TotalHeight())

	e.window = e.selector.ComputeWindow(e.viewport.Current(), e.opts.Overscan)
	e.paint(e.window)

	res, err := e.reconcile.Flush(e.window)
	if err != nil {
		e.logger.Error("reconcile failed", zap.Error(err))
		return
	}
	if res.Resnapped {
		e.viewport.Clamp(e.positions.TotalHeight())
		e.window = e.selector.ComputeWindow(e.viewport.Current(), e.opts.Overscan)
		e.paint(e.window)
	} else if res.Changed {
		e.window.ItemOffsets = e.positions.Entries(e.window.StartIndex, e.window.EndIndex)
	}

	if e.OnFrame != nil {
		e.OnFrame(e.window)
	}

	// Keep going only while measurements still move geometry or the
	// painted window no longer matches the corrected positions.
	switch {
	case e.reconcile.HasChanges():
		e.requestFrame()
	case res.Changed && !res.Resnapped && e.stale():
		e.reconcile.Reset()
		e.requestFrame()
	default:
		e.reconcile.Reset()
	}
}

// stale reports whether the current window differs from the one the
// corrected positions would select.
func (e *Engine) stale() bool {
	fresh := e.selector.ComputeWindow(e.viewport.Current(), e.opts.Overscan)
	return fresh.StartIndex != e.window.StartIndex || fresh.EndIndex != e.window.EndIndex
}

func (e *Engine) paint(w RenderWindow) {
	if e.renderer == nil {
		return
	}
	for _, entry := range w.ItemOffsets {
		h := e.renderer.Paint(entry.Index, entry.Offset)
		if h < 0 {
			continue
		}
		e.reconcile.Report(entry.Index, h)
	}
}
