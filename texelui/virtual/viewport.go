// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: texelui/virtual/viewport.go
// Summary: Scroll offset and viewport size as last reported by the host.

package virtual

import "math"

// ViewportState is the visible slice of the list in content coordinates.
type ViewportState struct {
	ScrollOffset float64
	ViewportSize float64
}

// End returns the exclusive end of the visible range.
func (v ViewportState) End() float64 {
	return v.ScrollOffset + v.ViewportSize
}

// ViewportTracker holds the viewport state. It never recomputes anything
// on its own; the engine reads it when a frame runs.
type ViewportTracker struct {
	state ViewportState
}

// OnScroll records a new scroll offset. Negative offsets clamp to zero and
// NaN is ignored.
func (t *ViewportTracker) OnScroll(offset float64) {
	if math.IsNaN(offset) {
		return
	}
	t.state.ScrollOffset = max(0, offset)
}

// OnResize records a new viewport size.
func (t *ViewportTracker) OnResize(size float64) {
	if math.IsNaN(size) {
		return
	}
	t.state.ViewportSize = max(0, size)
}

// Current returns the latest viewport state.
func (t *ViewportTracker) Current() ViewportState {
	return t.state
}

// Clamp pulls the scroll offset back inside [0, total-size]. Reports whether it moved.
func (t *ViewportTracker) Clamp(total float64) bool {
	limit := max(0, total-t.state.ViewportSize)
	if t.state.ScrollOffset <= limit {
		return false
	}
	t.state.ScrollOffset = limit
	return true
}
