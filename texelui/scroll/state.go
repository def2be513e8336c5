// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: texelui/scroll/state.go
// Summary: Immutable scroll arithmetic over content and viewport heights.

package scroll

// State describes a vertical scroll position. Methods return updated copies
// and always keep Offset within [0, MaxOffset()].
type State struct {
	Offset         int
	ViewportHeight int
	ContentHeight  int
}

// NewState returns a state scrolled to the top.
func NewState(contentHeight, viewportHeight int) State {
	return State{ContentHeight: max(0, contentHeight), ViewportHeight: max(0, viewportHeight)}
}

// MaxOffset is the largest offset that still fills the viewport.
func (s State) MaxOffset() int {
	return max(0, s.ContentHeight-s.ViewportHeight)
}

func (s State) clamp() State {
	s.Offset = min(max(0, s.Offset), s.MaxOffset())
	return s
}

// WithContentHeight returns s with a new content height.
func (s State) WithContentHeight(h int) State {
	s.ContentHeight = max(0, h)
	return s.clamp()
}

// WithViewportHeight returns s with a new viewport height.
func (s State) WithViewportHeight(h int) State {
	s.ViewportHeight = max(0, h)
	return s.clamp()
}

// WithOffset returns s scrolled to offset.
func (s State) WithOffset(offset int) State {
	s.Offset = offset
	return s.clamp()
}

// ScrollBy moves the offset by delta rows (positive = down).
func (s State) ScrollBy(delta int) State {
	return s.WithOffset(s.Offset + delta)
}

// ScrollTo moves the minimum distance that makes row visible.
func (s State) ScrollTo(row int) State {
	switch {
	case row < s.Offset:
		return s.WithOffset(row)
	case row >= s.Offset+s.ViewportHeight:
		return s.WithOffset(row - s.ViewportHeight + 1)
	}
	return s
}

// ScrollToTop returns s scrolled to the first row.
func (s State) ScrollToTop() State { return s.WithOffset(0) }

// ScrollToBottom returns s scrolled to the last page.
func (s State) ScrollToBottom() State { return s.WithOffset(s.MaxOffset()) }

// IsRowVisible reports whether content row is inside the viewport.
func (s State) IsRowVisible(row int) bool {
	return row >= s.Offset && row < s.Offset+s.ViewportHeight
}

// CanScroll reports whether the content exceeds the viewport.
func (s State) CanScroll() bool { return s.ContentHeight > s.ViewportHeight }

// CanScrollUp reports whether content is hidden above the viewport.
func (s State) CanScrollUp() bool { return s.Offset > 0 }

// CanScrollDown reports whether content is hidden below the viewport.
func (s State) CanScrollDown() bool { return s.Offset < s.MaxOffset() }
