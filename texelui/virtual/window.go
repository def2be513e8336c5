// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: texelui/virtual/window.go
// Summary: Selects the items to render for a viewport plus overscan.

package virtual

// RenderWindow is the set of items to paint and where each one starts.
// An empty list produces StartIndex 0 and EndIndex -1.
type RenderWindow struct {
	StartIndex  int
	EndIndex    int
	ItemOffsets []PositionEntry
}

// Len returns the number of items in the window.
func (w RenderWindow) Len() int {
	return len(w.ItemOffsets)
}

// Empty reports whether the window holds no items.
func (w RenderWindow) Empty() bool {
	return w.EndIndex < w.StartIndex
}

// Contains reports whether index is inside the window.
func (w RenderWindow) Contains(index int) bool {
	return index >= w.StartIndex && index <= w.EndIndex
}

// WindowSelector turns a viewport into a RenderWindow.
type WindowSelector struct {
	heights   *HeightStore
	positions *PositionIndex
}

// NewWindowSelector creates a selector over the given store and index.
func NewWindowSelector(heights *HeightStore, positions *PositionIndex) *WindowSelector {
	return &WindowSelector{heights: heights, positions: positions}
}

// ComputeWindow returns the items covering the viewport plus overscan.
// The start item is the one containing scroll-before (an item starting exactly
// there is included); the end item is the last one starting before
// scroll+size+after.
func (s *WindowSelector) ComputeWindow(vp ViewportState, overscan Overscan) RenderWindow {
	n := s.positions.Len()
	if n == 0 {
		return RenderWindow{StartIndex: 0, EndIndex: -1}
	}

	start := s.positions.IndexAtOffset(max(0, vp.ScrollOffset-overscan.Before))
	endOffset := vp.ScrollOffset + vp.ViewportSize + overscan.After
	end := min(max(s.positions.lastStartingBefore(endOffset), start), n-1)

	for i := start; i <= end; i++ {
		s.heights.Ensure(i)
	}
	return RenderWindow{
		StartIndex:  start,
		EndIndex:    end,
		ItemOffsets: s.positions.Entries(start, end),
	}
}
