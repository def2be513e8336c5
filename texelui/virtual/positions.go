// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: texelui/virtual/positions.go
// Summary: Prefix-sum offsets over item heights with suffix-only rebuilds.

package virtual

import "sort"

// PositionEntry is the absolute start offset of one item.
type PositionEntry struct {
	Index  int
	Offset float64
}

// PositionIndex maps item indices to cumulative offsets.
//
// offsets holds N+1 values: offsets[i] is the start of item i and
// offsets[N] is the total height. The slice is only ever rewritten from some
// index onwards, never in the middle.
type PositionIndex struct {
	heights *HeightStore
	offsets []float64
}

// NewPositionIndex builds offsets for count items from heights.
func NewPositionIndex(heights *HeightStore, count int) *PositionIndex {
	p := &PositionIndex{heights: heights, offsets: []float64{0}}
	p.Resize(max(0, count), 0)
	return p
}

// Len returns the item count.
func (p *PositionIndex) Len() int {
	return len(p.offsets) - 1
}

// OffsetOf returns the start offset of index. Indices outside [0, Len()]
// clamp to the nearest end.
func (p *PositionIndex) OffsetOf(index int) float64 {
	if index <= 0 {
		return 0
	}
	if index >= len(p.offsets) {
		return p.offsets[len(p.offsets)-1]
	}
	return p.offsets[index]
}

// TotalHeight returns the summed height of all items.
func (p *PositionIndex) TotalHeight() float64 {
	return p.offsets[len(p.offsets)-1]
}

// IndexAtOffset returns the item whose [start, end) range contains offset.
// Negative offsets give 0 and offsets past the end clamp to the last item.
// An empty index, or one whose items all have zero height, returns 0.
func (p *PositionIndex) IndexAtOffset(offset float64) int {
	n := p.Len()
	total := p.TotalHeight()
	if n == 0 || offset < 0 || total == 0 {
		return 0
	}
	if offset >= total {
		return n - 1
	}
	// First item whose end lies beyond offset. Zero-height items have an
	// empty range and are skipped.
	return sort.Search(n, func(i int) bool {
		return p.offsets[i+1] > offset
	})
}

// lastStartingBefore returns the last item whose start offset is < offset,
// or -1 when none is.
func (p *PositionIndex) lastStartingBefore(offset float64) int {
	n := p.Len()
	i := sort.Search(n, func(i int) bool {
		return p.offsets[i] >= offset
	})
	return i - 1
}

// Patch recomputes offsets after the smallest dirty index. An empty dirty
// set leaves the index untouched. A dirty index at or beyond Len() fails
// without mutating anything.
func (p *PositionIndex) Patch(dirty []int) error {
	if len(dirty) == 0 {
		return nil
	}
	n := p.Len()
	lowest := dirty[0]
	for _, i := range dirty {
		if i < 0 || i >= n {
			return &IndexOutOfRangeError{Index: i, Count: n}
		}
		lowest = min(lowest, i)
	}
	p.rebuildFrom(lowest)
	return nil
}

// Resize changes the item count. Entries at or after editIndex are dropped
// and rebuilt from the height store; entries before it are kept as they are.
func (p *PositionIndex) Resize(count, editIndex int) {
	count = max(0, count)
	editIndex = min(max(0, editIndex), count, p.Len())
	p.offsets = p.offsets[:editIndex+1]
	if cap(p.offsets) < count+1 {
		grown := make([]float64, editIndex+1, count+1)
		copy(grown, p.offsets)
		p.offsets = grown
	}
	p.offsets = p.offsets[:count+1]
	p.rebuildFrom(editIndex)
}

// Entries returns position entries for the inclusive range [start, end].
func (p *PositionIndex) Entries(start, end int) []PositionEntry {
	if end < start {
		return nil
	}
	out := make([]PositionEntry, 0, end-start+1)
	for i := start; i <= end; i++ {
		out = append(out, PositionEntry{Index: i, Offset: p.offsets[i]})
	}
	return out
}

func (p *PositionIndex) rebuildFrom(index int) {
	n := p.Len()
	for i := index; i < n; i++ {
		p.offsets[i+1] = p.offsets[i] + p.heights.Get(i)
	}
}
