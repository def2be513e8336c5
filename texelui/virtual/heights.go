// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: texelui/virtual/heights.go
// Summary: Sparse per-item height records with estimate fallback.

package virtual

import (
	"math"
	"sort"
)

// HeightRecord is the best-known height of one item.
// Measured is false while Height is still the configured estimate.
type HeightRecord struct {
	Index    int
	Height   float64
	Measured bool
}

// HeightStore keeps heights in a sparse map keyed by index. Indices that were
// never recorded resolve to the estimate, so lookups never miss.
type HeightStore struct {
	estimate float64
	epsilon  float64
	records  map[int]HeightRecord
	dirty    map[int]struct{}
}

// NewHeightStore creates a store that answers unknown indices with estimate.
func NewHeightStore(estimate, epsilon float64) *HeightStore {
	return &HeightStore{
		estimate: estimate,
		epsilon:  epsilon,
		records:  make(map[int]HeightRecord),
		dirty:    make(map[int]struct{}),
	}
}

// Estimate returns the height used for unmeasured items.
func (s *HeightStore) Estimate() float64 {
	return s.estimate
}

// Get returns the measured height of index, or the estimate.
func (s *HeightStore) Get(index int) float64 {
	if rec, ok := s.records[index]; ok {
		return rec.Height
	}
	return s.estimate
}

// Record returns the full record for index without creating one.
func (s *HeightStore) Record(index int) HeightRecord {
	if rec, ok := s.records[index]; ok {
		return rec
	}
	return HeightRecord{Index: index, Height: s.estimate}
}

// Ensure creates an estimate record for index if none exists yet.
func (s *HeightStore) Ensure(index int) {
	if _, ok := s.records[index]; ok {
		return
	}
	s.records[index] = HeightRecord{Index: index, Height: s.estimate}
}

// Set records a measured height. The index is marked dirty only when the
// new height differs from the previous value by more than epsilon.
// Invalid heights are rejected and leave the store untouched.
func (s *HeightStore) Set(index int, height float64) (bool, error) {
	if !validHeight(height) {
		return false, ErrInvalidHeight
	}
	prev := s.Get(index)
	s.records[index] = HeightRecord{Index: index, Height: height, Measured: true}
	if math.Abs(height-prev) > s.epsilon {
		s.dirty[index] = struct{}{}
		return true, nil
	}
	return false, nil
}

// Differs reports whether height would count as a change for index.
func (s *HeightStore) Differs(index int, height float64) bool {
	if !validHeight(height) {
		return false
	}
	rec, ok := s.records[index]
	if !ok || !rec.Measured {
		return true
	}
	return math.Abs(height-rec.Height) > s.epsilon
}

// Invalidate reverts index to the estimate. Reports whether the effective
// height changed.
func (s *HeightStore) Invalidate(index int) bool {
	rec, ok := s.records[index]
	if !ok || !rec.Measured {
		return false
	}
	s.records[index] = HeightRecord{Index: index, Height: s.estimate}
	if rec.Height != s.estimate {
		s.dirty[index] = struct{}{}
		return true
	}
	return false
}

// InvalidateFrom drops every record at or after index. Dirty marks in that
// range are discarded too; the caller rebuilds positions for the range.
func (s *HeightStore) InvalidateFrom(index int) {
	for i := range s.records {
		if i >= index {
			delete(s.records, i)
		}
	}
	for i := range s.dirty {
		if i >= index {
			delete(s.dirty, i)
		}
	}
}

// InvalidateAll reverts every measured record to the estimate.
func (s *HeightStore) InvalidateAll() {
	for i := range s.records {
		s.Invalidate(i)
	}
}

// TakeDirty returns the dirty indices in ascending order and clears them.
func (s *HeightStore) TakeDirty() []int {
	if len(s.dirty) == 0 {
		return nil
	}
	out := make([]int, 0, len(s.dirty))
	for i := range s.dirty {
		out = append(out, i)
	}
	clear(s.dirty)
	sort.Ints(out)
	return out
}

// Measured returns how many records hold a real measurement.
func (s *HeightStore) Measured() int {
	n := 0
	for _, rec := range s.records {
		if rec.Measured {
			n++
		}
	}
	return n
}

func validHeight(h float64) bool {
	return h >= 0 && !math.IsNaN(h) && !math.IsInf(h, 0)
}
