// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package virtual

import (
	"errors"
	"math"
	"testing"
)

func TestHeightStoreEstimateFallback(t *testing.T) {
	s := NewHeightStore(50, 0.5)
	if got := s.Get(42); got != 50 {
		t.Fatalf("expected estimate 50, got %v", got)
	}
	if rec := s.Record(42); rec.Measured {
		t.Fatalf("unmeasured index reported as measured")
	}

	changed, err := s.Set(42, 80)
	if err != nil || !changed {
		t.Fatalf("Set(42, 80) = %v, %v; want true, nil", changed, err)
	}
	if got := s.Get(42); got != 80 {
		t.Fatalf("expected measured 80, got %v", got)
	}

	// Within epsilon: recorded but not dirty.
	changed, _ = s.Set(42, 80.3)
	if changed {
		t.Fatalf("change below epsilon marked dirty")
	}
	if dirty := s.TakeDirty(); len(dirty) != 1 || dirty[0] != 42 {
		t.Fatalf("unexpected dirty set %v", dirty)
	}
	if dirty := s.TakeDirty(); dirty != nil {
		t.Fatalf("TakeDirty did not clear: %v", dirty)
	}
}

func TestHeightStoreRejectsInvalidHeights(t *testing.T) {
	s := NewHeightStore(10, 0)
	if _, err := s.Set(1, 30); err != nil {
		t.Fatalf("Set: %v", err)
	}
	s.TakeDirty()

	for _, h := range []float64{-1, math.NaN(), math.Inf(1)} {
		changed, err := s.Set(1, h)
		if !errors.Is(err, ErrInvalidHeight) {
			t.Fatalf("Set(%v) error = %v, want ErrInvalidHeight", h, err)
		}
		if changed {
			t.Fatalf("Set(%v) reported a change", h)
		}
	}
	if got := s.Get(1); got != 30 {
		t.Fatalf("prior value lost, got %v", got)
	}
	if dirty := s.TakeDirty(); dirty != nil {
		t.Fatalf("invalid heights marked dirty: %v", dirty)
	}
}

func TestHeightStoreInvalidate(t *testing.T) {
	s := NewHeightStore(10, 0)
	s.Set(3, 25)
	s.TakeDirty()

	if !s.Invalidate(3) {
		t.Fatalf("expected invalidate to change height")
	}
	if rec := s.Record(3); rec.Measured || rec.Height != 10 {
		t.Fatalf("expected estimate record, got %+v", rec)
	}
	if s.Invalidate(3) {
		t.Fatalf("second invalidate should be a no-op")
	}
	if dirty := s.TakeDirty(); len(dirty) != 1 || dirty[0] != 3 {
		t.Fatalf("unexpected dirty set %v", dirty)
	}
}

func TestPositionIndexMonotonic(t *testing.T) {
	s := NewHeightStore(10, 0)
	p := NewPositionIndex(s, 200)
	for i := 0; i < 200; i += 3 {
		s.Set(i, float64(i%7)*4) // includes zero heights
	}
	if err := p.Patch(s.TakeDirty()); err != nil {
		t.Fatalf("Patch: %v", err)
	}

	if p.OffsetOf(0) != 0 {
		t.Fatalf("offset(0) = %v", p.OffsetOf(0))
	}
	for i := 0; i < p.Len(); i++ {
		a, b := p.OffsetOf(i), p.OffsetOf(i+1)
		if a > b {
			t.Fatalf("offset(%d)=%v > offset(%d)=%v", i, a, i+1, b)
		}
		if s.Get(i) > 0 && a >= b {
			t.Fatalf("offset not strictly increasing across item %d with height %v", i, s.Get(i))
		}
		if b-a != s.Get(i) {
			t.Fatalf("offset gap %v for item %d, height %v", b-a, i, s.Get(i))
		}
	}
}

func TestPositionIndexPatchEmptyIsIdempotent(t *testing.T) {
	s := NewHeightStore(7, 0)
	p := NewPositionIndex(s, 50)
	s.Set(5, 30)
	p.Patch(s.TakeDirty())

	before := append([]float64(nil), p.offsets...)
	if err := p.Patch(nil); err != nil {
		t.Fatalf("Patch(nil): %v", err)
	}
	if err := p.Patch([]int{}); err != nil {
		t.Fatalf("Patch([]): %v", err)
	}
	for i := range before {
		if p.offsets[i] != before[i] {
			t.Fatalf("offset %d changed from %v to %v", i, before[i], p.offsets[i])
		}
	}
}

func TestPositionIndexPatchOutOfRange(t *testing.T) {
	s := NewHeightStore(10, 0)
	p := NewPositionIndex(s, 5)
	s.Set(1, 99)
	total := p.TotalHeight()

	err := p.Patch([]int{1, 5})
	if !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
	var oor *IndexOutOfRangeError
	if !errors.As(err, &oor) || oor.Index != 5 || oor.Count != 5 {
		t.Fatalf("unexpected error detail %#v", err)
	}
	if p.TotalHeight() != total {
		t.Fatalf("failed patch mutated offsets")
	}
}

func TestIndexAtOffset(t *testing.T) {
	s := NewHeightStore(10, 0)
	p := NewPositionIndex(s, 10)

	cases := []struct {
		offset float64
		want   int
	}{
		{-5, 0},
		{0, 0},
		{9.99, 0},
		{10, 1}, // boundary belongs to the item starting there
		{55, 5},
		{99, 9},
		{100, 9}, // total height clamps to last
		{1e9, 9},
	}
	for _, tc := range cases {
		if got := p.IndexAtOffset(tc.offset); got != tc.want {
			t.Fatalf("IndexAtOffset(%v) = %d, want %d", tc.offset, got, tc.want)
		}
	}
}

func TestIndexAtOffsetSkipsZeroHeightItems(t *testing.T) {
	s := NewHeightStore(10, 0)
	p := NewPositionIndex(s, 4)
	s.Set(1, 0)
	s.Set(2, 0)
	p.Patch(s.TakeDirty())

	// Items 1 and 2 are empty; offset 10 starts item 3.
	if got := p.IndexAtOffset(10); got != 3 {
		t.Fatalf("IndexAtOffset(10) = %d, want 3", got)
	}
}

func TestPositionIndexResizeKeepsPrefix(t *testing.T) {
	s := NewHeightStore(50, 0)
	p := NewPositionIndex(s, 100)
	for i := 0; i <= 50; i++ {
		s.Set(i, 80)
	}
	p.Patch(s.TakeDirty())

	s.InvalidateFrom(10)
	p.Resize(500, 10)

	if p.Len() != 500 {
		t.Fatalf("Len = %d, want 500", p.Len())
	}
	if got := p.OffsetOf(10); got != 800 {
		t.Fatalf("offset(10) = %v, want 800", got)
	}
	if got, want := p.TotalHeight(), 10*80.0+490*50.0; got != want {
		t.Fatalf("total = %v, want %v", got, want)
	}

	p.Resize(3, 10)
	if p.Len() != 3 || p.TotalHeight() != 240 {
		t.Fatalf("shrink: len %d total %v", p.Len(), p.TotalHeight())
	}
}

func TestIndexAtOffsetLeadingZeroHeightItems(t *testing.T) {
	s := NewHeightStore(10, 0)
	p := NewPositionIndex(s, 4)
	s.Set(0, 0)
	s.Set(1, 0)
	p.Patch(s.TakeDirty())

	// [0,0) is empty for items 0 and 1; offset 0 lies in item 2.
	if got := p.IndexAtOffset(0); got != 2 {
		t.Fatalf("IndexAtOffset(0) = %d, want 2", got)
	}
	if got := p.IndexAtOffset(-1); got != 0 {
		t.Fatalf("IndexAtOffset(-1) = %d, want 0", got)
	}

	s.Set(2, 0)
	s.Set(3, 0)
	p.Patch(s.TakeDirty())
	if got := p.IndexAtOffset(0); got != 0 {
		t.Fatalf("all-empty IndexAtOffset(0) = %d, want 0", got)
	}
}
