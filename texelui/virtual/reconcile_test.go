// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package virtual

import (
	"math"
	"testing"
)

func newReconciler(n int, estimate, jitter float64) (*Reconciler, *PositionIndex, *ViewportTracker, *WindowSelector) {
	s := NewHeightStore(estimate, 0)
	p := NewPositionIndex(s, n)
	vp := &ViewportTracker{}
	return NewReconciler(s, p, vp, jitter, nil), p, vp, NewWindowSelector(s, p)
}

func TestReconcilerBatchesIntoOnePatch(t *testing.T) {
	r, p, vp, sel := newReconciler(100, 10, 1)
	vp.OnResize(50)
	w := sel.ComputeWindow(vp.Current(), Overscan{})
	for _, e := range w.ItemOffsets {
		r.Report(e.Index, 12)
	}
	if r.Pending() != w.Len() {
		t.Fatalf("pending = %d, want %d", r.Pending(), w.Len())
	}
	res, err := r.Flush(w)
	if err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if res.Applied != w.Len() || !res.Changed || res.Resnapped {
		t.Fatalf("unexpected result %+v", res)
	}
	if r.Pending() != 0 {
		t.Fatalf("reports not drained")
	}
	if got, want := p.TotalHeight(), float64(w.Len())*12+float64(100-w.Len())*10; got != want {
		t.Fatalf("total = %v, want %v", got, want)
	}
}

func TestReconcilerResnapGuard(t *testing.T) {
	r, _, vp, sel := newReconciler(100, 10, 2)
	vp.OnResize(30)
	vp.OnScroll(300)
	w := sel.ComputeWindow(vp.Current(), Overscan{})

	r.BeginCycle()
	r.Report(0, 20)
	res, _ := r.Flush(w)
	if !res.Resnapped || res.Drift != 10 {
		t.Fatalf("first flush = %+v, want resnap by 10", res)
	}
	if vp.Current().ScrollOffset != 310 {
		t.Fatalf("scroll = %v", vp.Current().ScrollOffset)
	}

	r.Report(1, 20)
	res, _ = r.Flush(w)
	if res.Resnapped {
		t.Fatalf("second resnap in the same cycle")
	}
	if vp.Current().ScrollOffset != 310 {
		t.Fatalf("scroll moved without resnap: %v", vp.Current().ScrollOffset)
	}

	r.BeginCycle()
	r.Report(2, 20)
	if res, _ = r.Flush(w); !res.Resnapped {
		t.Fatalf("guard not re-armed by BeginCycle")
	}
}

func TestReconcilerDropsRemovedItems(t *testing.T) {
	r, p, _, _ := newReconciler(5, 10, 1)
	r.Report(7, 99)
	r.Report(1, math.NaN())
	res, err := r.Flush(RenderWindow{EndIndex: -1})
	if err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if res.Applied != 0 || res.Changed {
		t.Fatalf("unexpected result %+v", res)
	}
	if p.TotalHeight() != 50 {
		t.Fatalf("total = %v", p.TotalHeight())
	}
}

func TestViewportTrackerClamps(t *testing.T) {
	var vt ViewportTracker
	vt.OnScroll(-20)
	vt.OnResize(-1)
	if vt.Current() != (ViewportState{}) {
		t.Fatalf("negative values not clamped: %+v", vt.Current())
	}
	vt.OnResize(40)
	vt.OnScroll(500)
	vt.OnScroll(math.NaN())
	if vt.Current().ScrollOffset != 500 {
		t.Fatalf("NaN scroll applied")
	}
	if !vt.Clamp(100) || vt.Current().ScrollOffset != 60 {
		t.Fatalf("Clamp(100) -> %+v", vt.Current())
	}
	if vt.Clamp(100) {
		t.Fatalf("second clamp reported movement")
	}
}

func TestManualFramesDefersNestedRequests(t *testing.T) {
	var frames ManualFrames
	var order []string
	frames.RequestFrame(func() {
		order = append(order, "a")
		frames.RequestFrame(func() { order = append(order, "c") })
	})
	cancel := frames.RequestFrame(func() { order = append(order, "b") })
	cancel()
	frames.RequestFrame(func() { order = append(order, "b2") })

	if n := frames.Flush(); n != 2 {
		t.Fatalf("first flush ran %d", n)
	}
	if frames.Pending() != 1 {
		t.Fatalf("nested request not deferred")
	}
	frames.Flush()
	if got := len(order); got != 3 || order[0] != "a" || order[1] != "b2" || order[2] != "c" {
		t.Fatalf("order = %v", order)
	}
	cancel()
}
