// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: texelui/virtual/reconcile.go
// Summary: Batches post-paint measurements into one height/offset update per frame.

package virtual

import (
	"errors"
	"math"

	"go.uber.org/zap"
)

type report struct {
	index  int
	height float64
}

// Reconciler collects measured heights and applies them in one pass.
type Reconciler struct {
	heights   *HeightStore
	positions *PositionIndex
	viewport  *ViewportTracker
	jitter    float64
	logger    *zap.Logger

	reports   []report
	resnapped bool
}

// NewReconciler wires a reconciler to the engine's state.
func NewReconciler(heights *HeightStore, positions *PositionIndex, viewport *ViewportTracker, jitter float64, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{
		heights:   heights,
		positions: positions,
		viewport:  viewport,
		jitter:    jitter,
		logger:    logger,
	}
}

// Report queues a measurement for the next Flush.
func (r *Reconciler) Report(index int, height float64) {
	r.reports = append(r.reports, report{index: index, height: height})
}

// Pending returns the number of queued measurements.
func (r *Reconciler) Pending() int {
	return len(r.reports)
}

// HasChanges reports whether any queued measurement would alter geometry.
func (r *Reconciler) HasChanges() bool {
	n := r.positions.Len()
	for _, rep := range r.reports {
		if rep.index >= 0 && rep.index < n && r.heights.Differs(rep.index, rep.height) {
			return true
		}
	}
	return false
}

// BeginCycle starts a new paint cycle and re-arms the resnap guard.
func (r *Reconciler) BeginCycle() {
	r.resnapped = false
}

// DropFrom discards queued measurements at or after index. Used when the
// items they refer to were shifted by an insert or removal.
func (r *Reconciler) DropFrom(index int) {
	kept := r.reports[:0]
	for _, rep := range r.reports {
		if rep.index < index {
			kept = append(kept, rep)
		}
	}
	r.reports = kept
}

// Reset discards every queued measurement.
func (r *Reconciler) Reset() {
	r.reports = nil
}

// Reconciliation summarises one Flush.
type Reconciliation struct {
	Applied   int     // measurements written to the height store
	Changed   bool    // positions were patched
	Resnapped bool    // the scroll offset followed the window's first item
	Drift     float64 // offset change of the window's first item
}

// Flush applies all queued measurements and patches positions once. When
// the first item of window moved by more than the jitter threshold, the
// scroll offset follows it and the result is marked Resnapped so the caller
// can recompute the window. That happens at most once per cycle.
func (r *Reconciler) Flush(window RenderWindow) (Reconciliation, error) {
	var res Reconciliation
	if len(r.reports) == 0 {
		return res, nil
	}
	reports := r.reports
	r.reports = nil

	before := r.positions.OffsetOf(window.StartIndex)
	n := r.positions.Len()
	for _, rep := range reports {
		if rep.index < 0 || rep.index >= n {
			r.logger.Debug("dropping measurement for removed item",
				zap.Int("index", rep.index), zap.Int("count", n))
			continue
		}
		if _, err := r.heights.Set(rep.index, rep.height); err != nil {
			if errors.Is(err, ErrInvalidHeight) {
				r.logger.Warn("host reported invalid item height",
					zap.Int("index", rep.index), zap.Float64("height", rep.height))
				continue
			}
			return res, err
		}
		res.Applied++
	}

	dirty := r.heights.TakeDirty()
	if err := r.positions.Patch(dirty); err != nil {
		return res, err
	}
	res.Changed = len(dirty) > 0

	if window.Empty() || !res.Changed {
		return res, nil
	}
	res.Drift = r.positions.OffsetOf(window.StartIndex) - before
	if r.resnapped || math.Abs(res.Drift) <= r.jitter {
		return res, nil
	}
	r.resnapped = true
	res.Resnapped = true
	vp := r.viewport.Current()
	r.viewport.OnScroll(vp.ScrollOffset + res.Drift)
	r.logger.Debug("resnapped viewport",
		zap.Int("anchor", window.StartIndex), zap.Float64("drift", res.Drift))
	return res, nil
}
