// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: texelui/adapter/frames.go
// Summary: Frame scheduler that rides the tcell event loop.
// Usage: Pass ScreenFrames to widgets as their virtual.FrameScheduler and call
// Dispatch for every event the loop pulls off the screen.

package adapter

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/texelvlist/texelui/virtual"
)

// DefaultFrameInterval matches a 60Hz refresh.
const DefaultFrameInterval = 16 * time.Millisecond

// Poster is the part of tcell.Screen the scheduler needs.
type Poster interface {
	PostEvent(ev tcell.Event) error
}

type frameRequest struct {
	cb       func()
	canceled atomic.Bool
}

// frameBatch is the payload of the interrupt event that carries due callbacks.
type frameBatch []*frameRequest

// ScreenFrames implements virtual.FrameScheduler. Requests are collected until
// the next tick, then posted to the screen as one interrupt event so callbacks
// run on the event-loop goroutine.
type ScreenFrames struct {
	poster   Poster
	interval time.Duration

	mu      sync.Mutex
	queue   frameBatch
	timer   *time.Timer
	stopped bool
}

// NewScreenFrames creates a scheduler posting to p. A non-positive interval
// uses DefaultFrameInterval.
func NewScreenFrames(p Poster, interval time.Duration) *ScreenFrames {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &ScreenFrames{poster: p, interval: interval}
}

// Interval returns the tick length.
func (f *ScreenFrames) Interval() time.Duration { return f.interval }

// RequestFrame implements virtual.FrameScheduler.
func (f *ScreenFrames) RequestFrame(cb func()) virtual.CancelFunc {
	req := &frameRequest{cb: cb}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stopped {
		return func() {}
	}
	f.queue = append(f.queue, req)
	if f.timer == nil {
		f.timer = time.AfterFunc(f.interval, f.fire)
	}
	return func() { req.canceled.Store(true) }
}

func (f *ScreenFrames) fire() {
	f.mu.Lock()
	batch := f.queue
	f.queue = nil
	f.timer = nil
	stopped := f.stopped
	f.mu.Unlock()
	if stopped || len(batch) == 0 {
		return
	}
	if err := f.poster.PostEvent(tcell.NewEventInterrupt(batch)); err != nil {
		f.requeue(batch)
	}
}

// requeue puts a batch the screen refused back in front of newer requests
// and retries on the next tick.
func (f *ScreenFrames) requeue(batch frameBatch) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stopped {
		return
	}
	f.queue = append(batch, f.queue...)
	if f.timer == nil {
		f.timer = time.AfterFunc(f.interval, f.fire)
	}
}

// Dispatch runs the callbacks carried by ev and reports whether ev was a
// frame event. Canceled requests are skipped.
func (f *ScreenFrames) Dispatch(ev tcell.Event) bool {
	intr, ok := ev.(*tcell.EventInterrupt)
	if !ok {
		return false
	}
	batch, ok := intr.Data().(frameBatch)
	if !ok {
		return false
	}
	for _, req := range batch {
		if !req.canceled.Load() {
			req.cb()
		}
	}
	return true
}

// Stop drops queued requests and refuses new ones.
func (f *ScreenFrames) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
	f.queue = nil
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
}
