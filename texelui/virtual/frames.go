// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: texelui/virtual/frames.go
// Summary: Host frame-callback contract and a manually pumped implementation.

package virtual

// CancelFunc cancels a requested frame. Calling it after the frame ran, or
// more than once, is a no-op.
type CancelFunc func()

// FrameScheduler is the host's animation-frame primitive. The callback must
// run on the same goroutine that drives the engine.
type FrameScheduler interface {
	RequestFrame(cb func()) CancelFunc
}

// ManualFrames queues callbacks until Flush is called. Useful for tests and
// for headless hosts that drive frames themselves.
type ManualFrames struct {
	queue []*manualFrame
	ran   int
}

type manualFrame struct {
	cb       func()
	canceled bool
}

// RequestFrame implements FrameScheduler.
func (m *ManualFrames) RequestFrame(cb func()) CancelFunc {
	f := &manualFrame{cb: cb}
	m.queue = append(m.queue, f)
	return func() { f.canceled = true }
}

// Pending returns the number of queued, uncancelled frames.
func (m *ManualFrames) Pending() int {
	n := 0
	for _, f := range m.queue {
		if !f.canceled {
			n++
		}
	}
	return n
}

// Ran returns how many frame callbacks have executed.
func (m *ManualFrames) Ran() int {
	return m.ran
}

// Flush runs the callbacks queued so far. Frames requested while flushing
// wait for the next Flush, the same way a browser defers them to the next
// animation frame. Returns the number of callbacks run.
func (m *ManualFrames) Flush() int {
	queue := m.queue
	m.queue = nil
	n := 0
	for _, f := range queue {
		if f.canceled {
			continue
		}
		f.canceled = true
		f.cb()
		n++
	}
	m.ran += n
	return n
}

// Settle flushes until no frames remain or limit flushes have run.
// Returns the number of flushes performed.
func (m *ManualFrames) Settle(limit int) int {
	i := 0
	for ; i < limit && m.Pending() > 0; i++ {
		m.Flush()
	}
	return i
}
