// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: texelui/virtual/options.go
// Summary: Engine configuration and functional options.

package virtual

import "go.uber.org/zap"

// Overscan is the extra distance rendered above and below the viewport.
type Overscan struct {
	Before float64
	After  float64
}

// Options configures an Engine.
type Options struct {
	// DefaultEstimate is the height assumed for items that were never measured.
	DefaultEstimate float64

	// Overscan extends the rendered window beyond the visible viewport.
	Overscan Overscan

	// JitterThreshold is the minimum drift of the window's first item that
	// makes the reconciler resnap the scroll offset.
	JitterThreshold float64

	// Epsilon is the smallest height change treated as a real change.
	Epsilon float64

	Logger *zap.Logger
}

// DefaultOptions returns the settings used when no option overrides them.
func DefaultOptions() Options {
	return Options{
		DefaultEstimate: 1,
		Overscan:        Overscan{Before: 0, After: 0},
		JitterThreshold: 1,
		Epsilon:         0.5,
		Logger:          zap.NewNop(),
	}
}

// Option mutates Options during engine construction.
type Option func(*Options)

// WithEstimate sets the default height estimate. Negative values are ignored.
func WithEstimate(h float64) Option {
	return func(o *Options) {
		if validHeight(h) {
			o.DefaultEstimate = h
		}
	}
}

// WithOverscan sets the overscan distances. Negative values clamp to zero.
func WithOverscan(before, after float64) Option {
	return func(o *Options) {
		o.Overscan = Overscan{Before: max(0, before), After: max(0, after)}
	}
}

// WithJitterThreshold sets the resnap threshold.
func WithJitterThreshold(t float64) Option {
	return func(o *Options) {
		o.JitterThreshold = max(0, t)
	}
}

// WithEpsilon sets the height comparison tolerance.
func WithEpsilon(eps float64) Option {
	return func(o *Options) {
		o.Epsilon = max(0, eps)
	}
}

// WithLogger routes engine diagnostics to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) {
		if logger != nil {
			o.Logger = logger
		}
	}
}

// WithOptions replaces every setting at once, typically with values loaded from config.
func WithOptions(opts Options) Option {
	return func(o *Options) {
		logger := o.Logger
		*o = opts
		if o.Logger == nil {
			o.Logger = logger
		}
		if !validHeight(o.DefaultEstimate) {
			o.DefaultEstimate = DefaultOptions().DefaultEstimate
		}
		o.Overscan.Before = max(0, o.Overscan.Before)
		o.Overscan.After = max(0, o.Overscan.After)
		o.JitterThreshold = max(0, o.JitterThreshold)
		o.Epsilon = max(0, o.Epsilon)
	}
}
