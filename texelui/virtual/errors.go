// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: texelui/virtual/errors.go
// Summary: Error values shared by the virtual list engine.

package virtual

import (
	"errors"
	"fmt"
)

var (
	// ErrIndexOutOfRange reports an item index at or beyond the current item
	// count. Seeing it means the host missed a NotifyItemCountChanged call.
	ErrIndexOutOfRange = errors.New("virtual: index out of range")

	// ErrInvalidHeight reports a negative, NaN or infinite height.
	ErrInvalidHeight = errors.New("virtual: invalid height")

	// ErrInvalidEdit reports an item count notification that cannot be applied.
	ErrInvalidEdit = errors.New("virtual: invalid item count change")
)

// IndexOutOfRangeError carries the offending index and the count it was checked against.
type IndexOutOfRangeError struct {
	Index int
	Count int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("virtual: index %d out of range [0,%d)", e.Index, e.Count)
}

// Is makes errors.Is(err, ErrIndexOutOfRange) match.
func (e *IndexOutOfRangeError) Is(target error) bool {
	return target == ErrIndexOutOfRange
}
