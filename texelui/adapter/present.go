// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: texelui/adapter/present.go
// Summary: Copies a rendered cell buffer onto a tcell screen.

package adapter

import (
	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/texelvlist/texelui/core"
)

// Present writes buf to screen and shows it. A zero rune is the trailing
// half of a wide glyph and is left to the glyph before it.
func Present(screen tcell.Screen, buf [][]core.Cell) {
	for y, row := range buf {
		for x, c := range row {
			if c.Ch == 0 {
				continue
			}
			screen.SetContent(x, y, c.Ch, nil, c.Style)
		}
	}
	screen.Show()
}
