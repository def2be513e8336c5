// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: texelui/core/painter.go
// Summary: Clip-aware writer over a cell buffer.

package core

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Painter writes cells into a buffer, dropping anything outside its clip.
type Painter struct {
	buf  [][]Cell
	clip Rect
}

// NewPainter returns a painter over buf limited to clip.
func NewPainter(buf [][]Cell, clip Rect) *Painter {
	return &Painter{buf: buf, clip: clip}
}

// Clip returns the active clip rectangle.
func (p *Painter) Clip() Rect { return p.clip }

// WithClip returns a painter sharing the buffer, clipped to the overlap of
// the current clip and r.
func (p *Painter) WithClip(r Rect) *Painter {
	return &Painter{buf: p.buf, clip: p.clip.Intersect(r)}
}

// SetCell writes one cell if it is inside the clip and the buffer.
func (p *Painter) SetCell(x, y int, ch rune, style tcell.Style) {
	if !p.clip.Contains(x, y) {
		return
	}
	if y < 0 || y >= len(p.buf) || x < 0 || x >= len(p.buf[y]) {
		return
	}
	p.buf[y][x] = Cell{Ch: ch, Style: style}
}

// Fill sets every cell of r to ch.
func (p *Painter) Fill(r Rect, ch rune, style tcell.Style) {
	r = r.Intersect(p.clip)
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			p.SetCell(x, y, ch, style)
		}
	}
}

// DrawText writes s starting at (x, y) and returns the column after the
// last rune. Wide runes occupy two columns.
func (p *Painter) DrawText(x, y int, s string, style tcell.Style) int {
	for _, r := range s {
		p.SetCell(x, y, r, style)
		w := runewidth.RuneWidth(r)
		if w == 2 {
			p.SetCell(x+1, y, 0, style)
		}
		x += max(w, 1)
	}
	return x
}

// DrawCells writes a prepared row of cells starting at (x, y).
func (p *Painter) DrawCells(x, y int, cells []Cell) {
	for i, c := range cells {
		p.SetCell(x+i, y, c.Ch, c.Style)
	}
}
