// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: texelui/widgets/border.go
// Summary: Frame with an optional title around a single child widget.

package widgets

import (
	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/texelvlist/texelui/core"
)

// Border draws a border around its Rect and can optionally have a child rendered inside.
// Input, focus and invalidation are passed through to the child.
type Border struct {
	core.BaseWidget
	Style   tcell.Style
	Charset [6]rune // h, v, tl, tr, bl, br
	Child   core.Widget
	Title   string
	Status  string // right-aligned on the bottom edge
}

func NewBorder(x, y, w, h int, style tcell.Style) *Border {
	b := &Border{Style: style}
	b.Charset = [6]rune{'─', '│', '┌', '┐', '└', '┘'}
	b.SetPosition(x, y)
	b.Resize(w, h)
	b.SetFocusable(true)
	return b
}

func (b *Border) ClientRect() core.Rect {
	r := b.Rect
	if r.W < 2 || r.H < 2 {
		return core.Rect{X: r.X, Y: r.Y, W: 0, H: 0}
	}
	return core.Rect{X: r.X + 1, Y: r.Y + 1, W: r.W - 2, H: r.H - 2}
}

func (b *Border) SetChild(w core.Widget) {
	b.Child = w
	b.layoutChild()
}

func (b *Border) SetPosition(x, y int) {
	b.BaseWidget.SetPosition(x, y)
	b.layoutChild()
}

func (b *Border) Resize(w, h int) {
	b.BaseWidget.Resize(w, h)
	b.layoutChild()
}

func (b *Border) layoutChild() {
	if b.Child == nil {
		return
	}
	cr := b.ClientRect()
	b.Child.SetPosition(cr.X, cr.Y)
	b.Child.Resize(cr.W, cr.H)
}

func (b *Border) Focus() {
	b.BaseWidget.Focus()
	if b.Child != nil {
		b.Child.Focus()
	}
}

func (b *Border) Blur() {
	b.BaseWidget.Blur()
	if b.Child != nil {
		b.Child.Blur()
	}
}

func (b *Border) HandleKey(ev *tcell.EventKey) bool {
	return b.Child != nil && b.Child.HandleKey(ev)
}

func (b *Border) HandleMouse(ev *tcell.EventMouse) bool {
	if ma, ok := b.Child.(core.MouseAware); ok {
		return ma.HandleMouse(ev)
	}
	return false
}

func (b *Border) SetInvalidator(fn func(core.Rect)) {
	if ia, ok := b.Child.(core.InvalidationAware); ok {
		ia.SetInvalidator(func(core.Rect) { fn(b.Rect) })
	}
}

func (b *Border) Unmount() {
	if um, ok := b.Child.(core.Unmountable); ok {
		um.Unmount()
	}
}

func (b *Border) Draw(p *core.Painter) {
	r := b.Rect
	if r.W < 2 || r.H < 2 {
		return
	}
	h, v, tl, tr, bl, br := b.Charset[0], b.Charset[1], b.Charset[2], b.Charset[3], b.Charset[4], b.Charset[5]
	x1, y1 := r.X+r.W-1, r.Y+r.H-1
	for x := r.X + 1; x < x1; x++ {
		p.SetCell(x, r.Y, h, b.Style)
		p.SetCell(x, y1, h, b.Style)
	}
	for y := r.Y + 1; y < y1; y++ {
		p.SetCell(r.X, y, v, b.Style)
		p.SetCell(x1, y, v, b.Style)
	}
	p.SetCell(r.X, r.Y, tl, b.Style)
	p.SetCell(x1, r.Y, tr, b.Style)
	p.SetCell(r.X, y1, bl, b.Style)
	p.SetCell(x1, y1, br, b.Style)

	edge := p.WithClip(core.Rect{X: r.X + 1, Y: r.Y, W: r.W - 2, H: r.H})
	if b.Title != "" {
		edge.DrawText(r.X+2, r.Y, " "+b.Title+" ", b.Style)
	}
	if b.Status != "" {
		edge.DrawText(x1-2-len([]rune(b.Status)), y1, " "+b.Status+" ", b.Style)
	}
	if b.Child != nil {
		b.Child.Draw(p)
	}
}
