// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: texelui/widgets/vlist.go
// Summary: VirtualList widget: a scrollable list of variable-height items that
// only lays out the items inside the viewport plus overscan.
// Usage: Feed it an ItemSource and the host's frame scheduler; forward
// NotifyItemCountChanged/InvalidateItem when the source changes.

package widgets

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/texelvlist/texelui/core"
	"github.com/framegrace/texelvlist/texelui/scroll"
	"github.com/framegrace/texelvlist/texelui/virtual"
)

// VirtualList renders an ItemSource through a virtual.Engine. Items are laid
// out when the engine paints them, and the row count becomes their measured
// height.
type VirtualList struct {
	core.BaseWidget
	Style          tcell.Style
	SelectedStyle  tcell.Style
	IndicatorStyle tcell.Style

	source   ItemSource
	engine   *virtual.Engine
	rows     map[int][][]core.Cell
	selected int
	inv      func(core.Rect)

	showIndicators  bool
	indicatorConfig scroll.IndicatorConfig

	// OnSelect, when set, runs after the selection moves.
	OnSelect func(index int)
}

// NewVirtualList creates a list over source with the given geometry.
func NewVirtualList(x, y, w, h int, source ItemSource, frames virtual.FrameScheduler, opts ...virtual.Option) *VirtualList {
	if source == nil {
		source = Items(nil)
	}
	vl := &VirtualList{
		Style:          tcell.StyleDefault,
		SelectedStyle:  tcell.StyleDefault.Reverse(true),
		IndicatorStyle: tcell.StyleDefault.Dim(true),
		source:         source,
		rows:           make(map[int][][]core.Cell),
		showIndicators: true,
	}
	vl.indicatorConfig = scroll.DefaultIndicatorConfig(vl.IndicatorStyle)
	vl.engine = virtual.NewEngine(source.Len(), frames, virtual.RendererFunc(vl.paint), opts...)
	vl.engine.OnFrame = vl.onFrame
	vl.SetFocusable(true)
	vl.SetPosition(x, y)
	vl.Resize(w, h)
	return vl
}

// Engine exposes the underlying engine.
func (vl *VirtualList) Engine() *virtual.Engine { return vl.engine }

// Source returns the item source.
func (vl *VirtualList) Source() ItemSource { return vl.source }

// SetSource replaces every item.
func (vl *VirtualList) SetSource(source ItemSource) {
	if source == nil {
		source = Items(nil)
	}
	vl.source = source
	clear(vl.rows)
	vl.selected = 0
	_ = vl.engine.NotifyItemCountChanged(source.Len(), 0)
}

// NotifyItemCountChanged forwards an insert/remove at editIndex to the engine.
func (vl *VirtualList) NotifyItemCountChanged(editIndex int) error {
	for i := range vl.rows {
		if i >= editIndex {
			delete(vl.rows, i)
		}
	}
	if err := vl.engine.NotifyItemCountChanged(vl.source.Len(), editIndex); err != nil {
		return err
	}
	if n := vl.source.Len(); vl.selected >= n {
		vl.selected = max(0, n-1)
	}
	return nil
}

// InvalidateItem marks an item whose content changed size.
func (vl *VirtualList) InvalidateItem(index int) error {
	delete(vl.rows, index)
	return vl.engine.Invalidate(index)
}

// ShowIndicators enables or disables the ▲/▼ markers.
func (vl *VirtualList) ShowIndicators(show bool) {
	if vl.showIndicators == show {
		return
	}
	vl.showIndicators = show
	vl.relayout()
}

// SetIndicatorConfig sets the indicator configuration.
func (vl *VirtualList) SetIndicatorConfig(config scroll.IndicatorConfig) {
	vl.indicatorConfig = config
}

// SetInvalidator implements core.InvalidationAware.
func (vl *VirtualList) SetInvalidator(fn func(core.Rect)) { vl.inv = fn }

func (vl *VirtualList) invalidate() {
	if vl.inv != nil {
		vl.inv(vl.Rect)
	}
}

// Unmount releases the engine; pending frames are cancelled.
func (vl *VirtualList) Unmount() {
	vl.engine.Unmount()
	clear(vl.rows)
}

// Resize updates the viewport. A width change reflows every item.
func (vl *VirtualList) Resize(w, h int) {
	oldW := vl.Rect.W
	vl.BaseWidget.Resize(w, h)
	if oldW != vl.Rect.W {
		vl.relayout()
	}
	vl.engine.OnResize(float64(vl.Rect.H))
}

func (vl *VirtualList) relayout() {
	clear(vl.rows)
	vl.engine.InvalidateAll()
}

// layoutWidth is the width items wrap at; the indicator column is reserved.
func (vl *VirtualList) layoutWidth() int {
	if vl.showIndicators {
		return max(1, vl.Rect.W-1)
	}
	return vl.Rect.W
}

// paint is the engine's renderer: lay the item out and report its rows.
func (vl *VirtualList) paint(index int, _ float64) float64 {
	item := vl.source.Item(index)
	if item == nil {
		vl.rows[index] = nil
		return 0
	}
	laid := item.Layout(vl.layoutWidth())
	vl.rows[index] = laid
	return float64(len(laid))
}

func (vl *VirtualList) onFrame(w virtual.RenderWindow) {
	for i := range vl.rows {
		if !w.Contains(i) {
			delete(vl.rows, i)
		}
	}
	vl.invalidate()
}

// ScrollState returns the list's position as scroll state in rows.
func (vl *VirtualList) ScrollState() scroll.State {
	vp := vl.engine.Viewport()
	return scroll.NewState(rows(vl.engine.TotalHeight()), vl.Rect.H).WithOffset(rows(vp.ScrollOffset))
}

func (vl *VirtualList) scrollTo(state scroll.State) {
	if rows(vl.engine.Viewport().ScrollOffset) == state.Offset {
		return
	}
	vl.engine.OnScroll(float64(state.Offset))
	vl.invalidate()
}

// ScrollBy scrolls by delta rows (positive = down).
func (vl *VirtualList) ScrollBy(delta int) { vl.scrollTo(vl.ScrollState().ScrollBy(delta)) }

// ScrollToTop scrolls to the first row.
func (vl *VirtualList) ScrollToTop() { vl.scrollTo(vl.ScrollState().ScrollToTop()) }

// ScrollToBottom scrolls to the last page.
func (vl *VirtualList) ScrollToBottom() { vl.scrollTo(vl.ScrollState().ScrollToBottom()) }

// Selected returns the selected item index.
func (vl *VirtualList) Selected() int { return vl.selected }

// Select moves the selection to index and scrolls it into view.
func (vl *VirtualList) Select(index int) {
	n := vl.source.Len()
	if n == 0 {
		return
	}
	index = min(max(0, index), n-1)
	changed := index != vl.selected
	vl.selected = index
	vl.EnsureVisible(index)
	vl.invalidate()
	if changed && vl.OnSelect != nil {
		vl.OnSelect(index)
	}
}

// EnsureVisible scrolls the minimum distance that shows item index. Items
// taller than the viewport are aligned to their first row.
func (vl *VirtualList) EnsureVisible(index int) {
	top := rows(vl.engine.OffsetOf(index))
	bottom := rows(vl.engine.OffsetOf(index + 1))
	state := vl.ScrollState()
	switch {
	case top < state.Offset:
		state = state.WithOffset(top)
	case bottom > state.Offset+state.ViewportHeight:
		state = state.WithOffset(min(top, bottom-state.ViewportHeight))
	}
	vl.scrollTo(state)
}

// ItemAt returns the item under screen row y, or -1.
func (vl *VirtualList) ItemAt(y int) int {
	if vl.source.Len() == 0 || y < vl.Rect.Y || y >= vl.Rect.Y+vl.Rect.H {
		return -1
	}
	content := vl.engine.Viewport().ScrollOffset + float64(y-vl.Rect.Y)
	if content >= vl.engine.TotalHeight() {
		return -1
	}
	return vl.engine.IndexAtOffset(content)
}

// Draw paints the rows laid out by the last frame.
func (vl *VirtualList) Draw(painter *core.Painter) {
	rect := vl.Rect
	painter.Fill(rect, ' ', vl.Style)
	clipped := painter.WithClip(rect)

	scrollOff := rows(vl.engine.Viewport().ScrollOffset)
	width := vl.layoutWidth()
	for _, entry := range vl.engine.Window().ItemOffsets {
		itemRows, ok := vl.rows[entry.Index]
		if !ok {
			continue
		}
		y0 := rect.Y + rows(entry.Offset) - scrollOff
		for r, row := range itemRows {
			y := y0 + r
			if y < rect.Y || y >= rect.Y+rect.H {
				continue
			}
			if entry.Index == vl.selected && vl.IsFocused() {
				clipped.Fill(core.Rect{X: rect.X, Y: y, W: width, H: 1}, ' ', vl.SelectedStyle)
				for x, c := range row[:min(len(row), width)] {
					clipped.SetCell(rect.X+x, y, c.Ch, vl.SelectedStyle)
				}
				continue
			}
			clipped.DrawCells(rect.X, y, row[:min(len(row), width)])
		}
	}

	if vl.showIndicators {
		state := vl.ScrollState()
		scroll.DrawThumb(painter, rect, state, vl.indicatorConfig, '┃')
		scroll.DrawIndicators(painter, rect, state, vl.indicatorConfig)
	}
}

// HandleKey moves the selection and scrolls.
func (vl *VirtualList) HandleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyUp:
		vl.Select(vl.selected - 1)
	case tcell.KeyDown:
		vl.Select(vl.selected + 1)
	case tcell.KeyPgUp:
		vl.ScrollBy(-vl.Rect.H)
		vl.selectTop()
	case tcell.KeyPgDn:
		vl.ScrollBy(vl.Rect.H)
		vl.selectTop()
	case tcell.KeyHome:
		vl.ScrollToTop()
		vl.Select(0)
	case tcell.KeyEnd:
		vl.ScrollToBottom()
		vl.Select(vl.source.Len() - 1)
	default:
		return false
	}
	return true
}

func (vl *VirtualList) selectTop() {
	if i := vl.ItemAt(vl.Rect.Y); i >= 0 {
		vl.selected = i
		if vl.OnSelect != nil {
			vl.OnSelect(i)
		}
	}
}

// HandleMouse scrolls on wheel and selects on click.
func (vl *VirtualList) HandleMouse(ev *tcell.EventMouse) bool {
	x, y := ev.Position()
	if !vl.HitTest(x, y) {
		return false
	}
	switch {
	case ev.Buttons()&tcell.WheelUp != 0:
		vl.ScrollBy(-3)
	case ev.Buttons()&tcell.WheelDown != 0:
		vl.ScrollBy(3)
	case ev.Buttons()&tcell.Button1 != 0:
		if i := vl.ItemAt(y); i >= 0 {
			vl.Select(i)
		}
	default:
		return false
	}
	return true
}

func rows(v float64) int {
	return int(math.Round(v))
}
