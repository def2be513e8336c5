// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package widgets

import (
	"fmt"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/texelvlist/texelui/core"
	"github.com/framegrace/texelvlist/texelui/virtual"
)

// growSource lets tests mutate the item set behind a list.
type growSource struct{ items Items }

func (s *growSource) Len() int                { return len(s.items) }
func (s *growSource) Item(index int) ListItem { return s.items.Item(index) }

// stackedItems returns n items where item i has i%3+1 lines "i.k".
func stackedItems(n int) Items {
	items := make(Items, n)
	for i := range items {
		lines := make([]string, i%3+1)
		for k := range lines {
			lines[k] = fmt.Sprintf("%d.%d", i, k)
		}
		items[i] = NewTextItem(strings.Join(lines, "\n"), tcell.StyleDefault)
	}
	return items
}

func singleLineItems(n int) Items {
	items := make(Items, n)
	for i := range items {
		items[i] = NewTextItem(fmt.Sprintf("item %d", i), tcell.StyleDefault)
	}
	return items
}

func drawList(vl *VirtualList) [][]core.Cell {
	w, h := vl.Size()
	buf := make([][]core.Cell, h)
	for y := range buf {
		buf[y] = make([]core.Cell, w)
	}
	vl.Draw(core.NewPainter(buf, core.Rect{W: w, H: h}))
	return buf
}

func screenRows(buf [][]core.Cell) []string {
	out := make([]string, len(buf))
	for y, row := range buf {
		out[y] = strings.TrimRight(rowText(row), " ")
	}
	return out
}

func newTestList(src ItemSource, w, h int) (*VirtualList, *virtual.ManualFrames) {
	frames := &virtual.ManualFrames{}
	vl := NewVirtualList(0, 0, w, h, src, frames)
	vl.ShowIndicators(false)
	frames.Settle(10)
	return vl, frames
}

func TestVirtualListDrawsMeasuredRows(t *testing.T) {
	vl, frames := newTestList(stackedItems(30), 10, 5)
	if frames.Pending() != 0 {
		t.Fatalf("list did not settle")
	}
	got := screenRows(drawList(vl))
	want := []string{"0.0", "1.0", "1.1", "2.0", "2.1"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row %d = %q, want %q (all %q)", i, got[i], want[i], got)
		}
	}
	if w := vl.Engine().Window(); w.StartIndex != 0 || w.EndIndex != 2 {
		t.Fatalf("window = [%d,%d], want [0,2]", w.StartIndex, w.EndIndex)
	}
	if n := len(vl.rows); n != 3 {
		t.Fatalf("row cache holds %d items, want 3", n)
	}
}

func TestVirtualListScrollBy(t *testing.T) {
	vl, frames := newTestList(stackedItems(30), 10, 5)
	vl.ScrollBy(4)
	frames.Settle(10)

	if got := vl.ScrollState().Offset; got != 4 {
		t.Fatalf("offset = %d, want 4", got)
	}
	got := screenRows(drawList(vl))
	want := []string{"2.1", "2.2", "3.0", "4.0", "4.1"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row %d = %q, want %q (all %q)", i, got[i], want[i], got)
		}
	}
	if vl.ItemAt(2) != 3 || vl.ItemAt(5) != -1 {
		t.Fatalf("ItemAt mismatch: %d %d", vl.ItemAt(2), vl.ItemAt(5))
	}
}

func TestVirtualListKeyboardSelection(t *testing.T) {
	vl, frames := newTestList(singleLineItems(50), 12, 5)
	vl.Focus()
	var selected []int
	vl.OnSelect = func(i int) { selected = append(selected, i) }

	down := tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone)
	for i := 0; i < 6; i++ {
		vl.HandleKey(down)
	}
	frames.Settle(10)
	if vl.Selected() != 6 || len(selected) != 6 {
		t.Fatalf("selected = %d after %d callbacks", vl.Selected(), len(selected))
	}
	if got := vl.ScrollState().Offset; got != 2 {
		t.Fatalf("offset = %d, want 2", got)
	}
	buf := drawList(vl)
	if rowText(buf[4][:6]) != "item 6" || buf[4][0].Style != vl.SelectedStyle {
		t.Fatalf("selected row not highlighted at the bottom")
	}

	vl.HandleKey(tcell.NewEventKey(tcell.KeyEnd, 0, tcell.ModNone))
	frames.Settle(10)
	if vl.Selected() != 49 || vl.ItemAt(4) != 49 {
		t.Fatalf("End: selected %d, bottom item %d", vl.Selected(), vl.ItemAt(4))
	}

	vl.HandleKey(tcell.NewEventKey(tcell.KeyHome, 0, tcell.ModNone))
	frames.Settle(10)
	if vl.Selected() != 0 || vl.ScrollState().Offset != 0 {
		t.Fatalf("Home: selected %d, offset %d", vl.Selected(), vl.ScrollState().Offset)
	}

	if vl.HandleKey(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)) {
		t.Fatalf("rune key consumed")
	}
}

func TestVirtualListMouse(t *testing.T) {
	vl, frames := newTestList(singleLineItems(50), 12, 5)
	vl.HandleMouse(tcell.NewEventMouse(1, 1, tcell.WheelDown, tcell.ModNone))
	frames.Settle(10)
	if got := vl.ScrollState().Offset; got != 3 {
		t.Fatalf("offset after wheel = %d, want 3", got)
	}
	vl.HandleMouse(tcell.NewEventMouse(1, 2, tcell.Button1, tcell.ModNone))
	if vl.Selected() != 5 {
		t.Fatalf("click selected %d, want 5", vl.Selected())
	}
	if vl.HandleMouse(tcell.NewEventMouse(40, 2, tcell.Button1, tcell.ModNone)) {
		t.Fatalf("click outside consumed")
	}
}

func TestVirtualListWidthChangeReflows(t *testing.T) {
	src := Items{NewTextItem("abcdefghijkl", tcell.StyleDefault)}
	vl, frames := newTestList(src, 10, 5)
	if got := vl.Engine().TotalHeight(); got != 2 {
		t.Fatalf("total at width 10 = %v, want 2", got)
	}
	vl.Resize(20, 5)
	frames.Settle(10)
	if got := vl.Engine().TotalHeight(); got != 1 {
		t.Fatalf("total at width 20 = %v, want 1", got)
	}
}

func TestVirtualListItemCountChanged(t *testing.T) {
	src := &growSource{items: singleLineItems(2)}
	vl, frames := newTestList(src, 12, 5)

	src.items = append(src.items, NewTextItem("new\nitem", tcell.StyleDefault))
	if err := vl.NotifyItemCountChanged(2); err != nil {
		t.Fatalf("NotifyItemCountChanged: %v", err)
	}
	frames.Settle(10)
	if vl.Engine().Len() != 3 || vl.Engine().TotalHeight() != 4 {
		t.Fatalf("len %d total %v", vl.Engine().Len(), vl.Engine().TotalHeight())
	}
	got := screenRows(drawList(vl))
	if got[2] != "new" || got[3] != "item" {
		t.Fatalf("rows = %q", got)
	}

	vl.Select(2)
	src.items = src.items[:1]
	if err := vl.NotifyItemCountChanged(1); err != nil {
		t.Fatalf("NotifyItemCountChanged: %v", err)
	}
	if vl.Selected() != 0 {
		t.Fatalf("selection not clamped: %d", vl.Selected())
	}
}

func TestVirtualListUnmount(t *testing.T) {
	vl, frames := newTestList(singleLineItems(10), 12, 5)
	vl.Unmount()
	vl.ScrollBy(2)
	vl.Resize(12, 8)
	if frames.Pending() != 0 || vl.Engine().Live() {
		t.Fatalf("unmounted list scheduled frames")
	}
}

func TestVirtualListIndicators(t *testing.T) {
	frames := &virtual.ManualFrames{}
	vl := NewVirtualList(0, 0, 10, 3, singleLineItems(20), frames)
	frames.Settle(10)
	vl.ScrollBy(5)
	frames.Settle(10)
	buf := drawList(vl)
	cfg := vl.indicatorConfig
	if buf[0][9].Ch != cfg.UpGlyph || buf[2][9].Ch != cfg.DownGlyph {
		t.Fatalf("indicators missing: %q %q", buf[0][9].Ch, buf[2][9].Ch)
	}
}
