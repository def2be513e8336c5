// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package widgets

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/texelvlist/texelui/core"
)

func rowText(row []core.Cell) string {
	var out []rune
	for _, c := range row {
		if c.Ch != 0 {
			out = append(out, c.Ch)
		}
	}
	return string(out)
}

func TestTextItemWraps(t *testing.T) {
	item := NewTextItem("abcdefghij\n\nxy", tcell.StyleDefault)
	rows := item.Layout(4)
	want := []string{"abcd", "efgh", "ij", "", "xy"}
	if len(rows) != len(want) {
		t.Fatalf("got %d rows, want %d", len(rows), len(want))
	}
	for i, w := range want {
		if got := rowText(rows[i]); got != w {
			t.Fatalf("row %d = %q, want %q", i, got, w)
		}
	}
}

func TestWrapCellsKeepsWideRunesWhole(t *testing.T) {
	cells := StyledCells("a世界", tcell.StyleDefault)
	if len(cells) != 5 {
		t.Fatalf("expected 5 cells, got %d", len(cells))
	}
	rows := WrapCells(cells, 2)
	// "a" + half of 世 would split the glyph; it moves to the next row.
	if len(rows) != 3 || rowText(rows[0]) != "a" || rowText(rows[1]) != "世" || rowText(rows[2]) != "界" {
		t.Fatalf("unexpected rows %q %q", rowText(rows[0]), rowText(rows[1]))
	}
}

func TestStyledCellsExpandsTabs(t *testing.T) {
	cells := StyledCells("\tx", tcell.StyleDefault)
	if len(cells) != 5 || cells[4].Ch != 'x' {
		t.Fatalf("tab not expanded: %d cells", len(cells))
	}
}

func TestWrapCellsZeroWidth(t *testing.T) {
	rows := WrapCells(StyledCells("hello", tcell.StyleDefault), 0)
	if len(rows) != 1 || rowText(rows[0]) != "hello" {
		t.Fatalf("zero width should not wrap")
	}
}

func TestItemsOutOfRange(t *testing.T) {
	items := Items{NewTextItem("x", tcell.StyleDefault)}
	if items.Item(-1) != nil || items.Item(1) != nil {
		t.Fatalf("out of range item not nil")
	}
}
