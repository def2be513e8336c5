// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: texelui/widgets/item.go
// Summary: Item contracts for VirtualList and a word-agnostic wrapping text item.

package widgets

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/framegrace/texelvlist/texelui/core"
)

// ListItem is one entry of a VirtualList. The number of rows Layout returns
// is the item's measured height.
type ListItem interface {
	Layout(width int) [][]core.Cell
}

// ItemSource supplies list items by index.
type ItemSource interface {
	Len() int
	Item(index int) ListItem
}

// Items is an in-memory ItemSource.
type Items []ListItem

func (s Items) Len() int { return len(s) }

func (s Items) Item(index int) ListItem {
	if index < 0 || index >= len(s) {
		return nil
	}
	return s[index]
}

// TextItem is plain text wrapped at the list width. Embedded newlines start
// new rows; an empty line still takes one row.
type TextItem struct {
	Text  string
	Style tcell.Style
}

// NewTextItem returns a text item drawn in style.
func NewTextItem(text string, style tcell.Style) *TextItem {
	return &TextItem{Text: text, Style: style}
}

// Layout implements ListItem.
func (t *TextItem) Layout(width int) [][]core.Cell {
	var rows [][]core.Cell
	for _, line := range strings.Split(t.Text, "\n") {
		rows = append(rows, WrapCells(StyledCells(line, t.Style), width)...)
	}
	return rows
}

// StyledCells converts s to cells in one style. Wide runes are followed by
// a zero placeholder cell so cell index equals column.
func StyledCells(s string, style tcell.Style) []core.Cell {
	cells := make([]core.Cell, 0, len(s))
	for _, r := range s {
		if r == '\t' {
			for i := 0; i < 4; i++ {
				cells = append(cells, core.Cell{Ch: ' ', Style: style})
			}
			continue
		}
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		cells = append(cells, core.Cell{Ch: r, Style: style})
		if w == 2 {
			cells = append(cells, core.Cell{Ch: 0, Style: style})
		}
	}
	return cells
}

// WrapCells splits one logical line into rows of at most width columns.
// Wide runes are never split across rows. A zero width disables wrapping.
func WrapCells(cells []core.Cell, width int) [][]core.Cell {
	if len(cells) == 0 {
		return [][]core.Cell{nil}
	}
	if width <= 0 {
		return [][]core.Cell{cells}
	}
	var rows [][]core.Cell
	for len(cells) > width {
		cut := width
		// Keep a wide rune with its placeholder.
		if cells[cut].Ch == 0 && cut > 1 {
			cut--
		}
		rows = append(rows, cells[:cut])
		cells = cells[cut:]
	}
	return append(rows, cells)
}
