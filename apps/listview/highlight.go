// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/listview/highlight.go
// Summary: Chroma syntax colouring of items into list rows.

package listview

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/texelvlist/texelui/core"
	"github.com/framegrace/texelvlist/texelui/widgets"
)

const defaultStyleName = "monokai"

// Highlighter turns item text into styled cell lines.
type Highlighter struct {
	style *chroma.Style
	base  tcell.Style
}

// NewHighlighter resolves styleName, falling back to the default style.
func NewHighlighter(styleName string) *Highlighter {
	if styleName == "" {
		styleName = defaultStyleName
	}
	return &Highlighter{style: styles.Get(styleName), base: tcell.StyleDefault}
}

// Lines tokenises text with the lexer for lang and returns one cell slice per
// source line, unwrapped.
func (h *Highlighter) Lines(text, lang string) [][]core.Cell {
	lexer := chroma.Coalesce(getLexer(lang, text))
	tokens, err := chroma.Tokenise(lexer, nil, text)
	if err != nil {
		return plainLines(text, h.base)
	}

	baseColour := h.style.Get(chroma.Text).Colour
	lines := [][]core.Cell{nil}
	for _, tok := range tokens {
		if tok.Type == chroma.EOFType {
			break
		}
		st := h.tokenStyle(h.style.Get(tok.Type), baseColour)
		parts := strings.Split(tok.Value, "\n")
		for i, part := range parts {
			if i > 0 {
				lines = append(lines, nil)
			}
			last := len(lines) - 1
			lines[last] = append(lines[last], widgets.StyledCells(part, st)...)
		}
	}
	// Lexers ensure a trailing newline; drop the empty row it adds.
	if n := len(lines); n > 1 && len(lines[n-1]) == 0 && !strings.HasSuffix(text, "\n") {
		lines = lines[:n-1]
	}
	return lines
}

func (h *Highlighter) tokenStyle(entry chroma.StyleEntry, baseColour chroma.Colour) tcell.Style {
	st := h.base
	if entry.Colour.IsSet() && entry.Colour != baseColour {
		st = st.Foreground(tcell.NewRGBColor(
			int32(entry.Colour.Red()), int32(entry.Colour.Green()), int32(entry.Colour.Blue())))
	}
	if entry.Bold == chroma.Yes {
		st = st.Bold(true)
	}
	if entry.Italic == chroma.Yes {
		st = st.Italic(true)
	}
	if entry.Underline == chroma.Yes {
		st = st.Underline(true)
	}
	return st
}

func plainLines(text string, st tcell.Style) [][]core.Cell {
	var lines [][]core.Cell
	for _, line := range strings.Split(text, "\n") {
		lines = append(lines, widgets.StyledCells(line, st))
	}
	return lines
}

// getLexer returns a Chroma lexer by name, or auto-detects from content.
func getLexer(name, text string) chroma.Lexer {
	if name != "" {
		if l := lexers.Get(name); l != nil {
			return l
		}
	}
	if l := lexers.Analyse(text); l != nil {
		return l
	}
	return lexers.Fallback
}

// CodeItem is a highlighted item; it wraps its lines at layout time.
type CodeItem struct {
	lines [][]core.Cell
}

// Item highlights e.
func (h *Highlighter) Item(e Entry) *CodeItem {
	return &CodeItem{lines: h.Lines(e.Content, e.Lang)}
}

// Layout implements widgets.ListItem.
func (c *CodeItem) Layout(width int) [][]core.Cell {
	var rows [][]core.Cell
	for _, line := range c.lines {
		rows = append(rows, widgets.WrapCells(line, width)...)
	}
	return rows
}
