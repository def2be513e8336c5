// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/listview/app.go
// Summary: List viewer application: a bordered VirtualList over an item Store.
// Usage: Build with New, add App.UI to a screen loop, and route store edits
// through the App so the list learns about them.

package listview

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/framegrace/texelvlist/config"
	"github.com/framegrace/texelvlist/texelui/core"
	"github.com/framegrace/texelvlist/texelui/virtual"
	"github.com/framegrace/texelvlist/texelui/widgets"
)

// EngineOptions maps the vlist config section onto engine options.
func EngineOptions(s config.VListSettings, logger *zap.Logger) []virtual.Option {
	return []virtual.Option{
		virtual.WithEstimate(s.DefaultEstimate),
		virtual.WithOverscan(s.OverscanBefore, s.OverscanAfter),
		virtual.WithJitterThreshold(s.JitterThreshold),
		virtual.WithEpsilon(s.Epsilon),
		virtual.WithLogger(logger),
	}
}

// storeSource adapts a Store to widgets.ItemSource and memoises highlighting
// per item id.
type storeSource struct {
	store  *Store
	hl     *Highlighter
	logger *zap.Logger
	items  map[int64]*CodeItem
}

func (s *storeSource) Len() int { return s.store.Len() }

func (s *storeSource) Item(index int) widgets.ListItem {
	e, err := s.store.Item(index)
	if err != nil {
		s.logger.Warn("item unavailable", zap.Int("index", index), zap.Error(err))
		return nil
	}
	if item, ok := s.items[e.ID]; ok {
		return item
	}
	if len(s.items) >= maxCached {
		clear(s.items)
	}
	item := s.hl.Item(e)
	s.items[e.ID] = item
	return item
}

func (s *storeSource) forget(id int64) { delete(s.items, id) }

// App is the list viewer.
type App struct {
	UI     *core.UIManager
	List   *widgets.VirtualList
	Border *widgets.Border

	store  *Store
	source *storeSource
	logger *zap.Logger
}

// New builds the viewer over store. frames drives the list engine.
func New(store *Store, frames virtual.FrameScheduler, settings config.ListViewSettings, opts []virtual.Option, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	src := &storeSource{
		store:  store,
		hl:     NewHighlighter(settings.Style),
		logger: logger,
		items:  make(map[int64]*CodeItem),
	}
	a := &App{
		UI:     core.NewUIManager(tcell.StyleDefault),
		store:  store,
		source: src,
		logger: logger,
	}
	a.List = widgets.NewVirtualList(0, 0, 0, 0, src, frames, opts...)
	a.List.ShowIndicators(settings.ShowIndicators)
	a.List.OnSelect = func(int) { a.updateStatus() }

	a.Border = widgets.NewBorder(0, 0, 0, 0, tcell.StyleDefault)
	a.Border.Title = "items"
	a.Border.SetChild(a.List)
	a.UI.AddWidget(a.Border)
	a.UI.Focus(a.Border)
	a.updateStatus()
	return a
}

// Resize lays the viewer out over the whole surface.
func (a *App) Resize(w, h int) {
	a.UI.Resize(w, h)
	a.Border.SetPosition(0, 0)
	a.Border.Resize(w, h)
}

func (a *App) updateStatus() {
	n := a.store.Len()
	if n == 0 {
		a.Border.Status = "empty"
		return
	}
	a.Border.Status = fmt.Sprintf("%d/%d", a.List.Selected()+1, n)
}

// Import loads files into the store and shows the new items.
func (a *App) Import(paths ...string) error {
	edit, err := a.store.Import(paths...)
	if err != nil {
		return err
	}
	return a.changed(edit)
}

// Append adds one item at the end.
func (a *App) Append(content, lang string) error {
	edit, err := a.store.Append(content, lang)
	if err != nil {
		return err
	}
	return a.changed(edit)
}

// DeleteSelected removes the selected item.
func (a *App) DeleteSelected() error {
	i := a.List.Selected()
	e, err := a.store.Item(i)
	if err != nil {
		return err
	}
	if err := a.store.Delete(i); err != nil {
		return err
	}
	a.source.forget(e.ID)
	return a.changed(i)
}

func (a *App) changed(edit int) error {
	if err := a.List.NotifyItemCountChanged(edit); err != nil {
		return err
	}
	a.logger.Debug("items changed", zap.Int("edit", edit), zap.Int("len", a.store.Len()))
	a.updateStatus()
	a.UI.Invalidate(a.Border.Rect)
	return nil
}

// HandleKey handles viewer commands and forwards the rest to the UI.
func (a *App) HandleKey(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyDelete || (ev.Key() == tcell.KeyRune && ev.Rune() == 'd') {
		if err := a.DeleteSelected(); err != nil {
			a.logger.Warn("delete failed", zap.Error(err))
		}
		return true
	}
	return a.UI.HandleKey(ev)
}

// Unmount releases the list engine.
func (a *App) Unmount() {
	a.UI.RemoveWidget(a.Border)
}

// HandleMouse forwards mouse input to the UI.
func (a *App) HandleMouse(ev *tcell.EventMouse) bool { return a.UI.HandleMouse(ev) }

// Render composes the UI.
func (a *App) Render() [][]core.Cell { return a.UI.Render() }

// Dirty reports whether Render would change the screen.
func (a *App) Dirty() bool { return a.UI.Dirty() }
