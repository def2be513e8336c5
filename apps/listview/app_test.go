// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package listview

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/framegrace/texelvlist/config"
	"github.com/framegrace/texelvlist/texelui/core"
	"github.com/framegrace/texelvlist/texelui/virtual"
)

func bufRow(buf [][]core.Cell, y int) string {
	return strings.TrimRight(cellsText(buf[y]), " ")
}

func newTestApp(t *testing.T, texts ...string) (*App, *virtual.ManualFrames) {
	t.Helper()
	s, _ := openTestStore(t)
	for _, text := range texts {
		if _, err := s.Append(text, ""); err != nil {
			t.Fatal(err)
		}
	}
	frames := &virtual.ManualFrames{}
	settings := config.ListViewSettings{Style: "monokai", ShowIndicators: true}
	opts := EngineOptions(config.Config{}.VList(), zap.NewNop())
	a := New(s, frames, settings, opts, nil)
	a.Resize(30, 6)
	frames.Settle(10)
	return a, frames
}

func TestEngineOptionsFromConfig(t *testing.T) {
	cfg := config.Config{config.SectionVList: map[string]interface{}{
		"default_estimate": 3.0,
		"overscan_before":  2.0,
	}}
	e := virtual.NewEngine(0, nil, nil, EngineOptions(cfg.VList(), nil)...)
	o := e.Options()
	if o.DefaultEstimate != 3 || o.Overscan.Before != 2 || o.Overscan.After != 8 {
		t.Fatalf("unexpected options %+v", o)
	}
}

func TestAppRendersItems(t *testing.T) {
	a, _ := newTestApp(t, "alpha", "beta\ngamma", "delta")
	buf := a.UI.Render()
	if got := bufRow(buf, 1); !strings.HasPrefix(got, "│alpha") {
		t.Fatalf("row 1 = %q", got)
	}
	if got := bufRow(buf, 3); !strings.HasPrefix(got, "│gamma") {
		t.Fatalf("row 3 = %q", got)
	}
	if a.Border.Status != "1/3" {
		t.Fatalf("status = %q", a.Border.Status)
	}
}

func TestAppEditsReachList(t *testing.T) {
	a, frames := newTestApp(t, "one", "two")
	if err := a.Append("three\nlines\nhere", ""); err != nil {
		t.Fatalf("Append: %v", err)
	}
	frames.Settle(10)
	if a.List.Engine().Len() != 3 || a.List.Engine().TotalHeight() != 5 {
		t.Fatalf("len %d total %v", a.List.Engine().Len(), a.List.Engine().TotalHeight())
	}
	if a.Border.Status != "1/3" {
		t.Fatalf("status = %q", a.Border.Status)
	}

	a.HandleKey(tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone))
	a.HandleKey(tcell.NewEventKey(tcell.KeyRune, 'd', tcell.ModNone))
	frames.Settle(10)
	if a.List.Engine().Len() != 2 || a.List.Engine().TotalHeight() != 4 {
		t.Fatalf("after delete: len %d total %v", a.List.Engine().Len(), a.List.Engine().TotalHeight())
	}
	buf := a.UI.Render()
	if got := bufRow(buf, 2); !strings.HasPrefix(got, "│three") {
		t.Fatalf("row 2 = %q", got)
	}
}

func TestAppDeleteOnEmptyStore(t *testing.T) {
	a, _ := newTestApp(t)
	if err := a.DeleteSelected(); err == nil {
		t.Fatalf("expected error deleting from empty store")
	}
	if a.Border.Status != "empty" {
		t.Fatalf("status = %q", a.Border.Status)
	}
}

func TestAppUnmount(t *testing.T) {
	a, frames := newTestApp(t, "x")
	a.Unmount()
	a.List.ScrollBy(1)
	if frames.Pending() != 0 || a.List.Engine().Live() {
		t.Fatalf("engine still live after unmount")
	}
}
