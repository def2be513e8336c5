// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/texelvlist/main.go
// Summary: texelvlist command: interactive item viewer plus import/probe tools.
// Usage: texelvlist [--db items.db] | texelvlist import FILE... | texelvlist probe

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/framegrace/texelvlist/apps/listview"
	"github.com/framegrace/texelvlist/config"
	"github.com/framegrace/texelvlist/internal/devshell"
	"github.com/framegrace/texelvlist/internal/logging"
	"github.com/framegrace/texelvlist/texelui/virtual"
)

// cli carries flag values and the logger shared by subcommands.
type cli struct {
	dbPath   string
	verbose  bool
	estimate float64
	overscan float64

	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{overscan: -1}
	root := &cobra.Command{
		Use:   "texelvlist",
		Short: "Browse a database of text snippets in a virtual list",
		Long: `texelvlist shows every item of its database in one scrolling list.
Items have different heights; only the items on screen are laid out.

Run without arguments to start the interactive viewer.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			interactive := cmd.Parent() == nil
			logger, err := logging.New(logging.Options{Debug: c.verbose, ToFile: interactive})
			if err != nil {
				return err
			}
			c.logger = logger
			config.SetLogger(logger)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInteractive()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.dbPath, "db", "", "item database (default from config, else the user cache dir)")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "debug logging")
	flags.Float64Var(&c.estimate, "estimate", 0, "height assumed for unmeasured items (overrides config)")
	flags.Float64Var(&c.overscan, "overscan", -1, "rows laid out beyond each viewport edge (overrides config)")

	root.AddCommand(c.importCmd(), c.probeCmd())
	return root
}

func (c *cli) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE...",
		Short: "Split files into paragraphs and add them to the database",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore()
			if err != nil {
				return err
			}
			defer store.Close()
			before := store.Len()
			if _, err := store.Import(args...); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d items (%d total)\n", store.Len()-before, store.Len())
			return nil
		},
	}
}

func (c *cli) probeCmd() *cobra.Command {
	var width, rows, scroll int
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Lay the list out headless and print the rendered window",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			frames := &virtual.ManualFrames{}
			app := listview.New(store, frames, c.listSettings(), c.engineOptions(), c.logger)
			defer app.Unmount()
			// The border takes one cell on every side.
			app.Resize(width+2, rows+2)
			frames.Settle(32)
			if scroll > 0 {
				app.List.ScrollBy(scroll)
				frames.Settle(32)
			}

			e := app.List.Engine()
			w, vp := e.Window(), e.Viewport()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "items %d total %g scroll %g viewport %g frames %d\n",
				e.Len(), e.TotalHeight(), vp.ScrollOffset, vp.ViewportSize, e.Frames())
			fmt.Fprintf(out, "window [%d,%d]\n", w.StartIndex, w.EndIndex)
			for _, entry := range w.ItemOffsets {
				rec := e.Height(entry.Index)
				fmt.Fprintf(out, "  %d offset %g height %g measured %t\n", entry.Index, entry.Offset, rec.Height, rec.Measured)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&width, "width", 80, "list width in columns")
	cmd.Flags().IntVar(&rows, "rows", 24, "viewport height in rows")
	cmd.Flags().IntVar(&scroll, "scroll", 0, "rows to scroll before printing")
	return cmd
}

func (c *cli) runInteractive() error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("interactive mode needs a terminal; use 'texelvlist probe' for headless output")
	}
	store, err := c.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	interval := config.System().VList().FrameInterval
	return devshell.Run(func(frames virtual.FrameScheduler) (devshell.Host, error) {
		return listview.New(store, frames, c.listSettings(), c.engineOptions(), c.logger), nil
	}, devshell.Options{FrameInterval: interval, Logger: c.logger})
}

func (c *cli) listSettings() config.ListViewSettings {
	return config.App(config.AppListView).ListView()
}

func (c *cli) engineOptions() []virtual.Option {
	s := config.System().VList()
	if c.estimate > 0 {
		s.DefaultEstimate = c.estimate
	}
	if c.overscan >= 0 {
		s.OverscanBefore, s.OverscanAfter = c.overscan, c.overscan
	}
	return listview.EngineOptions(s, c.logger)
}

func (c *cli) openStore() (*listview.Store, error) {
	path := c.dbPath
	if path == "" {
		path = c.listSettings().Database
	}
	if path == "" {
		dir, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
		path = filepath.Join(dir, "texelvlist", "items.db")
	}
	return listview.Open(path, c.logger)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
