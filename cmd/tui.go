// SPDX-License-Identifier: GPL-3.0-only
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/bascanada/seclog/pkg/asset"
	"github.com/bascanada/seclog/pkg/log"
	"github.com/bascanada/seclog/pkg/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var (
	initialClauses []string
	watchAssets    bool
)

var tuiCmd = &cobra.Command{
	Use:     "tui",
	Aliases: []string{"ui", "search"},
	Short:   "Launch the interactive search bar",
	Long: `Launch an interactive Terminal User Interface to build a search with
the inline query builder.

The TUI provides:
  - Clause editing with suggestions for fields, expressions and values
  - Tab completion and ghost text of the active suggestion
  - Local clauses evaluated on the loaded entries (Ctrl+l)
  - Live reload of the asset file feeding the suggestions

Examples:
  # Launch the TUI with the current catalog
  seclog tui

  # Filter a log file while building the search
  seclog tui --entries firewall.log

  # Start with clauses already committed
  seclog tui --catalog network -q "protocol = TCP" -q "action in deny, drop"`,
	PreRun: onCommandStart,
	Run:    runTUI,
}

func init() {
	tuiCmd.Flags().StringArrayVarP(&initialClauses, "query", "q", []string{}, "Clause committed at startup")
	tuiCmd.Flags().BoolVar(&watchAssets, "watch", true, "Reload the asset file when it changes")
	addEntriesFlags(tuiCmd)
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) {
	s, err := loadSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading catalog: %v\n", err)
		fmt.Fprintln(os.Stderr, "Tip: Run 'seclog configure' to set up a catalog.")
		os.Exit(1)
	}

	entries, err := readEntries()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading entries: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	var events chan tui.AssetsReloadedMsg
	if path := s.Catalog.AssetPath(); watchAssets && path != "" {
		events = make(chan tui.AssetsReloadedMsg, 1)
		watcher, err := asset.NewWatcher(s.Assets, path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error watching assets: %v\n", err)
			os.Exit(1)
		}
		watcher.OnReload = func(set asset.Set, err error) {
			select {
			case events <- tui.AssetsReloadedMsg{Count: set.Count(), Err: err}:
			default:
				log.Debug("asset reload dropped, TUI busy")
			}
		}
		if err := watcher.Start(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error watching assets: %v\n", err)
			os.Exit(1)
		}
		defer watcher.Stop()
	}

	model := tui.New(tui.Options{
		Catalog:     s.Name,
		Fields:      s.Fields,
		Assets:      s.Assets,
		Entries:     entries,
		Clauses:     parseClauses(initialClauses, false),
		AssetEvents: events,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
