// SPDX-License-Identifier: GPL-3.0-only

// Package tui provides the terminal user interface of the search bar.
package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts
type KeyMap struct {
	// Results navigation
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding

	// Search bar
	Search      key.Binding
	Blur        key.Binding
	Suggest     key.Binding
	Accept      key.Binding
	Commit      key.Binding
	PrevClause  key.Binding
	NextClause  key.Binding
	ToggleLocal key.Binding
	ToggleHide  key.Binding
	ClearSearch key.Binding

	// Actions
	Copy key.Binding
	Help key.Binding
	Quit key.Binding
}

// DefaultKeyMap returns the default keybindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("PgUp", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("PgDn", "page down"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Blur: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "leave search"),
		),
		Suggest: key.NewBinding(
			key.WithKeys("up", "down"),
			key.WithHelp("↑↓", "suggestions"),
		),
		Accept: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "accept"),
		),
		Commit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "commit"),
		),
		PrevClause: key.NewBinding(
			key.WithKeys("shift+left", "shift+tab"),
			key.WithHelp("S-←", "prev clause"),
		),
		NextClause: key.NewBinding(
			key.WithKeys("shift+right"),
			key.WithHelp("S-→", "next clause"),
		),
		ToggleLocal: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("Ctrl+l", "local filter"),
		),
		ToggleHide: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("Ctrl+x", "disable clause"),
		),
		ClearSearch: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "clear clauses"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("Ctrl+y", "copy request"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("Ctrl+c", "quit"),
		),
	}
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Accept, k.Commit, k.Copy, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.Search, k.Blur, k.Suggest, k.Accept, k.Commit},
		{k.PrevClause, k.NextClause, k.ToggleLocal, k.ToggleHide, k.ClearSearch},
		{k.Copy, k.Help, k.Quit},
	}
}
