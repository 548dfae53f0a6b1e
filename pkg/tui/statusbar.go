// SPDX-License-Identifier: GPL-3.0-only
package tui

import (
	"fmt"
	"strings"

	"github.com/bascanada/seclog/pkg/query"
	"github.com/bascanada/seclog/pkg/search"
	"github.com/charmbracelet/lipgloss"
)

// StatusBarStyles defines the styles for the status bar
type StatusBarStyles struct {
	Container lipgloss.Style
	Label     lipgloss.Style
	Value     lipgloss.Style
	Separator lipgloss.Style
	Local     lipgloss.Style
	Error     lipgloss.Style
	Message   lipgloss.Style
}

// DefaultStatusBarStyles returns the default styles for the status bar
func DefaultStatusBarStyles() StatusBarStyles {
	return StatusBarStyles{
		Container: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(ColorBorder).
			Padding(0, 1),
		Label: lipgloss.NewStyle().
			Foreground(ColorMuted),
		Value: lipgloss.NewStyle().
			Foreground(ColorText),
		Separator: lipgloss.NewStyle().
			Foreground(ColorMuted),
		Local: lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true),
		Error: lipgloss.NewStyle().
			Foreground(ColorError),
		Message: lipgloss.NewStyle().
			Foreground(ColorWarning).
			Bold(true),
	}
}

// StatusBar displays the request and results counters above the help
type StatusBar struct {
	Width  int
	Styles StatusBarStyles

	Catalog       string
	Conditions    int
	LocalFilters  int
	Disabled      int
	EntryCount    int
	FilteredCount int
	AssetCount    int

	// Clause under edit
	EditingLocal bool
	Validation   *query.ValidationError

	Message string
}

// NewStatusBar creates a new status bar with default styles
func NewStatusBar() StatusBar {
	return StatusBar{
		Width:  80,
		Styles: DefaultStatusBarStyles(),
	}
}

// UpdateFromRequest refreshes the counters from the built request.
func (s *StatusBar) UpdateFromRequest(req search.Request, clauses []query.Clause) {
	s.Conditions = len(req.Conditions)
	s.LocalFilters = len(req.Local)
	s.Disabled = 0
	for _, c := range clauses {
		if c.Hidden() {
			s.Disabled++
		}
	}
}

// SetMessage shows a transient message
func (s *StatusBar) SetMessage(message string) {
	s.Message = message
}

// ClearMessage removes the transient message
func (s *StatusBar) ClearMessage() {
	s.Message = ""
}

// View renders the status bar
func (s StatusBar) View() string {
	if s.Width < 20 {
		return ""
	}

	var parts []string
	if s.Catalog != "" {
		parts = append(parts, s.Styles.Label.Render("Catalog: ")+s.Styles.Value.Render(s.Catalog))
	}
	parts = append(parts, s.Styles.Label.Render("Conditions: ")+s.Styles.Value.Render(fmt.Sprintf("%d", s.Conditions)))
	if s.LocalFilters > 0 {
		parts = append(parts, s.Styles.Label.Render("Local: ")+s.Styles.Value.Render(fmt.Sprintf("%d", s.LocalFilters)))
	}
	if s.Disabled > 0 {
		parts = append(parts, s.Styles.Label.Render("Disabled: ")+s.Styles.Value.Render(fmt.Sprintf("%d", s.Disabled)))
	}
	if s.FilteredCount != s.EntryCount {
		parts = append(parts, s.Styles.Label.Render("Entries: ")+s.Styles.Value.Render(fmt.Sprintf("%d/%d", s.FilteredCount, s.EntryCount)))
	} else {
		parts = append(parts, s.Styles.Label.Render("Entries: ")+s.Styles.Value.Render(fmt.Sprintf("%d", s.EntryCount)))
	}
	if s.AssetCount > 0 {
		parts = append(parts, s.Styles.Label.Render("Assets: ")+s.Styles.Value.Render(fmt.Sprintf("%d", s.AssetCount)))
	}
	if s.EditingLocal {
		parts = append(parts, s.Styles.Local.Render("LOCAL"))
	}

	sep := s.Styles.Separator.Render(" | ")
	line := strings.Join(parts, sep)

	switch {
	case s.Message != "":
		line += sep + s.Styles.Message.Render(s.Message)
	case s.Validation != nil:
		line += sep + s.Styles.Error.Render(s.Validation.Error())
	}

	return s.Styles.Container.Width(s.Width).Render(line)
}

// Height returns the height of the status bar in lines
func (s StatusBar) Height() int {
	return 2 // One line of content plus the top border
}
