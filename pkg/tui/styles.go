// SPDX-License-Identifier: GPL-3.0-only
package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	ColorPrimary   = lipgloss.Color("#7C3AED") // Purple
	ColorSecondary = lipgloss.Color("#3B82F6") // Blue
	ColorSuccess   = lipgloss.Color("#22C55E") // Green
	ColorWarning   = lipgloss.Color("#F59E0B") // Amber
	ColorError     = lipgloss.Color("#EF4444") // Red
	ColorMuted     = lipgloss.Color("#6B7280") // Gray
	ColorBorder    = lipgloss.Color("#374151") // Dark gray
	ColorBg        = lipgloss.Color("#1F2937") // Dark background
	ColorBgActive  = lipgloss.Color("#374151") // Active background
	ColorText      = lipgloss.Color("#F9FAFB") // Light text
	ColorTextMuted = lipgloss.Color("#9CA3AF") // Muted text
)

// Log level colors
var LogLevelColors = map[string]lipgloss.Color{
	"ERROR":   ColorError,
	"WARN":    ColorWarning,
	"WARNING": ColorWarning,
	"INFO":    ColorSuccess,
	"DEBUG":   ColorSecondary,
	"TRACE":   ColorMuted,
}

// Styles contains the styles of the main view
type Styles struct {
	App     lipgloss.Style
	Header  lipgloss.Style
	Title   lipgloss.Style
	HelpBar lipgloss.Style

	// Results pane
	LogEntry     lipgloss.Style
	LogTimestamp lipgloss.Style
	LogMessage   lipgloss.Style
	LogFields    lipgloss.Style
	Empty        lipgloss.Style
}

// DefaultStyles creates the default style set
func DefaultStyles() Styles {
	return Styles{
		App: lipgloss.NewStyle(),

		Header: lipgloss.NewStyle().
			Background(ColorBg).
			Foreground(ColorText).
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true),

		HelpBar: lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 1),

		LogEntry: lipgloss.NewStyle().
			Foreground(ColorText),

		LogTimestamp: lipgloss.NewStyle().
			Foreground(ColorMuted),

		LogMessage: lipgloss.NewStyle().
			Foreground(ColorText),

		LogFields: lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Italic(true),

		Empty: lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true).
			Padding(1, 2),
	}
}

// GetLevelStyle returns a style for the given log level
func GetLevelStyle(level string) lipgloss.Style {
	color, ok := LogLevelColors[level]
	if !ok {
		color = ColorMuted
	}
	return lipgloss.NewStyle().
		Foreground(color).
		Bold(true).
		Width(7).
		Align(lipgloss.Center)
}
