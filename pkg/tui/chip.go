// SPDX-License-Identifier: GPL-3.0-only
package tui

import (
	"strings"
	"unicode/utf8"

	"github.com/bascanada/seclog/pkg/query"
	"github.com/charmbracelet/lipgloss"
)

// Chip is a committed clause displayed in the search bar.
type Chip struct {
	Clause   query.Clause
	Err      *query.ValidationError
	Selected bool
}

// tokenColors are the foreground colors of the clause tokens.
var tokenColors = map[query.Position]lipgloss.Color{
	query.PositionField:      ColorSecondary,
	query.PositionExpression: ColorWarning,
	query.PositionValue:      ColorSuccess,
}

// chipBackground returns the background of a chip, local and disabled
// clauses being told apart from remote ones.
func (s SearchBarStyles) chipBackground(ch Chip) lipgloss.TerminalColor {
	switch {
	case ch.Selected:
		return s.ChipSelected.GetBackground()
	case ch.Clause.Hidden():
		return s.ChipHidden.GetBackground()
	case ch.Clause.Local():
		return s.ChipLocal.GetBackground()
	}
	return s.ChipRemote.GetBackground()
}

// tokenStyle returns the style of the token at p, underlined in the
// error color when the validation points at it.
func tokenStyle(bg lipgloss.TerminalColor, p query.Position, err *query.ValidationError) lipgloss.Style {
	st := lipgloss.NewStyle().Background(bg).Foreground(tokenColors[p])
	if err != nil && err.Position == p {
		st = st.Foreground(ColorError).Underline(true)
	}
	return st
}

// renderChip renders a committed clause with its tokens styled apart.
func (s SearchBarStyles) renderChip(ch Chip) string {
	bg := s.chipBackground(ch)
	pad := lipgloss.NewStyle().Background(bg)

	var parts []string
	for _, p := range query.Positions {
		text, ok := chipToken(ch.Clause, p)
		if !ok {
			continue
		}
		st := tokenStyle(bg, p, ch.Err)
		if ch.Clause.Hidden() {
			st = st.Strikethrough(true)
		}
		parts = append(parts, st.Render(text))
	}

	body := strings.Join(parts, pad.Render(" "))
	if ch.Clause.Local() {
		body = pad.Foreground(ColorTextMuted).Render("@") + body
	}
	return pad.Render(" ") + body + pad.Render(" ") + s.ChipGap.Render(" ")
}

func chipToken(c query.Clause, p query.Position) (string, bool) {
	switch p {
	case query.PositionField:
		return c.Field.Get()
	case query.PositionExpression:
		return c.Expression.Get()
	}
	v, ok := c.Value.Get()
	if !ok {
		return "", false
	}
	return v.String(), true
}

// renderEditor renders the clause under edit with colored tokens, a
// block caret and the ghost suffix after it.
func (s SearchBarStyles) renderEditor(c query.Clause, caret int, ghost string, err *query.ValidationError) string {
	text := []rune(query.Serialize(c))
	if caret > len(text) {
		caret = len(text)
	}

	var b strings.Builder
	for i, r := range text {
		st := s.Input
		if p, ok := positionAt(c, i); ok {
			st = tokenStyle(lipgloss.NoColor{}, p, err)
		}
		if i == caret {
			st = st.Reverse(true)
		}
		b.WriteString(st.Render(string(r)))
	}
	if caret == len(text) {
		if ghost != "" {
			first, size := utf8.DecodeRuneInString(ghost)
			b.WriteString(s.Ghost.Reverse(true).Render(string(first)))
			b.WriteString(s.Ghost.Render(ghost[size:]))
		} else {
			b.WriteString(s.Input.Reverse(true).Render(" "))
		}
	}
	return b.String()
}

// positionAt returns the token holding the rune at offset, false for the
// separators.
func positionAt(c query.Clause, offset int) (query.Position, bool) {
	for _, p := range query.Positions {
		if _, ok := chipToken(c, p); !ok {
			continue
		}
		if offset >= query.TokenStart(c, p) && offset < query.TokenEnd(c, p) {
			return p, true
		}
	}
	return "", false
}
