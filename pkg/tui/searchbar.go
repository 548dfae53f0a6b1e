// SPDX-License-Identifier: GPL-3.0-only
package tui

import (
	"fmt"
	"strings"

	"github.com/bascanada/seclog/pkg/query"
	"github.com/bascanada/seclog/pkg/query/builder"
	"github.com/bascanada/seclog/pkg/ty"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DefaultMaxSuggestions is the height of the suggestion window.
const DefaultMaxSuggestions = 8

// SearchBarStyles defines the styles for the search bar
type SearchBarStyles struct {
	Container        lipgloss.Style
	Prompt           lipgloss.Style
	ChipRemote       lipgloss.Style
	ChipLocal        lipgloss.Style
	ChipHidden       lipgloss.Style
	ChipSelected     lipgloss.Style
	ChipGap          lipgloss.Style
	Input            lipgloss.Style
	InputInactive    lipgloss.Style
	Ghost            lipgloss.Style
	Autocomplete     lipgloss.Style
	SuggestionItem   lipgloss.Style
	SuggestionActive lipgloss.Style
	SuggestionMeta   lipgloss.Style
	More             lipgloss.Style
}

// DefaultSearchBarStyles returns the default styles for the search bar
func DefaultSearchBarStyles() SearchBarStyles {
	return SearchBarStyles{
		Container: lipgloss.NewStyle(),
		Prompt: lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true),
		ChipRemote: lipgloss.NewStyle().
			Background(ColorBg),
		ChipLocal: lipgloss.NewStyle().
			Background(lipgloss.Color("#2E1065")),
		ChipHidden: lipgloss.NewStyle().
			Background(ColorBorder),
		ChipSelected: lipgloss.NewStyle().
			Background(ColorPrimary),
		ChipGap:       lipgloss.NewStyle(),
		Input:         lipgloss.NewStyle().Foreground(ColorText),
		InputInactive: lipgloss.NewStyle().Foreground(ColorMuted),
		Ghost:         lipgloss.NewStyle().Foreground(ColorMuted),
		Autocomplete: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1),
		SuggestionItem: lipgloss.NewStyle().
			Foreground(ColorText),
		SuggestionActive: lipgloss.NewStyle().
			Background(ColorPrimary).
			Foreground(ColorText).
			Bold(true),
		SuggestionMeta: lipgloss.NewStyle().
			Foreground(ColorTextMuted),
		More: lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true),
	}
}

// ClausesChangedMsg is sent after a key changed the clause list.
type ClausesChangedMsg struct {
	Clauses []query.Clause
}

// SearchBar is the clause editor: committed clauses are shown as chips,
// the clause under edit as a colored line driven by the builder. The
// text input only does the line editing, its value is parsed back into
// the clause on every change.
type SearchBar struct {
	Store   *query.Store
	Builder *builder.Builder
	Input   textinput.Model
	Styles  SearchBarStyles
	Keys    KeyMap
	Width   int
	Focused bool

	MaxSuggestions int

	changed *bool
}

// NewSearchBar creates a search bar editing the clauses of store.
func NewSearchBar(store *query.Store, b *builder.Builder) SearchBar {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "type a field, Tab to complete..."

	changed := false
	store.Subscribe(func([]query.Clause) { changed = true })

	return SearchBar{
		Store:          store,
		Builder:        b,
		Input:          ti,
		Styles:         DefaultSearchBarStyles(),
		Keys:           DefaultKeyMap(),
		Width:          80,
		MaxSuggestions: DefaultMaxSuggestions,
		changed:        &changed,
	}
}

// Focus activates the search bar on the primary clause
func (s *SearchBar) Focus() tea.Cmd {
	s.Focused = true
	s.Builder.FocusBuilder()
	s.sync()
	return s.Input.Focus()
}

// Blur deactivates the search bar and drops the editing state
func (s *SearchBar) Blur() {
	s.Focused = false
	s.Builder.BlurOutside()
	s.Input.Blur()
}

// FocusClause moves the edit to the clause with key.
func (s *SearchBar) FocusClause(key string) tea.Cmd {
	var cmd tea.Cmd
	if !s.Focused {
		s.Focused = true
		cmd = s.Input.Focus()
	}
	s.Builder.FocusClause(key)
	s.sync()
	return tea.Batch(cmd, s.flush())
}

// sync copies the builder text and caret into the text input.
func (s *SearchBar) sync() {
	s.Input.SetValue(s.Builder.Text())
	s.Input.SetCursor(s.Builder.Cursor().Caret)
}

// flush reports a clause list change that happened since the last call.
func (s *SearchBar) flush() tea.Cmd {
	if s.changed == nil || !*s.changed {
		return nil
	}
	*s.changed = false
	clauses := s.Store.Clauses()
	return func() tea.Msg { return ClausesChangedMsg{Clauses: clauses} }
}

// Update handles input while the search bar is focused
func (s SearchBar) Update(msg tea.Msg) (SearchBar, tea.Cmd) {
	if !s.Focused {
		return s, nil
	}

	var cmd tea.Cmd
	if msg, ok := msg.(tea.KeyMsg); ok {
		s, cmd = s.handleKey(msg)
	} else {
		s.Input, cmd = s.Input.Update(msg)
	}
	return s, tea.Batch(cmd, s.flush())
}

func (s SearchBar) handleKey(msg tea.KeyMsg) (SearchBar, tea.Cmd) {
	switch {
	case key.Matches(msg, s.Keys.Suggest):
		k := builder.KeyDown
		if msg.Type == tea.KeyUp {
			k = builder.KeyUp
		}
		s.Builder.Key(k)
		return s, nil

	case key.Matches(msg, s.Keys.Accept):
		if s.Builder.Key(builder.KeyTab) {
			s.sync()
		}
		return s, nil

	case key.Matches(msg, s.Keys.Commit):
		if s.Builder.Key(builder.KeyEnter) {
			s.sync()
		}
		return s, nil

	case key.Matches(msg, s.Keys.PrevClause):
		s.focusSibling(-1)
		return s, nil

	case key.Matches(msg, s.Keys.NextClause):
		s.focusSibling(1)
		return s, nil

	case key.Matches(msg, s.Keys.ToggleLocal):
		s.toggleLocal()
		return s, nil

	case key.Matches(msg, s.Keys.ToggleHide):
		s.toggleHidden()
		return s, nil

	case msg.Type == tea.KeyBackspace:
		if s.Builder.Key(builder.KeyBackspace) {
			s.sync()
			return s, nil
		}
	}

	before := s.Input.Value()
	var cmd tea.Cmd
	s.Input, cmd = s.Input.Update(msg)
	if s.Input.Value() != before {
		s.Builder.Input(s.Input.Value(), s.Input.Position())
		s.sync()
	} else {
		s.Builder.SetCaret(s.Input.Position())
	}
	return s, cmd
}

// focusSibling moves the edit to the clause delta places away, wrapping
// around the list.
func (s *SearchBar) focusSibling(delta int) {
	clauses := s.Store.Clauses()
	if len(clauses) == 0 {
		return
	}
	idx := query.IndexOf(clauses, s.Builder.Cursor().ActiveClauseKey)
	if idx == -1 {
		idx = len(clauses) - 1
	}
	n := len(clauses)
	idx = ((idx+delta)%n + n) % n
	s.Builder.FocusClause(clauses[idx].Key)
	s.sync()
}

func (s *SearchBar) toggleLocal() {
	c, ok := s.Builder.Clause()
	if !ok {
		return
	}
	s.Store.Dispatch(query.Update{Patch: query.Clause{Key: c.Key, IsLocal: ty.OptWrap(!c.Local())}})
}

// toggleHidden disables a committed clause without deleting it. The
// primary clause is never part of the request so it cannot be toggled.
func (s *SearchBar) toggleHidden() {
	c, ok := s.Builder.Clause()
	if !ok || c.Primary() {
		return
	}
	s.Store.Dispatch(query.Update{Patch: query.Clause{Key: c.Key, IsHidden: ty.OptWrap(!c.Hidden())}})
}

// Clear removes every committed clause and empties the primary one.
func (s *SearchBar) Clear() tea.Cmd {
	for _, c := range s.Store.Clauses() {
		if !c.Primary() {
			s.Store.Dispatch(query.Delete{Key: c.Key})
		}
	}
	if p, ok := query.Primary(s.Store.Clauses()); ok {
		s.Store.Dispatch(query.Update{Patch: query.Parse("", p.Key)})
		if s.Focused {
			s.Builder.FocusClause(p.Key)
		}
	}
	s.sync()
	return s.flush()
}

// segment is the horizontal extent of a clause on the search line.
type segment struct {
	key        string
	start, end int
	editor     bool
}

// line renders the search line and the extent of every clause on it.
func (s SearchBar) line() (string, []segment) {
	prompt := s.Styles.Prompt.Render("/ ")
	parts := []string{prompt}
	x := lipgloss.Width(prompt)

	cur := s.Builder.Cursor()
	var segs []segment
	for _, c := range s.Store.Clauses() {
		var out string
		editor := false
		switch {
		case s.Focused && c.Key == cur.ActiveClauseKey:
			out = s.Styles.renderEditor(c, cur.Caret, s.Builder.Ghost(), s.Builder.Validate(c))
			editor = true
		case c.Primary():
			text := query.Serialize(c)
			if text == "" && !s.Focused {
				text = "Press / to search..."
			}
			out = s.Styles.InputInactive.Render(text)
		default:
			out = s.Styles.renderChip(Chip{Clause: c, Err: s.Builder.Validate(c), Selected: c.Key == cur.ActiveClauseKey})
		}
		w := lipgloss.Width(out)
		segs = append(segs, segment{key: c.Key, start: x, end: x + w, editor: editor})
		parts = append(parts, out)
		x += w
	}
	return strings.Join(parts, ""), segs
}

// View renders the search line and, when open, the suggestion dropdown
func (s SearchBar) View() string {
	searchLine, _ := s.line()
	if dropdown := s.renderAutocomplete(); dropdown != "" {
		return s.Styles.Container.Render(lipgloss.JoinVertical(lipgloss.Left, searchLine, dropdown))
	}
	return s.Styles.Container.Render(searchLine)
}

// Height returns the number of lines View renders.
func (s SearchBar) Height() int {
	return lipgloss.Height(s.View())
}

// dropdownOpen tells if suggestions are shown.
func (s SearchBar) dropdownOpen() bool {
	return s.Focused && s.Builder.State() == builder.StateSuggestionOpen
}

// visibleWindow returns the range of the candidates shown around active
// when only size of them fit.
func visibleWindow(total, active, size int) (start, end int) {
	if size <= 0 || total <= size {
		return 0, total
	}
	if active < 0 {
		active = 0
	}
	start = active - size/2
	if start < 0 {
		start = 0
	}
	if start+size > total {
		start = total - size
	}
	return start, start + size
}

// renderAutocomplete renders the window of candidates around the active
// one, with the count of the hidden ones above and below.
func (s SearchBar) renderAutocomplete() string {
	if !s.dropdownOpen() {
		return ""
	}
	cands := s.Builder.Suggestions()
	active := query.ActiveIndex(cands, s.Builder.Cursor().ActiveSuggestionKey)
	start, end := visibleWindow(len(cands), active, s.MaxSuggestions)

	var items []string
	if start > 0 {
		items = append(items, s.Styles.More.Render(fmt.Sprintf("↑ %d more", start)))
	}
	for i := start; i < end; i++ {
		items = append(items, s.renderCandidate(cands[i], i == active))
	}
	if end < len(cands) {
		items = append(items, s.Styles.More.Render(fmt.Sprintf("↓ %d more", len(cands)-end)))
	}

	return s.Styles.Autocomplete.Render(lipgloss.JoinVertical(lipgloss.Left, items...))
}

func (s SearchBar) renderCandidate(c query.Candidate, active bool) string {
	style := s.Styles.SuggestionItem
	if active {
		style = s.Styles.SuggestionActive
	}
	text := style.Render(c.Label())

	var meta []string
	if len(c.Tags) > 0 {
		meta = append(meta, "["+strings.Join(c.Tags, ", ")+"]")
	}
	if c.Description != "" {
		meta = append(meta, c.Description)
	}
	if len(meta) > 0 {
		text += " " + s.Styles.SuggestionMeta.Render(strings.Join(meta, " "))
	}

	if limit := s.Width - 4; limit > 0 && lipgloss.Width(text) > limit {
		text = lipgloss.NewStyle().MaxWidth(limit).Render(text)
	}
	return text
}

// Click handles a left click at x, y relative to the top left corner of
// the search bar. It returns false when the click is outside of it.
func (s SearchBar) Click(x, y int) (SearchBar, tea.Cmd, bool) {
	if y == 0 {
		_, segs := s.line()
		for _, seg := range segs {
			if x < seg.start || x >= seg.end {
				continue
			}
			var cmd tea.Cmd
			if !s.Focused {
				cmd = s.Focus()
			}
			if seg.editor {
				s.Builder.SetCaret(x - seg.start)
				s.sync()
				return s, tea.Batch(cmd, s.flush()), true
			}
			return s, tea.Batch(cmd, s.FocusClause(seg.key)), true
		}
		if s.Focused {
			return s, nil, true
		}
		return s, s.Focus(), true
	}

	if !s.dropdownOpen() {
		return s, nil, false
	}
	cands := s.Builder.Suggestions()
	active := query.ActiveIndex(cands, s.Builder.Cursor().ActiveSuggestionKey)
	start, end := visibleWindow(len(cands), active, s.MaxSuggestions)

	// Rows below the search line: the top border, then the "more" line
	// when the window is scrolled.
	row := y - 2
	if start > 0 {
		row--
	}
	idx := start + row
	if row < 0 || idx >= end {
		return s, nil, y < s.Height()
	}
	s.Builder.ClickSuggestion(cands[idx].Key)
	s.sync()
	return s, s.flush(), true
}
