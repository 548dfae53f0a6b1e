// SPDX-License-Identifier: GPL-3.0-only
package tui

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/bascanada/seclog/pkg/asset"
	"github.com/bascanada/seclog/pkg/log"
	"github.com/bascanada/seclog/pkg/log/printer"
	"github.com/bascanada/seclog/pkg/query"
	"github.com/bascanada/seclog/pkg/query/builder"
	"github.com/bascanada/seclog/pkg/search"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// FocusMode represents which component has focus
type FocusMode int

const (
	FocusList FocusMode = iota
	FocusSearch
)

// ClearStatusMsg is sent to clear status messages
type ClearStatusMsg struct{}

// AssetsReloadedMsg is sent when the asset file was read again.
type AssetsReloadedMsg struct {
	Count int
	Err   error
}

// focusState is kept up to date by the builder callbacks.
type focusState struct {
	Builder bool
	Filter  bool
}

// Options configure the TUI model
type Options struct {
	Catalog string
	Fields  []query.Field
	Assets  *asset.Cache
	Entries []search.Entry
	Clauses []query.Clause

	// AssetEvents delivers the reloads of the asset watcher.
	AssetEvents <-chan AssetsReloadedMsg
	// NewKey generates clause keys, uuids when nil.
	NewKey query.KeyFunc
}

// Model is the main TUI state
type Model struct {
	// Window dimensions
	Width  int
	Height int

	Focus    FocusMode
	ShowHelp bool

	// Components
	SearchBar SearchBar
	StatusBar StatusBar
	Viewport  viewport.Model
	Help      help.Model

	// Styling
	Styles Styles
	Keys   KeyMap

	// Search state
	Store    *query.Store
	Fields   []query.Field
	Assets   *asset.Cache
	Request  search.Request
	Entries  []search.Entry
	Filtered []search.Entry
	Cursor   int

	assetEvents <-chan AssetsReloadedMsg
	focus       *focusState
}

// New creates a new TUI model
func New(opts Options) Model {
	store := query.NewStore(opts.Clauses...)
	focus := &focusState{}

	b := builder.New(builder.Options{
		Store:  store,
		Fields: opts.Fields,
		Assets: opts.Assets,
		NewKey: opts.NewKey,
		Callbacks: builder.Callbacks{
			OnSearchFilterFocus: func(c query.Clause) {
				log.Debug("TUI focus on clause %s", c.Key)
				focus.Filter = true
			},
			OnSearchBuilderFocus: func() {
				focus.Builder = true
			},
			OnSearchBuilderBlur: func() {
				*focus = focusState{}
			},
		},
	})

	statusBar := NewStatusBar()
	statusBar.Catalog = opts.Catalog

	vp := viewport.New(80, 20)
	vp.SetContent("")

	m := Model{
		Width:       80,
		Height:      24,
		Focus:       FocusSearch,
		SearchBar:   NewSearchBar(store, b),
		StatusBar:   statusBar,
		Viewport:    vp,
		Help:        help.New(),
		Styles:      DefaultStyles(),
		Keys:        DefaultKeyMap(),
		Store:       store,
		Fields:      opts.Fields,
		Assets:      opts.Assets,
		Entries:     opts.Entries,
		assetEvents: opts.AssetEvents,
		focus:       focus,
	}
	m.SearchBar.Focus()
	m.refresh()
	m.updateLayout()
	return m
}

// Init starts with the search bar focused
func (m Model) Init() tea.Cmd {
	log.Debug("TUI Init called, entries=%d fields=%d", len(m.Entries), len(m.Fields))
	return tea.Batch(textinput.Blink, waitForAssets(m.assetEvents))
}

// waitForAssets waits for the next reload of the asset watcher
func waitForAssets(events <-chan AssetsReloadedMsg) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return nil
		}
		return msg
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case tea.KeyMsg:
		if key.Matches(msg, m.Keys.Quit) {
			return m, tea.Quit
		}
		var cmd tea.Cmd
		if m.Focus == FocusSearch {
			m, cmd = m.handleSearchInput(msg)
		} else {
			m, cmd = m.handleKeyPress(msg)
		}
		cmds = append(cmds, cmd)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m, cmd = m.handleMouse(msg)
		cmds = append(cmds, cmd)

	case ClausesChangedMsg:
		log.Debug("TUI clauses changed, count=%d", len(msg.Clauses))
		m.refresh()

	case AssetsReloadedMsg:
		cmds = append(cmds, m.handleAssetsReloaded(msg), waitForAssets(m.assetEvents))

	case ClearStatusMsg:
		m.StatusBar.ClearMessage()

	default:
		var cmd tea.Cmd
		m.SearchBar, cmd = m.SearchBar.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.syncStatus()
	m.updateLayout()
	return m, tea.Batch(cmds...)
}

// handleSearchInput routes keys to the search bar
func (m Model) handleSearchInput(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Blur):
		m.SearchBar.Blur()
		m.Focus = FocusList
		return m, nil
	case key.Matches(msg, m.Keys.Copy):
		return m, m.copyRequestToClipboard()
	}

	var cmd tea.Cmd
	m.SearchBar, cmd = m.SearchBar.Update(msg)
	return m, cmd
}

// handleKeyPress handles keys while the results have focus
func (m Model) handleKeyPress(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Search):
		m.Focus = FocusSearch
		return m, m.SearchBar.Focus()
	case key.Matches(msg, m.Keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.Keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.Keys.PageUp):
		m.moveCursor(-m.Viewport.Height)
	case key.Matches(msg, m.Keys.PageDown):
		m.moveCursor(m.Viewport.Height)
	case key.Matches(msg, m.Keys.Copy):
		return m, m.copyRequestToClipboard()
	case key.Matches(msg, m.Keys.Help):
		m.ShowHelp = !m.ShowHelp
		m.Help.ShowAll = m.ShowHelp
	case key.Matches(msg, m.Keys.ClearSearch):
		return m, m.SearchBar.Clear()
	}
	return m, nil
}

// handleMouse focuses what was clicked: a chip, the editor caret, a
// suggestion, or the results which blurs the search bar.
func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.moveCursor(-1)
		return m, nil
	case tea.MouseButtonWheelDown:
		m.moveCursor(1)
		return m, nil
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	y := msg.Y - m.headerHeight()
	if y >= 0 {
		sb, cmd, ok := m.SearchBar.Click(msg.X, y)
		if ok {
			m.SearchBar = sb
			m.Focus = FocusSearch
			return m, cmd
		}
	}

	if m.Focus == FocusSearch {
		m.SearchBar.Blur()
		m.Focus = FocusList
	}
	return m, nil
}

func (m *Model) handleAssetsReloaded(msg AssetsReloadedMsg) tea.Cmd {
	if msg.Err != nil {
		log.Warn("asset reload failed: %v", msg.Err)
		return m.showStatusMessage(fmt.Sprintf("Asset reload failed: %v", msg.Err))
	}
	m.SearchBar.Builder.SetAssets(m.Assets)
	m.refresh()
	return m.showStatusMessage(fmt.Sprintf("Assets reloaded (%d)", msg.Count))
}

// refresh rebuilds the request from the clauses and filters the entries
// with it. Remote conditions are evaluated here too as there is no
// backend behind the results pane.
func (m *Model) refresh() {
	clauses := m.Store.Clauses()
	m.Request = search.BuildRequest(m.Fields, clauses, m.Assets)

	conds := append(append([]search.Condition{}, m.Request.Conditions...), m.Request.Local...)
	m.Filtered = search.Evaluate(m.Entries, conds)
	if m.Cursor >= len(m.Filtered) {
		m.Cursor = len(m.Filtered) - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}

	m.StatusBar.UpdateFromRequest(m.Request, clauses)
	m.StatusBar.EntryCount = len(m.Entries)
	m.StatusBar.FilteredCount = len(m.Filtered)
}

// syncStatus copies the state of the clause under edit to the status bar
func (m *Model) syncStatus() {
	m.StatusBar.EditingLocal = false
	m.StatusBar.Validation = nil
	m.StatusBar.AssetCount = m.Assets.Snapshot().Count()
	if !m.SearchBar.Focused {
		return
	}
	c, ok := m.SearchBar.Builder.Clause()
	if !ok {
		return
	}
	m.StatusBar.EditingLocal = c.Local()
	if query.Serialize(c) != "" {
		m.StatusBar.Validation = m.SearchBar.Builder.Validate(c)
	}
}

func (m *Model) moveCursor(delta int) {
	m.Cursor += delta
	if m.Cursor >= len(m.Filtered) {
		m.Cursor = len(m.Filtered) - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
}

// copyRequestToClipboard copies the request JSON
func (m *Model) copyRequestToClipboard() tea.Cmd {
	data, err := json.MarshalIndent(m.Request, "", "  ")
	if err != nil {
		return m.showStatusMessage(fmt.Sprintf("Failed to format request: %v", err))
	}
	if err := clipboard.WriteAll(string(data)); err != nil {
		return m.showStatusMessage(fmt.Sprintf("Clipboard error: %v", err))
	}
	return m.showStatusMessage(fmt.Sprintf("Request copied to clipboard (%d conditions)", len(m.Request.Conditions)+len(m.Request.Local)))
}

// showStatusMessage temporarily shows a message in the status bar
// Returns a command that will clear the message after a delay
func (m *Model) showStatusMessage(message string) tea.Cmd {
	m.StatusBar.SetMessage(message)
	return tea.Tick(3*time.Second, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}

func (m Model) headerHeight() int {
	return 1
}

// updateLayout recalculates component sizes
func (m *Model) updateLayout() {
	m.SearchBar.Width = m.Width
	m.StatusBar.Width = m.Width
	m.Help.Width = m.Width

	mainHeight := m.Height - m.headerHeight() - m.SearchBar.Height() - m.StatusBar.Height() - lipgloss.Height(m.renderHelp())
	if mainHeight < 1 {
		mainHeight = 1
	}
	m.Viewport.Width = m.Width
	m.Viewport.Height = mainHeight
	m.updateViewportContent()
}

// updateViewportContent renders the filtered entries, one per line,
// keeping the cursor visible
func (m *Model) updateViewportContent() {
	if len(m.Filtered) == 0 {
		msg := "No log entries found."
		if len(m.Entries) > 0 {
			msg = "No log entries found (after filtering)."
		}
		m.Viewport.SetContent(m.Styles.Empty.Render(msg))
		return
	}

	lines := make([]string, len(m.Filtered))
	for i, entry := range m.Filtered {
		lines[i] = m.renderLogEntry(entry, i == m.Cursor)
	}
	m.Viewport.SetContent(strings.Join(lines, "\n"))

	offset := m.Viewport.YOffset
	if m.Cursor < offset {
		offset = m.Cursor
	} else if m.Cursor >= offset+m.Viewport.Height {
		offset = m.Cursor - m.Viewport.Height + 1
	}
	m.Viewport.SetYOffset(offset)
}

// renderLogEntry renders one entry on one line. The field of the clause
// being edited is shown first so its values can be compared while typing.
func (m Model) renderLogEntry(entry search.Entry, selected bool) string {
	var parts []string
	parts = append(parts, m.Styles.LogTimestamp.Render(printer.FormatTimestamp(entry.Timestamp, "15:04:05")))
	parts = append(parts, GetLevelStyle(strings.ToUpper(entry.Level)).Render(entry.Level))

	if c, ok := m.SearchBar.Builder.Clause(); ok && m.focus.Filter {
		if field := c.FieldText(); field != "" {
			if v := entry.Field(field); v != nil {
				parts = append(parts, m.SearchBar.Styles.ChipSelected.Render(fmt.Sprintf("%s=%v", field, v)))
			}
		}
	}

	parts = append(parts, m.Styles.LogMessage.Render(entry.Message))
	if kv := printer.KV(entry.Fields); kv != "" {
		parts = append(parts, m.Styles.LogFields.Render(kv))
	}

	line := strings.Join(parts, " ")
	if m.Width > 0 {
		line = lipgloss.NewStyle().MaxWidth(m.Width).Render(line)
	}
	if selected {
		return "> " + line
	}
	return "  " + line
}

func (m Model) renderHeader() string {
	title := m.Styles.Title.Render("seclog")
	if m.StatusBar.Catalog != "" {
		title += " " + m.Styles.LogTimestamp.Render(m.StatusBar.Catalog)
	}
	if m.focus.Builder {
		title += " " + m.Styles.LogTimestamp.Render("(editing)")
	}
	return m.Styles.Header.Width(m.Width).Render(title)
}

func (m Model) renderHelp() string {
	return m.Styles.HelpBar.Render(m.Help.View(m.Keys))
}

// View renders the TUI
func (m Model) View() string {
	if m.Width == 0 || m.Height == 0 {
		return "Loading..."
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.SearchBar.View(),
		m.Viewport.View(),
		m.StatusBar.View(),
		m.renderHelp(),
	)
}
