package tui

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bascanada/seclog/pkg/query"
	"github.com/bascanada/seclog/pkg/query/builder"
	"github.com/bascanada/seclog/pkg/query/expression"
)

func newTestSearchBar(t *testing.T, fields []query.Field) (SearchBar, *query.Store) {
	t.Helper()
	store := query.NewStore()
	b := builder.New(builder.Options{Store: store, Fields: fields, NewKey: sequentialKeys()})
	sb := NewSearchBar(store, b)
	sb.Focus()
	return sb, store
}

func press(sb SearchBar, msgs ...tea.Msg) SearchBar {
	for _, msg := range msgs {
		sb, _ = sb.Update(msg)
	}
	return sb
}

func commitSourceIP(sb SearchBar) SearchBar {
	sb = press(sb, runes("source_ip = 10.0.0.1")...)
	return press(sb, keyMsg(tea.KeyEnter))
}

func TestSearchBar_TabCompletesTokens(t *testing.T) {
	sb, _ := newTestSearchBar(t, testFields())

	sb = press(sb, runes("sou")...)
	assert.Contains(t, sb.View(), "rce_ip", "ghost suffix of the active suggestion")

	sb = press(sb, keyMsg(tea.KeyTab))
	assert.Equal(t, "source_ip ", sb.Input.Value())
	assert.Equal(t, 10, sb.Input.Position())

	sb = press(sb, keyMsg(tea.KeyTab))
	assert.Equal(t, "source_ip = ", sb.Input.Value())
	assert.Equal(t, query.PositionValue, sb.Builder.Cursor().Position)
}

func TestSearchBar_EnterCommitsClause(t *testing.T) {
	sb, store := newTestSearchBar(t, testFields())

	sb = commitSourceIP(sb)

	clauses := store.Clauses()
	require.Len(t, clauses, 2)
	assert.Equal(t, "K1", clauses[0].Key)
	assert.False(t, clauses[0].Primary())
	assert.Equal(t, "source_ip = 10.0.0.1", query.Serialize(clauses[0]))
	assert.Equal(t, "K2", sb.Builder.Cursor().ActiveClauseKey)
	assert.Equal(t, "", sb.Input.Value())
	assert.Contains(t, sb.View(), "source_ip = 10.0.0.1")
}

func TestSearchBar_UpdateReportsClauseChanges(t *testing.T) {
	sb, _ := newTestSearchBar(t, testFields())

	sb, cmd := sb.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'u'}})
	require.NotNil(t, cmd)
	assert.False(t, *sb.changed, "change flushed")

	// Moving the caret does not touch the clause list.
	sb, _ = sb.Update(keyMsg(tea.KeyLeft))
	assert.False(t, *sb.changed)
	assert.Equal(t, 0, sb.Builder.Cursor().Caret)
}

func TestSearchBar_BackspaceRemovesLastChip(t *testing.T) {
	sb, store := newTestSearchBar(t, testFields())
	sb = commitSourceIP(sb)
	require.Len(t, store.Clauses(), 2)

	sb = press(sb, keyMsg(tea.KeyBackspace))

	clauses := store.Clauses()
	require.Len(t, clauses, 1)
	assert.Equal(t, "K2", clauses[0].Key)
	assert.Equal(t, "", sb.Input.Value())
}

func TestSearchBar_BackspaceEditsText(t *testing.T) {
	sb, store := newTestSearchBar(t, testFields())

	sb = press(sb, runes("user")...)
	sb = press(sb, keyMsg(tea.KeyBackspace))

	assert.Equal(t, "use", sb.Input.Value())
	assert.Equal(t, "use", query.Serialize(store.Clauses()[0]))
}

func TestSearchBar_ArrowsCycleSuggestions(t *testing.T) {
	sb, _ := newTestSearchBar(t, testFields())
	sb = press(sb, runes("source_ip = ")...)

	first, ok := sb.Builder.Active()
	require.True(t, ok)
	assert.Equal(t, "10.0.0.1", first.Key)

	sb = press(sb, keyMsg(tea.KeyDown))
	second, _ := sb.Builder.Active()
	assert.Equal(t, "10.0.0.2", second.Key)

	sb = press(sb, keyMsg(tea.KeyUp), keyMsg(tea.KeyUp))
	last, _ := sb.Builder.Active()
	assert.Equal(t, "192.168.1.10", last.Key)
}

func TestSearchBar_ShiftArrowsFocusClauses(t *testing.T) {
	sb, _ := newTestSearchBar(t, testFields())
	sb = commitSourceIP(sb)

	sb = press(sb, keyMsg(tea.KeyShiftLeft))
	assert.Equal(t, "K1", sb.Builder.Cursor().ActiveClauseKey)
	assert.Equal(t, "source_ip = 10.0.0.1", sb.Input.Value())

	sb = press(sb, keyMsg(tea.KeyShiftRight))
	assert.Equal(t, "K2", sb.Builder.Cursor().ActiveClauseKey)
}

func TestSearchBar_ToggleLocalAndHidden(t *testing.T) {
	sb, store := newTestSearchBar(t, testFields())
	sb = press(sb, runes("protocol = TCP")...)

	sb = press(sb, keyMsg(tea.KeyCtrlL))
	assert.True(t, store.Clauses()[0].Local())

	// The primary clause cannot be disabled.
	sb = press(sb, keyMsg(tea.KeyCtrlX))
	assert.False(t, store.Clauses()[0].Hidden())

	sb = press(sb, keyMsg(tea.KeyEnter), keyMsg(tea.KeyShiftLeft), keyMsg(tea.KeyCtrlX))
	assert.True(t, store.Clauses()[0].Hidden())

	sb = press(sb, keyMsg(tea.KeyShiftRight))
	assert.Contains(t, sb.View(), "@protocol = TCP")
}

func TestSearchBar_Clear(t *testing.T) {
	sb, store := newTestSearchBar(t, testFields())
	sb = commitSourceIP(sb)
	sb = press(sb, runes("user")...)

	sb.Clear()

	clauses := store.Clauses()
	require.Len(t, clauses, 1)
	assert.True(t, clauses[0].Primary())
	assert.Equal(t, "", query.Serialize(clauses[0]))
	assert.Equal(t, "", sb.Input.Value())
}

func TestSearchBar_BlurHidesDropdown(t *testing.T) {
	sb, _ := newTestSearchBar(t, testFields())
	sb = press(sb, runes("sou")...)
	require.Contains(t, sb.View(), "Source address")

	sb.Blur()

	view := sb.View()
	assert.NotContains(t, view, "Source address")
	assert.Equal(t, builder.StateIdle, sb.Builder.State())
	assert.Equal(t, 1, sb.Height())
}

func TestSearchBar_ClickSuggestion(t *testing.T) {
	sb, _ := newTestSearchBar(t, testFields())
	sb = press(sb, runes("sou")...)

	// Row 0 is the search line, row 1 the dropdown border.
	sb, _, ok := sb.Click(3, 2)
	require.True(t, ok)
	assert.Equal(t, "source_ip ", sb.Input.Value())
}

func TestSearchBar_ClickChip(t *testing.T) {
	sb, _ := newTestSearchBar(t, testFields())
	sb = commitSourceIP(sb)

	// The chip starts right after the "/ " prompt.
	sb, _, ok := sb.Click(3, 0)
	require.True(t, ok)
	assert.Equal(t, "K1", sb.Builder.Cursor().ActiveClauseKey)
}

func TestSearchBar_ClickOutside(t *testing.T) {
	sb, _ := newTestSearchBar(t, testFields())
	sb.Blur()

	_, _, ok := sb.Click(0, 5)
	assert.False(t, ok)
}

func TestSearchBar_DropdownIsVirtualized(t *testing.T) {
	var values []string
	for i := 0; i < 20; i++ {
		values = append(values, fmt.Sprintf("host-%02d", i))
	}
	fields := []query.Field{{Key: "host", Expressions: expression.All(), Suggester: query.StaticValues(values)}}

	sb, _ := newTestSearchBar(t, fields)
	sb.MaxSuggestions = 5
	sb = press(sb, runes("host = ")...)

	view := sb.View()
	assert.Contains(t, view, "host-00")
	assert.Contains(t, view, "host-04")
	assert.NotContains(t, view, "host-05")
	assert.Contains(t, view, "↓ 15 more")

	for i := 0; i < 10; i++ {
		sb = press(sb, keyMsg(tea.KeyDown))
	}
	view = sb.View()
	assert.Contains(t, view, "host-10")
	assert.Contains(t, view, "↑ 8 more")
	assert.Contains(t, view, "↓ 7 more")
	assert.Equal(t, 1, strings.Count(view, "host-08"))
}

func TestVisibleWindow(t *testing.T) {
	tests := []struct {
		name                string
		total, active, size int
		wantStart, wantEnd  int
	}{
		{"fits", 3, 1, 8, 0, 3},
		{"head", 20, 0, 5, 0, 5},
		{"centered", 20, 10, 5, 8, 13},
		{"tail", 20, 19, 5, 15, 20},
		{"no active", 20, -1, 5, 0, 5},
		{"unlimited", 20, 3, 0, 0, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := visibleWindow(tt.total, tt.active, tt.size)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}
