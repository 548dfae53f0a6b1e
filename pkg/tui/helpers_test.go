package tui

import (
	"bytes"
	"fmt"
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/muesli/termenv"

	"github.com/bascanada/seclog/pkg/query"
	"github.com/bascanada/seclog/pkg/query/expression"
	"github.com/bascanada/seclog/pkg/search"
	"github.com/bascanada/seclog/pkg/ty"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func sequentialKeys() query.KeyFunc {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("K%d", n)
	}
}

func testFields() []query.Field {
	return []query.Field{
		{
			Key:         "source_ip",
			Description: "Source address",
			Expressions: expression.All(),
			Suggester:   query.StaticValues{"10.0.0.1", "10.0.0.2", "192.168.1.10"},
		},
		{
			Key:              "protocol",
			Description:      "Transport protocol",
			Expressions:      expression.Lookup(expression.Equals, expression.In, expression.NotIn),
			LocalExpressions: expression.Local(),
			Suggester:        query.StaticValues{"TCP", "UDP"},
		},
		{
			Key:         "user",
			Description: "Account name",
			Expressions: expression.All(),
		},
	}
}

func testEntries() []search.Entry {
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	return []search.Entry{
		{
			Timestamp: base,
			Level:     "INFO",
			Message:   "connection accepted",
			Fields:    ty.MI{"source_ip": "10.0.0.1", "protocol": "TCP", "user": "alice"},
		},
		{
			Timestamp: base.Add(time.Minute),
			Level:     "WARN",
			Message:   "port scan detected",
			Fields:    ty.MI{"source_ip": "10.0.0.2", "protocol": "UDP", "user": "bob"},
		},
		{
			Timestamp: base.Add(2 * time.Minute),
			Level:     "ERROR",
			Message:   "login failed",
			Fields:    ty.MI{"source_ip": "192.168.1.10", "protocol": "TCP", "user": "mallory"},
		},
	}
}

func runes(s string) []tea.Msg {
	msgs := make([]tea.Msg, 0, len(s))
	for _, r := range s {
		msgs = append(msgs, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return msgs
}

func keyMsg(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

// --- teatest helpers ---

func waitForCondition(t *testing.T, tm *teatest.TestModel, condition func([]byte) bool, msg ...string) {
	t.Helper()
	var seen []byte
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		out, err := io.ReadAll(tm.Output())
		if err != nil {
			t.Logf("Error reading output: %v", err)
		}
		seen = append(seen, out...)
		if condition(seen) {
			return
		}
		time.Sleep(100 * time.Millisecond)
	}
	failMsg := "Timeout waiting for condition"
	if len(msg) > 0 {
		failMsg = msg[0]
	}
	t.Errorf("%s. Last output:\n%s", failMsg, string(seen))
}

type TestStep struct {
	Name          string
	Action        func(tm *teatest.TestModel)
	ExpectPresent []string
}

func RunScenario(t *testing.T, tm *teatest.TestModel, steps []TestStep) {
	for i, step := range steps {
		t.Logf(">> Running Step %d: %s", i+1, step.Name)

		if step.Action != nil {
			step.Action(tm)
		}

		condition := func(bts []byte) bool {
			for _, s := range step.ExpectPresent {
				if !bytes.Contains(bts, []byte(s)) {
					return false
				}
			}
			return true
		}

		waitForCondition(t, tm, condition, fmt.Sprintf("Step %d (%s) validation failed", i+1, step.Name))
	}
}
