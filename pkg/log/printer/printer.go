// Package printer writes clauses, suggestions, requests and log entries
// to the terminal.
package printer

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/TylerBrock/colorjson"
	"github.com/fatih/color"

	"github.com/bascanada/seclog/pkg/query"
	"github.com/bascanada/seclog/pkg/search"
	"github.com/bascanada/seclog/pkg/ty"
)

// DefaultTemplate is the line printed for each log entry.
const DefaultTemplate = `[{{FormatTimestamp .Timestamp "15:04:05"}}] {{Level .Level}} {{.Message}}`

var (
	fieldColor      = color.New(color.FgCyan)
	expressionColor = color.New(color.FgYellow)
	valueColor      = color.New(color.FgGreen)
	errorColor      = color.New(color.FgRed, color.Underline)
	mutedColor      = color.New(color.Faint)
	activeColor     = color.New(color.Bold, color.FgMagenta)
)

// PrintJSON writes v indented, colored when color is enabled.
func PrintJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	if IsColorEnabled() {
		// colorjson only walks decoded maps and slices
		var generic interface{}
		if err := json.Unmarshal(data, &generic); err != nil {
			return err
		}
		f := colorjson.NewFormatter()
		f.Indent = 2
		if data, err = f.Marshal(generic); err != nil {
			return err
		}
	}

	_, err = fmt.Fprintln(w, string(data))
	return err
}

// FormatClause renders c with its tokens colored, the token holding the
// validation error underlined.
func FormatClause(c query.Clause, verr *query.ValidationError) string {
	var parts []string
	colors := map[query.Position]*color.Color{
		query.PositionField:      fieldColor,
		query.PositionExpression: expressionColor,
		query.PositionValue:      valueColor,
	}
	for _, p := range query.Positions {
		text, ok := token(c, p)
		if !ok {
			continue
		}
		col := colors[p]
		if verr != nil && verr.Position == p {
			col = errorColor
		}
		parts = append(parts, col.Sprint(text))
	}
	return strings.Join(parts, query.Separator)
}

func token(c query.Clause, p query.Position) (string, bool) {
	switch p {
	case query.PositionField:
		return c.Field.Get()
	case query.PositionExpression:
		return c.Expression.Get()
	}
	v, ok := c.Value.Get()
	return v.String(), ok
}

// PrintClause writes the colored clause followed by its validation error.
func PrintClause(w io.Writer, c query.Clause, verr *query.ValidationError) error {
	line := FormatClause(c, verr)
	if verr != nil {
		line += "  " + errorColor.Sprint(verr.Error())
	}
	_, err := fmt.Fprintln(w, line)
	return err
}

// PrintCandidates writes one candidate per line, the active one marked.
func PrintCandidates(w io.Writer, cands []query.Candidate, active int) error {
	for i, c := range cands {
		marker := "  "
		label := c.Label()
		if i == active {
			marker = "> "
			label = activeColor.Sprint(label)
		}
		line := marker + label
		if len(c.Tags) > 0 {
			line += " " + mutedColor.Sprintf("[%s]", strings.Join(c.Tags, ", "))
		}
		if c.Description != "" {
			line += " " + mutedColor.Sprint(c.Description)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// PrintEntries writes entries through the text template tmpl, the
// default template when empty.
func PrintEntries(w io.Writer, entries []search.Entry, tmpl string) error {
	if tmpl == "" {
		tmpl = DefaultTemplate
	}
	t, err := template.New("entry").Funcs(TemplateFunctions()).Parse(tmpl + "\n")
	if err != nil {
		return fmt.Errorf("invalid template: %w", err)
	}
	for _, e := range entries {
		if err := t.Execute(w, e); err != nil {
			return err
		}
	}
	return nil
}

// TemplateFunctions are the helpers available to entry templates.
func TemplateFunctions() template.FuncMap {
	return template.FuncMap{
		"FormatTimestamp": FormatTimestamp,
		"Level":           Level,
		"KV":              KV,
		"Trim":            strings.TrimSpace,
	}
}

// FormatTimestamp formats ts in local time, N/A when unset.
func FormatTimestamp(ts time.Time, layout string) string {
	if ts.IsZero() {
		return "N/A"
	}
	return ts.Local().Format(layout)
}

// Level colors a log level by severity.
func Level(level string) string {
	switch strings.ToUpper(level) {
	case "ERROR", "FATAL", "CRITICAL":
		return color.RedString(level)
	case "WARN", "WARNING":
		return color.YellowString(level)
	case "DEBUG", "TRACE":
		return mutedColor.Sprint(level)
	}
	return level
}

// KV renders fields as sorted key=value pairs.
func KV(values ty.MI) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	items := make([]string, 0, len(values))
	for _, k := range keys {
		items = append(items, fmt.Sprintf("%s=%v", k, values[k]))
	}
	return strings.Join(items, " ")
}
