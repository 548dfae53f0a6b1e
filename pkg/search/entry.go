// Package search turns the clause list of the search bar into the request
// handed to the log search backend, and evaluates local clauses against
// log entries already loaded.
package search

import (
	"time"

	"github.com/bascanada/seclog/pkg/ty"
)

// Entry is one log line with its extracted fields.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	Fields    ty.MI     `json:"fields"`
}

// Field returns the value of key, looking at the entry attributes first.
// Missing fields return an empty string.
func (e Entry) Field(key string) interface{} {
	switch key {
	case "level", "Level":
		return e.Level
	case "message", "Message":
		return e.Message
	case "timestamp", "Timestamp":
		if e.Timestamp.IsZero() {
			return ""
		}
		return e.Timestamp.Format(ty.Format)
	}
	if val, ok := e.Fields[key]; ok {
		return val
	}
	// Try capitalized version
	if len(key) > 0 && key[0] >= 'a' && key[0] <= 'z' {
		capKey := string(key[0]-32) + key[1:]
		if val, ok := e.Fields[capKey]; ok {
			return val
		}
	}
	return ""
}
