package search

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/bascanada/seclog/pkg/ty"
)

// DefaultKvRegex extracts key=value pairs, values may be double quoted.
const DefaultKvRegex = `([a-zA-Z_][a-zA-Z0-9_.]*)=("[^"]*"|[^\s,]+)`

// ReadOptions configure the extraction of fields from raw lines.
type ReadOptions struct {
	KvRegex        ty.Opt[string]
	TimestampRegex ty.Opt[string]
}

type lineReader struct {
	kvRegex   *regexp.Regexp
	dateRegex *regexp.Regexp
}

// ReadEntries reads one entry per non empty line. JSON object lines are
// decoded, their timestamp, level and message keys filling the entry
// attributes; other lines get a leading timestamp and key=value pairs
// extracted.
func ReadEntries(r io.Reader, opts ReadOptions) ([]Entry, error) {
	lr, err := newLineReader(opts)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		entries = append(entries, lr.parseLine(line))
	}
	if err := scanner.Err(); err != nil {
		return entries, fmt.Errorf("reading entries: %w", err)
	}
	return entries, nil
}

func newLineReader(opts ReadOptions) (*lineReader, error) {
	kv, err := regexp.Compile(opts.KvRegex.Or(DefaultKvRegex))
	if err != nil {
		return nil, fmt.Errorf("invalid kv regex: %w", err)
	}
	date, err := regexp.Compile(opts.TimestampRegex.Or(ty.RegexTimestampFormat))
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp regex: %w", err)
	}
	return &lineReader{kvRegex: kv, dateRegex: date}, nil
}

func (lr *lineReader) parseLine(line string) Entry {
	if strings.HasPrefix(line, "{") {
		if entry, ok := parseJSONLine(line); ok {
			return entry
		}
	}

	entry := Entry{Message: line, Fields: ty.MI{}}

	if loc := lr.dateRegex.FindStringIndex(line); loc != nil {
		if ts, ok := parseTimestamp(line[loc[0]:loc[1]]); ok {
			entry.Timestamp = ts
			entry.Message = strings.TrimLeft(line[:loc[0]]+line[loc[1]:], " ")
		}
	}

	for _, match := range lr.kvRegex.FindAllStringSubmatch(entry.Message, -1) {
		if len(match) >= 3 {
			entry.Fields[match[1]] = strings.Trim(match[2], `"`)
		}
	}

	entry.Level = entry.Fields.GetString("level")
	return entry
}

func parseJSONLine(line string) (Entry, bool) {
	var raw ty.MI
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return Entry{}, false
	}

	entry := Entry{Fields: ty.MI{}}
	for k, v := range raw {
		switch k {
		case "timestamp", "@timestamp", "time":
			if ts, ok := parseTimestamp(fmt.Sprint(v)); ok {
				entry.Timestamp = ts
				continue
			}
			entry.Fields[k] = v
		case "level":
			entry.Level = fmt.Sprint(v)
		case "message", "msg":
			entry.Message = fmt.Sprint(v)
		default:
			entry.Fields[k] = v
		}
	}
	return entry, true
}

// parseTimestamp reads RFC3339 first, then any layout dateparse knows.
func parseTimestamp(s string) (time.Time, bool) {
	if ts, err := time.Parse(ty.Format, s); err == nil {
		return ts, true
	}
	ts, err := dateparse.ParseAny(s)
	if err != nil {
		return time.Time{}, false
	}
	return ts.UTC(), true
}
