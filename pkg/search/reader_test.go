package search

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bascanada/seclog/pkg/ty"
)

func TestReadEntries(t *testing.T) {
	input := strings.Join([]string{
		`2024-06-24T15:27:29.669455265Z level=WARN source_ip=10.0.0.5 user="root admin" Failed password`,
		``,
		`{"timestamp":"2024-06-24T15:28:00Z","level":"INFO","msg":"connection accepted","port":443}`,
		`plain line without fields`,
	}, "\n")

	entries, err := ReadEntries(strings.NewReader(input), ReadOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 3)

	expected, _ := time.Parse(ty.Format, "2024-06-24T15:27:29.669455265Z")
	assert.Equal(t, expected, entries[0].Timestamp)
	assert.Equal(t, "WARN", entries[0].Level)
	assert.Equal(t, "10.0.0.5", entries[0].Fields["source_ip"])
	assert.Equal(t, "root admin", entries[0].Fields["user"])
	assert.True(t, strings.HasPrefix(entries[0].Message, "level=WARN"))

	assert.Equal(t, "INFO", entries[1].Level)
	assert.Equal(t, "connection accepted", entries[1].Message)
	assert.Equal(t, "443", entries[1].Fields.GetString("port"))
	assert.False(t, entries[1].Timestamp.IsZero())

	assert.Equal(t, "plain line without fields", entries[2].Message)
	assert.Empty(t, entries[2].Fields)
}

func TestReadEntries_OtherTimestampLayouts(t *testing.T) {
	input := `{"@timestamp":"Mon, 24 Jun 2024 15:28:00 +0000","msg":"rfc1123"}
{"time":"not a date","msg":"kept as field"}`

	entries, err := ReadEntries(strings.NewReader(input), ReadOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, time.Date(2024, 6, 24, 15, 28, 0, 0, time.UTC), entries[0].Timestamp)
	assert.True(t, entries[1].Timestamp.IsZero())
	assert.Equal(t, "not a date", entries[1].Fields["time"])
}

func TestReadEntries_InvalidRegex(t *testing.T) {
	_, err := ReadEntries(strings.NewReader(""), ReadOptions{KvRegex: ty.OptWrap("(")})
	assert.ErrorContains(t, err, "invalid kv regex")
}

func TestEntryField(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	e := Entry{Timestamp: ts, Level: "ERROR", Message: "boom", Fields: ty.MI{"Host": "web-01"}}

	assert.Equal(t, "ERROR", e.Field("level"))
	assert.Equal(t, "boom", e.Field("message"))
	assert.Equal(t, "2024-01-02T03:04:05Z", e.Field("timestamp"))
	assert.Equal(t, "web-01", e.Field("host"))
	assert.Equal(t, "", e.Field("missing"))
	assert.Equal(t, "", Entry{}.Field("timestamp"))
}
