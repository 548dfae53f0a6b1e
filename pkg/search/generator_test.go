package search

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bascanada/seclog/pkg/query"
)

func TestGenerate(t *testing.T) {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	opts := GeneratorOptions{
		Size:      50,
		Seed:      42,
		ErrorRate: 100,
		Start:     start,
		Span:      time.Hour,
		Hosts:     []string{"web-01", "web-02"},
	}

	entries := Generate(opts)
	require.Len(t, entries, 50)

	for i, e := range entries {
		assert.Equal(t, "ERROR", e.Level)
		assert.Contains(t, []string{"deny", "drop"}, e.Fields["action"])
		assert.Contains(t, opts.Hosts, e.Fields["host"])
		assert.NotEmpty(t, e.Message)
		if i > 0 {
			assert.False(t, e.Timestamp.Before(entries[i-1].Timestamp), "sorted")
		}
	}
	assert.Equal(t, start, entries[0].Timestamp)
	assert.True(t, entries[49].Timestamp.Before(start.Add(time.Hour)))

	again := Generate(opts)
	assert.Equal(t, entries, again, "same seed, same events")
}

func TestWriteJSONLines_ReadBack(t *testing.T) {
	entries := Generate(GeneratorOptions{Size: 5, Seed: 7, WarnRate: 50, Start: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)})

	var buf bytes.Buffer
	require.NoError(t, WriteJSONLines(&buf, entries))

	read, err := ReadEntries(&buf, ReadOptions{})
	require.NoError(t, err)
	require.Len(t, read, 5)
	for i := range entries {
		assert.Equal(t, entries[i].Timestamp, read[i].Timestamp)
		assert.Equal(t, entries[i].Level, read[i].Level)
		assert.Equal(t, entries[i].Message, read[i].Message)
		assert.Equal(t, entries[i].Fields["source_ip"], read[i].Fields["source_ip"])
		assert.Equal(t, entries[i].Fields["user"], read[i].Fields["user"])
	}

	// generated entries go through the local filters
	matched := Evaluate(read, []Condition{{Field: "user", Expression: "eq", Value: query.Scalar(entries[0].Fields.GetString("user"))}})
	assert.NotEmpty(t, matched)
}
