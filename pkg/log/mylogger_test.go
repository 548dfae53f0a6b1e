package log

import (
	"bytes"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureMyLogger(t *testing.T) {
	defer log.SetOutput(io.Discard)

	t.Run("levels", func(t *testing.T) {
		tests := []struct {
			levelStr string
			expected int
		}{
			{"TRACE", LevelTrace},
			{"debug", LevelDebug},
			{"INFO", LevelInfo},
			{"WARN", LevelWarn},
			{"ERROR", LevelError},
			{"UNKNOWN", LevelInfo},
			{"", LevelInfo},
		}

		for _, tt := range tests {
			require.NoError(t, ConfigureMyLogger(&MyLoggerOptions{Level: tt.levelStr}))
			assert.Equal(t, tt.expected, currentLevel)
		}
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "seclog.log")
		require.NoError(t, ConfigureMyLogger(&MyLoggerOptions{Path: path, Level: "DEBUG"}))

		Debug("dispatch %s", "create")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "[DEBUG] dispatch create")
	})

	t.Run("bad path", func(t *testing.T) {
		err := ConfigureMyLogger(&MyLoggerOptions{Path: filepath.Join(t.TempDir(), "missing", "x.log")})
		assert.Error(t, err)
	})

	t.Run("logging", func(t *testing.T) {
		var buf bytes.Buffer
		log.SetOutput(&buf)
		currentLevel = LevelDebug

		Debug("debug msg")
		Info("info msg")
		Warn("warn msg")
		Error("error msg")
		Trace("trace msg")

		assert.Contains(t, buf.String(), "debug msg")
		assert.Contains(t, buf.String(), "info msg")
		assert.Contains(t, buf.String(), "warn msg")
		assert.Contains(t, buf.String(), "error msg")
		assert.NotContains(t, buf.String(), "trace msg")

		buf.Reset()
		currentLevel = LevelError
		Debug("debug msg")
		Warn("warn msg")

		assert.NotContains(t, buf.String(), "debug msg")
		assert.NotContains(t, buf.String(), "warn msg")
	})
}
