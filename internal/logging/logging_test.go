// internal/logging/logging_test.go
package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
		"info":  slog.LevelInfo,
		"":      slog.LevelInfo,
		"loud":  slog.LevelInfo,
	}
	for in, want := range cases {
		v := new(slog.LevelVar)
		SetLevel(in, v)
		assert.Equal(t, want, v.Level(), in)
	}
}

func TestNew(t *testing.T) {
	t.Run("writes json at the configured level", func(t *testing.T) {
		var buf bytes.Buffer
		l := New(Options{Level: "warn"}, &buf)

		l.Info("hidden")
		l.Warn("shown", "repo", "octo/app")

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 1)
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
		assert.Equal(t, "shown", entry["msg"])
		assert.Equal(t, "octo/app", entry["repo"])
	})

	t.Run("level can change at runtime", func(t *testing.T) {
		var buf bytes.Buffer
		l := New(Options{Level: "error", Format: "text"}, &buf)
		l.Info("before")
		l.Level.Set(slog.LevelDebug)
		l.Info("after")

		assert.NotContains(t, buf.String(), "before")
		assert.Contains(t, buf.String(), "msg=after")
	})

	t.Run("mirrors output into the rotated file", func(t *testing.T) {
		var buf bytes.Buffer
		path := filepath.Join(t.TempDir(), "sync.log")
		l := New(Options{File: path, MaxSizeMB: 1}, &buf)
		l.Info("persisted")
		require.NoError(t, l.Close())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "persisted")
		assert.Contains(t, buf.String(), "persisted")
	})
}
