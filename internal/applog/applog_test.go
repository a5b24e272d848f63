package applog

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestLogger_Log(t *testing.T) {
	var buf bytes.Buffer
	loc := time.FixedZone("WIB", 7*3600)
	l := New(&buf, loc)
	l.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

	l.Log(map[string]any{"event": "a"})
	l.Log(map[string]any{"event": "b", "status": "error"})
	l.Log(map[string]any{"event": "c", "status": "error", "level": "warn"})

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 3)
	assert.Equal(t, "2024-01-02T10:04:05+07:00", lines[0]["ts"])
	assert.Equal(t, "info", lines[0]["level"])
	assert.Equal(t, "error", lines[1]["level"])
	assert.Equal(t, "warn", lines[2]["level"])
}

func TestLogger_Helpers(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, nil)

	l.Info("storage", "sweep_done", map[string]any{"removed": 2})
	l.Error("service", "analyze_failed", errors.New("boom"), nil)
	l.Warn("storage", "cleanup_failed", nil, map[string]any{"event": "ignored"})

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 3)

	assert.Equal(t, "storage", lines[0]["component"])
	assert.Equal(t, "sweep_done", lines[0]["event"])
	assert.Equal(t, float64(2), lines[0]["removed"])
	assert.Equal(t, "info", lines[0]["level"])

	assert.Equal(t, "error", lines[1]["level"])
	assert.Equal(t, "boom", lines[1]["error_message"])

	assert.Equal(t, "warn", lines[2]["level"])
	assert.Equal(t, "cleanup_failed", lines[2]["event"])
	assert.NotContains(t, lines[2], "error_message")
}

func TestDefault(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	var buf bytes.Buffer
	SetDefault(New(&buf, time.UTC))
	Default().Info("test", "hello", nil)

	assert.Contains(t, buf.String(), `"event":"hello"`)
}
