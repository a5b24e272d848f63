// Package applog writes one JSON object per line, the format used by the
// access log, migrations and background jobs.
package applog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Logger serializes structured events to a writer.
type Logger struct {
	mu  sync.Mutex
	w   io.Writer
	loc *time.Location
	now func() time.Time
}

// New returns a Logger that timestamps events in loc.
func New(w io.Writer, loc *time.Location) *Logger {
	if loc == nil {
		loc = time.UTC
	}
	return &Logger{w: w, loc: loc, now: time.Now}
}

var (
	defaultMu sync.RWMutex
	std       = New(os.Stdout, time.UTC)
)

// Default returns the process-wide logger.
func Default() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return std
}

// SetDefault replaces the process-wide logger.
func SetDefault(l *Logger) {
	defaultMu.Lock()
	std = l
	defaultMu.Unlock()
}

// Log writes data with "ts" and "level" filled in. A "status" of "error"
// implies level "error" unless level is already set.
func (l *Logger) Log(data map[string]any) {
	data["ts"] = l.now().In(l.loc).Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		b = []byte(fmt.Sprintf(`{"level":"error","event":"log_marshal_failed","error_message":%q}`, err.Error()))
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.w.Write(append(b, '\n'))
}

// Info logs a successful event for component.
func (l *Logger) Info(component, event string, fields map[string]any) {
	l.Log(merge(fields, map[string]any{
		"component": component,
		"event":     event,
		"status":    "success",
	}))
}

// Warn logs a recoverable problem.
func (l *Logger) Warn(component, event string, err error, fields map[string]any) {
	data := merge(fields, map[string]any{
		"component": component,
		"event":     event,
		"level":     "warn",
	})
	if err != nil {
		data["error_message"] = err.Error()
	}
	l.Log(data)
}

// Error logs a failed event for component.
func (l *Logger) Error(component, event string, err error, fields map[string]any) {
	data := merge(fields, map[string]any{
		"component": component,
		"event":     event,
		"status":    "error",
	})
	if err != nil {
		data["error_message"] = err.Error()
	}
	l.Log(data)
}

func merge(fields, base map[string]any) map[string]any {
	out := make(map[string]any, len(fields)+len(base)+2)
	for k, v := range fields {
		out[k] = v
	}
	for k, v := range base {
		out[k] = v
	}
	return out
}
