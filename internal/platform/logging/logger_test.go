package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := sonic.UnmarshalString(line, &entry); err != nil {
			t.Fatalf("decode log line %q: %v", line, err)
		}
		out = append(out, entry)
	}
	return out
}

func TestLogger_WritesStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: LevelInfo, Service: "football-tournament", Env: "dev", Output: &buf})

	logger.With("component", "scheduler").Info("schedule generated", "matches", 6, "err", errors.New("boom"))
	logger.Debug("dropped")

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("expected 1 log line, got %d", len(lines))
	}

	entry := lines[0]
	if entry["msg"] != "schedule generated" {
		t.Fatalf("unexpected msg: %v", entry["msg"])
	}
	if entry["service"] != "football-tournament" || entry["env"] != "dev" {
		t.Fatalf("expected service fields, got %v", entry)
	}
	if entry["component"] != "scheduler" {
		t.Fatalf("expected component field, got %v", entry["component"])
	}
	if got, _ := entry["matches"].(float64); got != 6 {
		t.Fatalf("expected matches=6, got %v", entry["matches"])
	}
	if entry["err"] != "boom" {
		t.Fatalf("expected err=boom, got %v", entry["err"])
	}
}

func TestLogger_OddArgsAndContextWithoutSpan(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: LevelDebug, Output: &buf})

	logger.DebugContext(context.Background(), "odd", "dangling")

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("expected 1 log line, got %d", len(lines))
	}
	if _, ok := lines[0]["dangling"]; !ok {
		t.Fatalf("expected dangling key to be kept, got %v", lines[0])
	}
	if _, ok := lines[0]["trace_id"]; ok {
		t.Fatalf("did not expect trace_id without span")
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]Level{"": LevelInfo, "DEBUG": LevelDebug, "warning": LevelWarn, " error ": LevelError}
	for raw, want := range tests {
		got, err := ParseLevel(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if got != want {
			t.Fatalf("parse %q: expected %v, got %v", raw, want, got)
		}
	}

	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestNilLoggerFallsBackToDefault(t *testing.T) {
	var logger *Logger
	logger.Info("no panic")
	if logger.Enabled(LevelError) {
		t.Fatalf("nil logger should report disabled")
	}
}
