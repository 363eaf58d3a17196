package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
)

func TestWithContextCarriesAttributes(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, "debug", true)
	t.Cleanup(func() { defaultLogger = nil })

	ctx := NewContext(context.Background(), "session_id", "abc")
	ctx = NewContext(ctx, "player_id", 7)
	WithContext(ctx).Info("tick")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if line["session_id"] != "abc" || line["player_id"] != float64(7) || line["msg"] != "tick" {
		t.Fatalf("unexpected log line: %v", line)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, "WARN", false)
	t.Cleanup(func() { defaultLogger = nil })

	Info("hidden")
	Warn("shown")

	if bytes.Contains(buf.Bytes(), []byte("hidden")) || !bytes.Contains(buf.Bytes(), []byte("shown")) {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}
