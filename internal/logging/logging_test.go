package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"resumeSync/internal/config"
)

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, config.LogConfig{Format: "JSON", Level: "warn"})

	logger.Info("hidden")
	logger.Warn("shown", "field", "name")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if entry["msg"] != "shown" || entry["field"] != "name" {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestNewWithWriter_TextFallback(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, config.LogConfig{Format: "", Level: "nonsense"})

	logger.Info("ready")
	if !strings.Contains(buf.String(), "msg=ready") {
		t.Fatalf("text output = %q", buf.String())
	}
}
