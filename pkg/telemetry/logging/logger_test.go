package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"WARN", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
	}
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(slog.LevelInfo, FormatJSON, &buf)
	logger.Info("scan finalized", "score", 4.2)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Output is not JSON: %v\n%s", err, buf.String())
	}
	if entry["msg"] != "scan finalized" {
		t.Errorf("Expected message field, got %v", entry["msg"])
	}
	if entry["score"] != 4.2 {
		t.Errorf("Expected score attribute, got %v", entry["score"])
	}
}

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(slog.LevelInfo, FormatText, &buf)
	logger.Info("scan finalized")

	if !strings.Contains(buf.String(), "scan finalized") {
		t.Errorf("Expected text output, got %q", buf.String())
	}
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := New(slog.LevelWarn, FormatText, &buf)
	logger.Info("should be dropped")
	logger.Warn("should appear")

	out := buf.String()
	if strings.Contains(out, "should be dropped") {
		t.Error("Info record leaked past warn level")
	}
	if !strings.Contains(out, "should appear") {
		t.Error("Warn record missing")
	}
}

func TestSetup_InvalidLevelFallsBack(t *testing.T) {
	var buf bytes.Buffer
	logger, err := Setup("shouting", "text", &buf)
	if err == nil {
		t.Error("Expected error for unknown level")
	}
	if logger == nil {
		t.Fatal("Setup must still return a usable logger")
	}
	logger.Info("still works")
	if !strings.Contains(buf.String(), "still works") {
		t.Error("Fallback logger did not write")
	}
}
