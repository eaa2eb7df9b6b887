package logging

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tc := range cases {
		if got := parseLevel(tc.in); got != tc.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestJSONOutputShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	logger, err := New(Options{Level: "info", Format: "json", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Info("sync complete", String(FieldProvider, "Netflix"), Int("matched", 3))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var record map[string]any
	if err := json.Unmarshal(data, &record); err != nil {
		t.Fatalf("log line is not JSON: %v\n%s", err, data)
	}
	if record["msg"] != "sync complete" {
		t.Fatalf("msg = %v", record["msg"])
	}
	if record["level"] != "info" {
		t.Fatalf("level = %v", record["level"])
	}
	if record["provider"] != "Netflix" {
		t.Fatalf("provider = %v", record["provider"])
	}
	if _, ok := record["ts"]; !ok {
		t.Fatal("timestamp key missing")
	}
}

func TestDebugSuppressedAtInfoLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	logger, err := New(Options{Level: "info", Format: "json", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Debug("noise")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if len(data) != 0 {
		t.Fatalf("debug record should be suppressed, got %s", data)
	}
}

func TestNewComponentLoggerNilBase(t *testing.T) {
	logger := NewComponentLogger(nil, "store")
	if logger == nil {
		t.Fatal("expected usable logger from nil base")
	}
	logger.Info("no-op logger must swallow records")
}
