package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{" warn ", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSetup_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "photowall.log")

	logger, closer, err := Setup(Options{File: path, Level: "WARN"})
	if err != nil {
		t.Fatalf("Setup returned error: %v", err)
	}
	Component(logger, "poller").Info("dropped")
	Component(logger, "poller").Warn("list fetch failed", "url", "https://example.test")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("log lines = %d, want 1 (INFO filtered): %q", len(lines), data)
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if rec["msg"] != "list fetch failed" || rec["component"] != "poller" || rec["level"] != "WARN" {
		t.Fatalf("record = %v", rec)
	}
}

func TestSetup_MirrorReceivesRecords(t *testing.T) {
	var mirror bytes.Buffer
	logger, closer, err := Setup(Options{File: filepath.Join(t.TempDir(), "a.log"), Mirror: &mirror})
	if err != nil {
		t.Fatalf("Setup returned error: %v", err)
	}
	defer closer.Close()

	logger.Info("hello")
	if !strings.Contains(mirror.String(), `"msg":"hello"`) {
		t.Fatalf("mirror = %q, want hello record", mirror.String())
	}
}

func TestSetup_ExpandsTilde(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	_, closer, err := Setup(Options{File: "~/logs/wall.log"})
	if err != nil {
		t.Fatalf("Setup returned error: %v", err)
	}
	closer.Close()
	if _, err := os.Stat(filepath.Join(home, "logs", "wall.log")); err != nil {
		t.Fatalf("log file not created under HOME: %v", err)
	}
}

func TestSetup_EmptyPathErrors(t *testing.T) {
	if _, _, err := Setup(Options{File: "  "}); err == nil {
		t.Fatalf("Setup returned nil error, want error")
	}
}
