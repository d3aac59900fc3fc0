package logging_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tasktrail/internal/platform/logging"
)

func TestNewWritesLeveledLines(t *testing.T) {
	t.Parallel()
	buf := &bytes.Buffer{}
	logger := logging.New("tasktrail", logging.Options{Level: "warn", Output: buf})
	logger.Info("hidden")
	logger.Warn("visible", "sessions", 3)
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line should be filtered at warn level: %s", out)
	}
	if !strings.Contains(out, "visible") || !strings.Contains(out, "sessions=3") {
		t.Fatalf("expected warn line with fields, got %s", out)
	}
}

func TestNewTeesIntoRotatingFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "logs", "tasktrail.log")
	logger := logging.New("tasktrail", logging.Options{Level: "info", Output: &bytes.Buffer{}, File: path, JSON: true})
	logger.Info("watcher started")
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(raw), `"@message":"watcher started"`) {
		t.Fatalf("expected json line in log file, got %s", raw)
	}
}

func TestRotatingFileCreatesNestedDirectories(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "a", "b", "tasktrail.log")
	w := logging.RotatingFile(path)
	if _, err := w.Write([]byte("line\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if c, ok := w.(io.Closer); ok {
		_ = c.Close()
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected log file at %s: %v", path, err)
	}
}
