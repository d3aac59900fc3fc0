package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"tasktrail/internal/platform/config"
)

func TestNewWithoutFileUsesDefaults(t *testing.T) {
	t.Setenv("TASKTRAIL_SCREENSHOT_INTERVAL", "")
	dir := t.TempDir()
	cfg, err := config.New(dir)
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.DBPath != filepath.Join(dir, "tasktrail.db") {
		t.Fatalf("unexpected db path: %s", cfg.DBPath)
	}
	if cfg.Tracker.Interval() != 4*time.Second || cfg.Tracker.MinDuration() != 30*time.Second || cfg.Tracker.MaxGap() != 600*time.Second {
		t.Fatalf("unexpected tracker defaults: %+v", cfg.Tracker)
	}
	if cfg.Tracker.Idle() != 5*time.Minute {
		t.Fatalf("unexpected idle threshold: %s", cfg.Tracker.Idle())
	}
}

func TestNewRequiresDataDir(t *testing.T) {
	t.Parallel()
	if _, err := config.New("  "); err == nil {
		t.Fatalf("expected empty data dir to fail")
	}
}

func TestNewMergesFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	raw := `log_level: debug
tracker:
  screenshot_interval: 5
  max_session_gap: 900
  category_gaps:
    Coding: 1200
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(raw), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("TASKTRAIL_SCREENSHOT_INTERVAL", "10")
	t.Setenv("TASKTRAIL_NATS_URL", "nats://127.0.0.1:4222")

	cfg, err := config.New(dir)
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected log level from file, got %s", cfg.LogLevel)
	}
	if cfg.Tracker.ScreenshotInterval != 10 {
		t.Fatalf("env should override file interval, got %d", cfg.Tracker.ScreenshotInterval)
	}
	if cfg.Tracker.MaxSessionGap != 900 || cfg.Tracker.MinSessionDuration != 30 {
		t.Fatalf("unexpected merged tracker config: %+v", cfg.Tracker)
	}
	if cfg.Tracker.CategoryGaps["Coding"] != 1200 {
		t.Fatalf("expected category override, got %+v", cfg.Tracker.CategoryGaps)
	}
	if cfg.NATSURL != "nats://127.0.0.1:4222" {
		t.Fatalf("expected nats url from env, got %q", cfg.NATSURL)
	}
}

func TestNewRejectsUnknownKeysAndBadValues(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("screenshot_every: 3\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, err := config.New(dir)
	var parseErr *config.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected parse error, got %v", err)
	}

	other := t.TempDir()
	if err := os.WriteFile(filepath.Join(other, "config.yaml"), []byte("tracker:\n  category_gaps:\n    Coding: -5\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := config.New(other); err == nil {
		t.Fatalf("expected negative category gap to fail")
	}

	t.Setenv("TASKTRAIL_MAX_SESSION_GAP", "ten")
	if _, err := config.New(t.TempDir()); err == nil {
		t.Fatalf("expected non-numeric env override to fail")
	}
}
