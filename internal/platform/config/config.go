package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const fileName = "config.yaml"

type Config struct {
	DataDir       string        `yaml:"-"`
	DBPath        string        `yaml:"-"`
	ScreenshotDir string        `yaml:"screenshot_dir"`
	LogLevel      string        `yaml:"log_level"`
	LogFile       string        `yaml:"log_file"`
	HTTPAddr      string        `yaml:"http_addr"`
	NATSURL       string        `yaml:"nats_url"`
	Tracker       TrackerConfig `yaml:"tracker"`
}

// TrackerConfig holds segmentation knobs in whole seconds.
type TrackerConfig struct {
	ScreenshotInterval int            `yaml:"screenshot_interval"`
	MinSessionDuration int            `yaml:"min_session_duration"`
	MaxSessionGap      int            `yaml:"max_session_gap"`
	IdleThreshold      int            `yaml:"idle_threshold"`
	CategoryGaps       map[string]int `yaml:"category_gaps"`
}

func Defaults(dataDir string) Config {
	return Config{
		DataDir:       dataDir,
		DBPath:        filepath.Join(dataDir, "tasktrail.db"),
		ScreenshotDir: filepath.Join(dataDir, "screenshots"),
		LogLevel:      "info",
		LogFile:       filepath.Join(dataDir, "logs", "tasktrail.log"),
		HTTPAddr:      "127.0.0.1:8765",
		Tracker: TrackerConfig{
			ScreenshotInterval: 4,
			MinSessionDuration: 30,
			MaxSessionGap:      600,
			IdleThreshold:      300,
		},
	}
}

// New loads <dataDir>/config.yaml over the defaults and applies environment overrides.
func New(dataDir string) (Config, error) {
	if strings.TrimSpace(dataDir) == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	cfg := Defaults(dataDir)
	if err := cfg.loadFile(filepath.Join(dataDir, fileName)); err != nil {
		return Config{}, err
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	file := Config{}
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return &ParseError{Path: path, Err: err}
	}
	c.merge(file)
	return nil
}

func (c *Config) merge(file Config) {
	if file.ScreenshotDir != "" {
		c.ScreenshotDir = file.ScreenshotDir
	}
	if file.LogLevel != "" {
		c.LogLevel = file.LogLevel
	}
	if file.LogFile != "" {
		c.LogFile = file.LogFile
	}
	if file.HTTPAddr != "" {
		c.HTTPAddr = file.HTTPAddr
	}
	if file.NATSURL != "" {
		c.NATSURL = file.NATSURL
	}
	if file.Tracker.ScreenshotInterval != 0 {
		c.Tracker.ScreenshotInterval = file.Tracker.ScreenshotInterval
	}
	if file.Tracker.MinSessionDuration != 0 {
		c.Tracker.MinSessionDuration = file.Tracker.MinSessionDuration
	}
	if file.Tracker.MaxSessionGap != 0 {
		c.Tracker.MaxSessionGap = file.Tracker.MaxSessionGap
	}
	if file.Tracker.IdleThreshold != 0 {
		c.Tracker.IdleThreshold = file.Tracker.IdleThreshold
	}
	if len(file.Tracker.CategoryGaps) > 0 {
		c.Tracker.CategoryGaps = make(map[string]int, len(file.Tracker.CategoryGaps))
		for category, seconds := range file.Tracker.CategoryGaps {
			c.Tracker.CategoryGaps[category] = seconds
		}
	}
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	ints := []struct {
		key    string
		target *int
	}{
		{"TASKTRAIL_SCREENSHOT_INTERVAL", &c.Tracker.ScreenshotInterval},
		{"TASKTRAIL_MIN_SESSION_DURATION", &c.Tracker.MinSessionDuration},
		{"TASKTRAIL_MAX_SESSION_GAP", &c.Tracker.MaxSessionGap},
		{"TASKTRAIL_IDLE_THRESHOLD", &c.Tracker.IdleThreshold},
	}
	for _, item := range ints {
		raw, ok := lookup(item.key)
		if !ok || strings.TrimSpace(raw) == "" {
			continue
		}
		value, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("%s must be an integer number of seconds: %w", item.key, err)
		}
		*item.target = value
	}
	strs := []struct {
		key    string
		target *string
	}{
		{"TASKTRAIL_LOG_LEVEL", &c.LogLevel},
		{"TASKTRAIL_NATS_URL", &c.NATSURL},
		{"TASKTRAIL_HTTP_ADDR", &c.HTTPAddr},
		{"TASKTRAIL_SCREENSHOT_DIR", &c.ScreenshotDir},
	}
	for _, item := range strs {
		if raw, ok := lookup(item.key); ok && strings.TrimSpace(raw) != "" {
			*item.target = strings.TrimSpace(raw)
		}
	}
	return nil
}

func (c Config) Validate() error {
	if c.Tracker.ScreenshotInterval <= 0 {
		return fmt.Errorf("screenshot_interval must be positive")
	}
	if c.Tracker.MinSessionDuration < 0 {
		return fmt.Errorf("min_session_duration must not be negative")
	}
	if c.Tracker.MaxSessionGap <= 0 {
		return fmt.Errorf("max_session_gap must be positive")
	}
	if c.Tracker.IdleThreshold <= 0 {
		return fmt.Errorf("idle_threshold must be positive")
	}
	for category, seconds := range c.Tracker.CategoryGaps {
		if seconds <= 0 {
			return fmt.Errorf("category gap for %q must be positive", category)
		}
	}
	return nil
}

func (t TrackerConfig) Interval() time.Duration {
	return time.Duration(t.ScreenshotInterval) * time.Second
}

func (t TrackerConfig) MinDuration() time.Duration {
	return time.Duration(t.MinSessionDuration) * time.Second
}

func (t TrackerConfig) MaxGap() time.Duration {
	return time.Duration(t.MaxSessionGap) * time.Second
}

func (t TrackerConfig) Idle() time.Duration {
	return time.Duration(t.IdleThreshold) * time.Second
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
