package domain

import (
	"fmt"
	"time"
)

const (
	CategoryCoding        = "Coding"
	CategoryCommunication = "Communication"
	CategoryResearch      = "Research/Browsing"
	CategoryDocumentation = "Documentation"
	CategoryMeetings      = "Meetings"
	CategoryDesign        = "Design"
	CategoryDataAnalysis  = "Data Analysis"
	CategoryMedia         = "Media/Video"
	CategoryGaming        = "Gaming"
	CategorySystem        = "System/Settings"
	CategoryAITools       = "AI Tools"
	CategoryOther         = "Other"
)

// GapThresholds maps a category to the longest pause that still continues a session.
// The table is copied on construction and never mutated afterwards.
type GapThresholds struct {
	byCategory map[string]time.Duration
}

func NewGapThresholds(table map[string]time.Duration) GapThresholds {
	copied := make(map[string]time.Duration, len(table))
	for category, gap := range table {
		copied[category] = gap
	}
	return GapThresholds{byCategory: copied}
}

func DefaultGapThresholds() GapThresholds {
	return NewGapThresholds(map[string]time.Duration{
		CategoryCoding:        600 * time.Second,
		CategoryCommunication: 300 * time.Second,
		CategoryResearch:      900 * time.Second,
		CategoryDocumentation: 600 * time.Second,
		CategoryMeetings:      300 * time.Second,
		CategoryDesign:        600 * time.Second,
		CategoryDataAnalysis:  600 * time.Second,
		CategoryMedia:         1200 * time.Second,
		CategoryGaming:        300 * time.Second,
		CategorySystem:        300 * time.Second,
		CategoryAITools:       600 * time.Second,
		CategoryOther:         600 * time.Second,
	})
}

// With returns a new table with overrides applied on top of t.
func (t GapThresholds) With(overrides map[string]time.Duration) GapThresholds {
	merged := make(map[string]time.Duration, len(t.byCategory)+len(overrides))
	for category, gap := range t.byCategory {
		merged[category] = gap
	}
	for category, gap := range overrides {
		merged[category] = gap
	}
	return GapThresholds{byCategory: merged}
}

func (t GapThresholds) Lookup(category string, fallback time.Duration) time.Duration {
	if gap, ok := t.byCategory[category]; ok {
		return gap
	}
	return fallback
}

func (t GapThresholds) Len() int {
	return len(t.byCategory)
}

type Settings struct {
	ScreenshotInterval time.Duration
	MinSessionDuration time.Duration
	MaxSessionGap      time.Duration
	Thresholds         GapThresholds
}

func DefaultSettings() Settings {
	return Settings{
		ScreenshotInterval: 4 * time.Second,
		MinSessionDuration: 30 * time.Second,
		MaxSessionGap:      600 * time.Second,
		Thresholds:         DefaultGapThresholds(),
	}
}

func (s Settings) Validate() error {
	if s.ScreenshotInterval <= 0 {
		return fmt.Errorf("screenshot interval must be positive")
	}
	if s.MinSessionDuration < 0 {
		return fmt.Errorf("min session duration must not be negative")
	}
	if s.MaxSessionGap <= 0 {
		return fmt.Errorf("max session gap must be positive")
	}
	for category, gap := range s.Thresholds.byCategory {
		if gap <= 0 {
			return fmt.Errorf("gap threshold for %q must be positive", category)
		}
	}
	return nil
}

func (s Settings) GapThreshold(category string) time.Duration {
	return s.Thresholds.Lookup(category, s.MaxSessionGap)
}
