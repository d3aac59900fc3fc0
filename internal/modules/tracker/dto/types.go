package dto

import "time"

type TrackInput struct {
	From   time.Time
	To     time.Time
	DryRun bool
}

type WindowInput struct {
	From time.Time
	To   time.Time
}

type SessionOutput struct {
	ID              string    `json:"id"`
	TaskName        string    `json:"task_name"`
	WindowTitle     string    `json:"window_title"`
	Category        string    `json:"category"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	ScreenshotCount int       `json:"screenshot_count"`
	GapSeconds      []float64 `json:"gaps"`
	DurationSeconds float64   `json:"duration_seconds"`
	ActiveSeconds   float64   `json:"active_time_seconds"`
	DurationMinutes float64   `json:"duration_minutes"`
	ActiveMinutes   float64   `json:"active_time_minutes"`
	Confidence      float64   `json:"confidence"`
}

type SummaryOutput struct {
	TotalTimeMinutes       float64 `json:"total_time_minutes"`
	ActiveTimeMinutes      float64 `json:"active_time_minutes"`
	UniqueTasks            int     `json:"unique_tasks"`
	LongestSessionMinutes  float64 `json:"longest_session_minutes"`
	FocusScore             int     `json:"focus_score"`
	IdlePercentage         float64 `json:"idle_percentage"`
	SessionsCount          int     `json:"sessions_count"`
	AverageSessionMinutes  float64 `json:"average_session_minutes"`
	HighConfidenceSessions int     `json:"high_confidence_sessions"`
}

type TaskOutput struct {
	TaskName          string    `json:"task_name"`
	Category          string    `json:"category"`
	TotalMinutes      float64   `json:"total_minutes"`
	ActiveMinutes     float64   `json:"active_minutes"`
	SessionCount      int       `json:"session_count"`
	FirstSeen         time.Time `json:"first_seen"`
	LastSeen          time.Time `json:"last_seen"`
	AverageConfidence float64   `json:"average_confidence"`
}

type CategoryOutput struct {
	Category      string  `json:"category"`
	TotalMinutes  float64 `json:"total_minutes"`
	ActiveMinutes float64 `json:"active_minutes"`
	SessionCount  int     `json:"session_count"`
}

type TrackOutput struct {
	From             time.Time       `json:"from"`
	To               time.Time       `json:"to"`
	ObservationCount int             `json:"observation_count"`
	Persisted        bool            `json:"persisted"`
	Sessions         []SessionOutput `json:"sessions"`
	Summary          SummaryOutput   `json:"summary"`
}

type ReportOutput struct {
	Day     time.Time     `json:"day"`
	Path    string        `json:"path"`
	Summary SummaryOutput `json:"summary"`
}
