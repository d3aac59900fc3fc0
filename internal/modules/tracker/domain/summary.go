package domain

import "math"

const (
	deepWorkMinutes       = 30.0
	focusPointsPerSession = 10
	maxFocusScore         = 100
	highConfidence        = 0.8
)

type DailySummary struct {
	TotalTimeMinutes       float64
	ActiveTimeMinutes      float64
	UniqueTasks            int
	LongestSessionMinutes  float64
	FocusScore             int
	IdlePercentage         float64
	SessionsCount          int
	AverageSessionMinutes  float64
	HighConfidenceSessions int
}

// SummarizeDay reduces sessions to one summary. An empty slice yields the zero value.
func SummarizeDay(sessions []TaskSession) DailySummary {
	if len(sessions) == 0 {
		return DailySummary{}
	}
	var total, active, longest float64
	deepWork := 0
	highConf := 0
	tasks := map[string]struct{}{}
	for _, session := range sessions {
		minutes := session.DurationMinutes()
		total += minutes
		active += session.ActiveMinutes()
		longest = math.Max(longest, minutes)
		if minutes >= deepWorkMinutes {
			deepWork++
		}
		if session.Confidence > highConfidence {
			highConf++
		}
		tasks[session.TaskName] = struct{}{}
	}

	idle := 0.0
	if total > 0 {
		idle = (total - active) / total * 100
	}
	focus := deepWork * focusPointsPerSession
	if focus > maxFocusScore {
		focus = maxFocusScore
	}
	return DailySummary{
		TotalTimeMinutes:       round1(total),
		ActiveTimeMinutes:      round1(active),
		UniqueTasks:            len(tasks),
		LongestSessionMinutes:  round1(longest),
		FocusScore:             focus,
		IdlePercentage:         round1(idle),
		SessionsCount:          len(sessions),
		AverageSessionMinutes:  round1(total / float64(len(sessions))),
		HighConfidenceSessions: highConf,
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
