package domain

import "time"

const SchemaVersion = 1

// TaskSession is a closed, immutable run of observations sharing one task name.
type TaskSession struct {
	ID              string
	TaskName        string
	WindowTitle     string
	Category        string
	StartTime       time.Time
	EndTime         time.Time
	ScreenshotCount int
	Gaps            []time.Duration
	Confidence      float64
}

func (s TaskSession) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}

func (s TaskSession) TotalGap() time.Duration {
	var total time.Duration
	for _, gap := range s.Gaps {
		total += gap
	}
	return total
}

func (s TaskSession) ActiveTime() time.Duration {
	active := s.Duration() - s.TotalGap()
	if active < 0 {
		return 0
	}
	return active
}

func (s TaskSession) DurationMinutes() float64 {
	return s.Duration().Minutes()
}

func (s TaskSession) ActiveMinutes() float64 {
	return s.ActiveTime().Minutes()
}
