package domain

import (
	"fmt"
	"time"

	apperrors "tasktrail/internal/platform/errors"
)

// OrderingError reports the first observation whose timestamp precedes its predecessor.
type OrderingError struct {
	Index    int
	Previous time.Time
	Current  time.Time
}

func (e *OrderingError) Error() string {
	return fmt.Sprintf("observation %d at %s precedes previous observation at %s",
		e.Index, e.Current.Format(time.RFC3339), e.Previous.Format(time.RFC3339))
}

func (e *OrderingError) Unwrap() error {
	return apperrors.ErrInputOrdering
}

// Segmenter converts ordered observations into task sessions. It holds only
// read-only settings and may be shared between goroutines.
type Segmenter struct {
	settings Settings
}

func NewSegmenter(settings Settings) (*Segmenter, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	return &Segmenter{settings: settings}, nil
}

func (s *Segmenter) Settings() Settings {
	return s.settings
}

// CheckOrder returns an *OrderingError when timestamps decrease anywhere in observations.
func CheckOrder(observations []Observation) error {
	for i := 1; i < len(observations); i++ {
		prev, cur := observations[i-1].Timestamp, observations[i].Timestamp
		if cur.Before(prev) {
			return &OrderingError{Index: i, Previous: prev, Current: cur}
		}
	}
	return nil
}

// Track segments observations into sessions. Sessions shorter than the
// minimum duration are dropped; only the final session is padded by one
// screenshot interval.
func (s *Segmenter) Track(observations []Observation) ([]TaskSession, error) {
	if len(observations) == 0 {
		return []TaskSession{}, nil
	}
	if err := CheckOrder(observations); err != nil {
		return nil, err
	}

	out := make([]TaskSession, 0)
	var current *openSession
	for _, obs := range observations {
		taskName := ExtractTaskName(obs.WindowTitle)
		if current == nil {
			current = s.open(obs, taskName)
			continue
		}
		if s.continues(current, obs, taskName) {
			current.extend(obs.Timestamp, s.settings.ScreenshotInterval)
			continue
		}
		if closed, ok := s.close(current, 0); ok {
			out = append(out, closed)
		}
		current = s.open(obs, taskName)
	}
	if closed, ok := s.close(current, s.settings.ScreenshotInterval); ok {
		out = append(out, closed)
	}
	return out, nil
}

// continues reports whether obs extends the open session: same task and a
// pause no longer than the open session's category threshold.
func (s *Segmenter) continues(current *openSession, obs Observation, taskName string) bool {
	if taskName != current.taskName {
		return false
	}
	gap := obs.Timestamp.Sub(current.end)
	return gap <= s.settings.GapThreshold(current.category)
}

func (s *Segmenter) open(obs Observation, taskName string) *openSession {
	title := obs.WindowTitle
	if title == "" {
		title = UnknownTask
	}
	return &openSession{
		taskName:    taskName,
		windowTitle: title,
		category:    obs.Category,
		start:       obs.Timestamp,
		end:         obs.Timestamp,
		count:       1,
	}
}

func (s *Segmenter) close(current *openSession, pad time.Duration) (TaskSession, bool) {
	session := current.close(pad)
	if session.Duration() < s.settings.MinSessionDuration {
		return TaskSession{}, false
	}
	session.Confidence = ComputeConfidence(session, s.settings.ScreenshotInterval)
	return session, true
}

// openSession is the only mutable state of a Track call.
type openSession struct {
	taskName    string
	windowTitle string
	category    string
	start       time.Time
	end         time.Time
	count       int
	gaps        []time.Duration
}

func (o *openSession) extend(at time.Time, interval time.Duration) {
	gap := at.Sub(o.end) - interval
	if gap > 0 {
		o.gaps = append(o.gaps, gap)
	}
	o.count++
	o.end = at
}

func (o *openSession) close(pad time.Duration) TaskSession {
	gaps := make([]time.Duration, len(o.gaps))
	copy(gaps, o.gaps)
	return TaskSession{
		TaskName:        o.taskName,
		WindowTitle:     o.windowTitle,
		Category:        o.category,
		StartTime:       o.start,
		EndTime:         o.end.Add(pad),
		ScreenshotCount: o.count,
		Gaps:            gaps,
	}
}
