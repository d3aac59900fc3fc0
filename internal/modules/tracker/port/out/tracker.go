package out

import (
	"context"
	"time"

	"tasktrail/internal/modules/tracker/domain"
)

// ObservationSource yields observations captured in [from, to), oldest first.
type ObservationSource interface {
	ObservationsBetween(ctx context.Context, from, to time.Time) ([]domain.Observation, error)
}

type SessionStore interface {
	// ReplaceWindow atomically swaps every stored session starting in [from, to) for sessions.
	ReplaceWindow(ctx context.Context, from, to time.Time, sessions []domain.TaskSession) error
	ListBetween(ctx context.Context, from, to time.Time) ([]domain.TaskSession, error)
}

type EventPublisher interface {
	PublishSessionClosed(ctx context.Context, session domain.TaskSession) error
}

type ReportStore interface {
	Save(ctx context.Context, report domain.DailyReport) (string, error)
}
