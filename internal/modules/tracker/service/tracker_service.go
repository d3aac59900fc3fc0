package service

import (
	"context"
	"fmt"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	"tasktrail/internal/modules/tracker/domain"
	trackerout "tasktrail/internal/modules/tracker/port/out"
	"tasktrail/internal/platform/id"
)

type TrackerService struct {
	idGen     id.Generator
	segmenter *domain.Segmenter
	source    trackerout.ObservationSource
	store     trackerout.SessionStore
	publisher trackerout.EventPublisher
	reports   trackerout.ReportStore
	logger    hclog.Logger
}

func NewTrackerService(
	idGen id.Generator,
	segmenter *domain.Segmenter,
	source trackerout.ObservationSource,
	store trackerout.SessionStore,
	publisher trackerout.EventPublisher,
	reports trackerout.ReportStore,
	logger hclog.Logger,
) *TrackerService {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &TrackerService{
		idGen:     idGen,
		segmenter: segmenter,
		source:    source,
		store:     store,
		publisher: publisher,
		reports:   reports,
		logger:    logger.Named("tracker"),
	}
}

// Track segments the observations of [from, to). Unless dryRun is set the
// window's stored sessions are replaced and one event is published per session.
func (s *TrackerService) Track(ctx context.Context, from, to time.Time, dryRun bool) (int, []domain.TaskSession, error) {
	observations, err := s.source.ObservationsBetween(ctx, from, to)
	if err != nil {
		return 0, nil, fmt.Errorf("load observations: %w", err)
	}
	sessions, err := s.segmenter.Track(observations)
	if err != nil {
		return len(observations), nil, err
	}
	for i := range sessions {
		sessions[i].ID = s.idGen.New()
	}
	s.logger.Debug("segmented window", "from", from, "to", to, "observations", len(observations), "sessions", len(sessions))
	if dryRun {
		return len(observations), sessions, nil
	}

	if err := s.store.ReplaceWindow(ctx, from, to, sessions); err != nil {
		return len(observations), nil, err
	}
	if s.publisher != nil {
		for _, session := range sessions {
			// Events are best-effort; the sessions are already stored.
			if err := s.publisher.PublishSessionClosed(ctx, session); err != nil {
				s.logger.Warn("publish session event failed", "session_id", session.ID, "error", err)
			}
		}
	}
	s.logger.Info("tracked window", "from", from.Format(time.RFC3339), "to", to.Format(time.RFC3339), "sessions", len(sessions))
	return len(observations), sessions, nil
}

func (s *TrackerService) Sessions(ctx context.Context, from, to time.Time) ([]domain.TaskSession, error) {
	return s.store.ListBetween(ctx, from, to)
}

func (s *TrackerService) Report(ctx context.Context, dayStart, dayEnd time.Time) (domain.DailyReport, string, error) {
	sessions, err := s.store.ListBetween(ctx, dayStart, dayEnd)
	if err != nil {
		return domain.DailyReport{}, "", err
	}
	report := domain.NewDailyReport(dayStart, sessions)
	if s.reports == nil {
		return report, "", nil
	}
	path, err := s.reports.Save(ctx, report)
	if err != nil {
		return domain.DailyReport{}, "", err
	}
	return report, path, nil
}
