package usecase

import (
	"context"
	"fmt"
	"time"

	"tasktrail/internal/modules/tracker/domain"
	"tasktrail/internal/modules/tracker/dto"
	trackerin "tasktrail/internal/modules/tracker/port/in"
	"tasktrail/internal/modules/tracker/service"
	"tasktrail/internal/platform/clock"
	apperrors "tasktrail/internal/platform/errors"
)

type Interactor struct {
	svc *service.TrackerService
}

func NewInteractor(svc *service.TrackerService) trackerin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Track(ctx context.Context, input dto.TrackInput) (dto.TrackOutput, error) {
	if err := validateWindow(input.From, input.To); err != nil {
		return dto.TrackOutput{}, err
	}
	count, sessions, err := i.svc.Track(ctx, input.From, input.To, input.DryRun)
	if err != nil {
		return dto.TrackOutput{}, err
	}
	return dto.TrackOutput{
		From:             input.From,
		To:               input.To,
		ObservationCount: count,
		Persisted:        !input.DryRun,
		Sessions:         toSessionOutputs(sessions),
		Summary:          toSummaryOutput(domain.SummarizeDay(sessions)),
	}, nil
}

func (i *Interactor) ListSessions(ctx context.Context, input dto.WindowInput) ([]dto.SessionOutput, error) {
	sessions, err := i.sessions(ctx, input)
	if err != nil {
		return nil, err
	}
	return toSessionOutputs(sessions), nil
}

func (i *Interactor) DailySummary(ctx context.Context, day time.Time) (dto.SummaryOutput, error) {
	from, to := clock.DayBounds(day)
	sessions, err := i.svc.Sessions(ctx, from, to)
	if err != nil {
		return dto.SummaryOutput{}, err
	}
	return toSummaryOutput(domain.SummarizeDay(sessions)), nil
}

func (i *Interactor) Tasks(ctx context.Context, input dto.WindowInput) ([]dto.TaskOutput, error) {
	sessions, err := i.sessions(ctx, input)
	if err != nil {
		return nil, err
	}
	groups := domain.GroupByTask(sessions)
	out := make([]dto.TaskOutput, 0, len(groups))
	for _, g := range groups {
		out = append(out, dto.TaskOutput{
			TaskName:          g.TaskName,
			Category:          g.Category,
			TotalMinutes:      g.TotalMinutes,
			ActiveMinutes:     g.ActiveMinutes,
			SessionCount:      g.SessionCount,
			FirstSeen:         g.FirstSeen,
			LastSeen:          g.LastSeen,
			AverageConfidence: g.AverageConfidence,
		})
	}
	return out, nil
}

func (i *Interactor) Categories(ctx context.Context, input dto.WindowInput) ([]dto.CategoryOutput, error) {
	sessions, err := i.sessions(ctx, input)
	if err != nil {
		return nil, err
	}
	totals := domain.GroupByCategory(sessions)
	out := make([]dto.CategoryOutput, 0, len(totals))
	for _, c := range totals {
		out = append(out, dto.CategoryOutput{
			Category:      c.Category,
			TotalMinutes:  c.TotalMinutes,
			ActiveMinutes: c.ActiveMinutes,
			SessionCount:  c.SessionCount,
		})
	}
	return out, nil
}

func (i *Interactor) WriteReport(ctx context.Context, day time.Time) (dto.ReportOutput, error) {
	from, to := clock.DayBounds(day)
	report, path, err := i.svc.Report(ctx, from, to)
	if err != nil {
		return dto.ReportOutput{}, err
	}
	return dto.ReportOutput{Day: from, Path: path, Summary: toSummaryOutput(report.Summary)}, nil
}

func (i *Interactor) sessions(ctx context.Context, input dto.WindowInput) ([]domain.TaskSession, error) {
	if err := validateWindow(input.From, input.To); err != nil {
		return nil, err
	}
	return i.svc.Sessions(ctx, input.From, input.To)
}

func validateWindow(from, to time.Time) error {
	if from.IsZero() || to.IsZero() {
		return fmt.Errorf("%w: window bounds are required", apperrors.ErrInvalidInput)
	}
	if !to.After(from) {
		return fmt.Errorf("%w: window end must be after start", apperrors.ErrInvalidInput)
	}
	return nil
}

func toSessionOutputs(sessions []domain.TaskSession) []dto.SessionOutput {
	out := make([]dto.SessionOutput, 0, len(sessions))
	for _, s := range sessions {
		gaps := make([]float64, 0, len(s.Gaps))
		for _, gap := range s.Gaps {
			gaps = append(gaps, gap.Seconds())
		}
		out = append(out, dto.SessionOutput{
			ID:              s.ID,
			TaskName:        s.TaskName,
			WindowTitle:     s.WindowTitle,
			Category:        s.Category,
			StartTime:       s.StartTime,
			EndTime:         s.EndTime,
			ScreenshotCount: s.ScreenshotCount,
			GapSeconds:      gaps,
			DurationSeconds: s.Duration().Seconds(),
			ActiveSeconds:   s.ActiveTime().Seconds(),
			DurationMinutes: s.DurationMinutes(),
			ActiveMinutes:   s.ActiveMinutes(),
			Confidence:      s.Confidence,
		})
	}
	return out
}

func toSummaryOutput(s domain.DailySummary) dto.SummaryOutput {
	return dto.SummaryOutput{
		TotalTimeMinutes:       s.TotalTimeMinutes,
		ActiveTimeMinutes:      s.ActiveTimeMinutes,
		UniqueTasks:            s.UniqueTasks,
		LongestSessionMinutes:  s.LongestSessionMinutes,
		FocusScore:             s.FocusScore,
		IdlePercentage:         s.IdlePercentage,
		SessionsCount:          s.SessionsCount,
		AverageSessionMinutes:  s.AverageSessionMinutes,
		HighConfidenceSessions: s.HighConfidenceSessions,
	}
}
