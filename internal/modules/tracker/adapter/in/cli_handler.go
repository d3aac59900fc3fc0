package in

import (
	"context"
	"time"

	"tasktrail/internal/modules/tracker/dto"
	trackerin "tasktrail/internal/modules/tracker/port/in"
)

type CLIHandler struct {
	usecase trackerin.Usecase
}

func NewCLIHandler(usecase trackerin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Track(ctx context.Context, window dto.WindowInput, dryRun bool) (dto.TrackOutput, error) {
	return h.usecase.Track(ctx, dto.TrackInput{From: window.From, To: window.To, DryRun: dryRun})
}

func (h CLIHandler) Sessions(ctx context.Context, window dto.WindowInput) ([]dto.SessionOutput, error) {
	return h.usecase.ListSessions(ctx, window)
}

func (h CLIHandler) Summary(ctx context.Context, day time.Time) (dto.SummaryOutput, error) {
	return h.usecase.DailySummary(ctx, day)
}

func (h CLIHandler) Tasks(ctx context.Context, window dto.WindowInput) ([]dto.TaskOutput, error) {
	return h.usecase.Tasks(ctx, window)
}

func (h CLIHandler) Categories(ctx context.Context, window dto.WindowInput) ([]dto.CategoryOutput, error) {
	return h.usecase.Categories(ctx, window)
}

func (h CLIHandler) Report(ctx context.Context, day time.Time) (dto.ReportOutput, error) {
	return h.usecase.WriteReport(ctx, day)
}
