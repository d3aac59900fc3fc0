package in

import (
	"context"
	"time"

	"tasktrail/internal/modules/tracker/dto"
)

type Usecase interface {
	Track(ctx context.Context, input dto.TrackInput) (dto.TrackOutput, error)
	ListSessions(ctx context.Context, input dto.WindowInput) ([]dto.SessionOutput, error)
	DailySummary(ctx context.Context, day time.Time) (dto.SummaryOutput, error)
	Tasks(ctx context.Context, input dto.WindowInput) ([]dto.TaskOutput, error)
	Categories(ctx context.Context, input dto.WindowInput) ([]dto.CategoryOutput, error)
	WriteReport(ctx context.Context, day time.Time) (dto.ReportOutput, error)
}
