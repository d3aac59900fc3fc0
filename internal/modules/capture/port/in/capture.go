package in

import (
	"context"
	"io"

	"tasktrail/internal/modules/capture/dto"
)

type Usecase interface {
	Record(ctx context.Context, input dto.RecordInput) (dto.ObservationOutput, error)
	IngestScreenshot(ctx context.Context, input dto.IngestInput) (dto.ObservationOutput, error)
	ImportJSONL(ctx context.Context, r io.Reader) (dto.ImportOutput, error)
	List(ctx context.Context, input dto.ListInput) ([]dto.ObservationOutput, error)
	Count(ctx context.Context) (int, error)
}
