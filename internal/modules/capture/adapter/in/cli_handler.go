package in

import (
	"context"
	"io"

	"tasktrail/internal/modules/capture/dto"
	capturein "tasktrail/internal/modules/capture/port/in"
)

type CLIHandler struct {
	usecase capturein.Usecase
}

func NewCLIHandler(usecase capturein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Record(ctx context.Context, input dto.RecordInput) (dto.ObservationOutput, error) {
	return h.usecase.Record(ctx, input)
}

func (h CLIHandler) Ingest(ctx context.Context, input dto.IngestInput) (dto.ObservationOutput, error) {
	return h.usecase.IngestScreenshot(ctx, input)
}

func (h CLIHandler) Import(ctx context.Context, r io.Reader) (dto.ImportOutput, error) {
	return h.usecase.ImportJSONL(ctx, r)
}

func (h CLIHandler) List(ctx context.Context, input dto.ListInput) ([]dto.ObservationOutput, error) {
	return h.usecase.List(ctx, input)
}

func (h CLIHandler) Count(ctx context.Context) (int, error) {
	return h.usecase.Count(ctx)
}
