package usecase

import (
	"context"
	"fmt"
	"io"
	"strings"

	"tasktrail/internal/modules/capture/domain"
	"tasktrail/internal/modules/capture/dto"
	capturein "tasktrail/internal/modules/capture/port/in"
	"tasktrail/internal/modules/capture/service"
	apperrors "tasktrail/internal/platform/errors"
)

type Interactor struct {
	svc *service.CaptureService
}

func NewInteractor(svc *service.CaptureService) capturein.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Record(ctx context.Context, input dto.RecordInput) (dto.ObservationOutput, error) {
	if strings.TrimSpace(input.WindowTitle) == "" && strings.TrimSpace(input.OCRText) == "" {
		return dto.ObservationOutput{}, fmt.Errorf("%w: window title or ocr text is required", apperrors.ErrInvalidInput)
	}
	obs, err := i.svc.Record(ctx, domain.Observation{
		CapturedAt:     input.CapturedAt,
		ScreenshotPath: input.ScreenshotPath,
		WindowTitle:    input.WindowTitle,
		Category:       input.Category,
		OCRText:        input.OCRText,
		Source:         domain.SourceManual,
	})
	if err != nil {
		return dto.ObservationOutput{}, err
	}
	return toOutput(obs), nil
}

func (i *Interactor) IngestScreenshot(ctx context.Context, input dto.IngestInput) (dto.ObservationOutput, error) {
	if strings.TrimSpace(input.Path) == "" {
		return dto.ObservationOutput{}, fmt.Errorf("%w: screenshot path is required", apperrors.ErrInvalidInput)
	}
	obs, err := i.svc.Ingest(ctx, input.Path, input.CapturedAt, input.Annotator)
	if err != nil {
		return dto.ObservationOutput{}, err
	}
	return toOutput(obs), nil
}

func (i *Interactor) ImportJSONL(ctx context.Context, r io.Reader) (dto.ImportOutput, error) {
	imported, skipped, err := i.svc.Import(ctx, r)
	if err != nil {
		return dto.ImportOutput{}, err
	}
	return dto.ImportOutput{Imported: imported, Skipped: skipped}, nil
}

func (i *Interactor) List(ctx context.Context, input dto.ListInput) ([]dto.ObservationOutput, error) {
	if input.From.IsZero() || input.To.IsZero() || !input.To.After(input.From) {
		return nil, fmt.Errorf("%w: invalid observation window", apperrors.ErrInvalidInput)
	}
	items, err := i.svc.List(ctx, input.From, input.To)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ObservationOutput, 0, len(items))
	for _, item := range items {
		out = append(out, toOutput(item))
	}
	return out, nil
}

func (i *Interactor) Count(ctx context.Context) (int, error) {
	return i.svc.Count(ctx)
}

func toOutput(obs domain.Observation) dto.ObservationOutput {
	return dto.ObservationOutput{
		ID:             obs.ID,
		CapturedAt:     obs.CapturedAt,
		ScreenshotPath: obs.ScreenshotPath,
		WindowTitle:    obs.WindowTitle,
		Category:       obs.Category,
		OCRText:        obs.OCRText,
		Source:         obs.Source,
	}
}
