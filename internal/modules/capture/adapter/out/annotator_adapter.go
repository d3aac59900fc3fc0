package out

import (
	"context"

	annotatordto "tasktrail/internal/modules/annotator/dto"
	annotatorin "tasktrail/internal/modules/annotator/port/in"
	"tasktrail/internal/modules/capture/domain"
	captureout "tasktrail/internal/modules/capture/port/out"
)

type AnnotatorAdapter struct {
	annotator annotatorin.Usecase
}

func NewAnnotatorAdapter(annotator annotatorin.Usecase) captureout.Annotator {
	return &AnnotatorAdapter{annotator: annotator}
}

func (a *AnnotatorAdapter) Annotate(ctx context.Context, req domain.AnnotationRequest) (domain.Annotation, error) {
	out, err := a.annotator.Annotate(ctx, annotatordto.AnnotateInput{
		Annotator:      req.Annotator,
		ScreenshotPath: req.ScreenshotPath,
		CapturedAt:     req.CapturedAt,
	})
	if err != nil {
		return domain.Annotation{}, err
	}
	return domain.Annotation{
		WindowTitle: out.WindowTitle,
		Category:    out.Category,
		OCRText:     out.OCRText,
		Model:       out.Model,
	}, nil
}
