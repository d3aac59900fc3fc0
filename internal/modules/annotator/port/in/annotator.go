package in

import (
	"context"

	"tasktrail/internal/modules/annotator/dto"
)

type Usecase interface {
	List(ctx context.Context) ([]dto.AnnotatorInfo, error)
	Doctor(ctx context.Context) ([]dto.DoctorResult, error)
	Annotate(ctx context.Context, input dto.AnnotateInput) (dto.AnnotationOutput, error)
}
