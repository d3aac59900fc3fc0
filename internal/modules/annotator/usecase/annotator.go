package usecase

import (
	"context"

	"tasktrail/internal/modules/annotator/dto"
	annotatorin "tasktrail/internal/modules/annotator/port/in"
	"tasktrail/internal/modules/annotator/service"
)

type Interactor struct {
	svc *service.AnnotatorService
}

func NewInteractor(svc *service.AnnotatorService) annotatorin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) List(ctx context.Context) ([]dto.AnnotatorInfo, error) {
	return i.svc.List(ctx)
}

func (i *Interactor) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	return i.svc.Doctor(ctx)
}

func (i *Interactor) Annotate(ctx context.Context, input dto.AnnotateInput) (dto.AnnotationOutput, error) {
	return i.svc.Annotate(ctx, input)
}
