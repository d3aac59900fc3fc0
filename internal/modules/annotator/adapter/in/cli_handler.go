package in

import (
	"context"

	"tasktrail/internal/modules/annotator/dto"
	annotatorin "tasktrail/internal/modules/annotator/port/in"
)

type CLIHandler struct {
	usecase annotatorin.Usecase
}

func NewCLIHandler(usecase annotatorin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) List(ctx context.Context) ([]dto.AnnotatorInfo, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	return h.usecase.Doctor(ctx)
}
