package out

import (
	"context"
	"time"

	capturedto "tasktrail/internal/modules/capture/dto"
	capturein "tasktrail/internal/modules/capture/port/in"
	"tasktrail/internal/modules/tracker/domain"
	trackerout "tasktrail/internal/modules/tracker/port/out"
)

type CaptureObservationAdapter struct {
	capture capturein.Usecase
}

func NewCaptureObservationAdapter(capture capturein.Usecase) trackerout.ObservationSource {
	return &CaptureObservationAdapter{capture: capture}
}

func (a *CaptureObservationAdapter) ObservationsBetween(ctx context.Context, from, to time.Time) ([]domain.Observation, error) {
	items, err := a.capture.List(ctx, capturedto.ListInput{From: from, To: to})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Observation, 0, len(items))
	for _, item := range items {
		out = append(out, domain.Observation{
			Timestamp:   item.CapturedAt,
			WindowTitle: item.WindowTitle,
			Category:    item.Category,
			OCRText:     item.OCRText,
		})
	}
	return out, nil
}
