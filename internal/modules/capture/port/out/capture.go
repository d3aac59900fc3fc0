package out

import (
	"context"
	"time"

	"tasktrail/internal/modules/capture/domain"
)

type ObservationStore interface {
	Insert(ctx context.Context, observations ...domain.Observation) error
	// ListBetween returns observations captured in [from, to) ordered by capture time.
	ListBetween(ctx context.Context, from, to time.Time) ([]domain.Observation, error)
	Count(ctx context.Context) (int, error)
}

type Annotator interface {
	Annotate(ctx context.Context, req domain.AnnotationRequest) (domain.Annotation, error)
}
