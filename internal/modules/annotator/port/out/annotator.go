package out

import (
	"context"

	"tasktrail/internal/modules/annotator/domain"
)

type ManifestStore interface {
	Load(ctx context.Context) ([]domain.Manifest, error)
}

type Host interface {
	CheckLifecycle(ctx context.Context, manifest domain.Manifest) error
	GetMetadata(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error)
	Annotate(ctx context.Context, manifest domain.Manifest, req domain.AnnotateRequest) (domain.Annotation, error)
}
