package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	hclog "github.com/hashicorp/go-hclog"
	cache "github.com/patrickmn/go-cache"

	"tasktrail/internal/modules/capture/domain"
	captureout "tasktrail/internal/modules/capture/port/out"
	"tasktrail/internal/platform/clock"
	apperrors "tasktrail/internal/platform/errors"
	"tasktrail/internal/platform/id"
)

const annotationTTL = 10 * time.Minute

type CaptureService struct {
	clock       clock.Clock
	idGen       id.Generator
	store       captureout.ObservationStore
	annotator   captureout.Annotator
	annotations *cache.Cache
	logger      hclog.Logger
}

func NewCaptureService(
	clk clock.Clock,
	idGen id.Generator,
	store captureout.ObservationStore,
	annotator captureout.Annotator,
	logger hclog.Logger,
) *CaptureService {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &CaptureService{
		clock:       clk,
		idGen:       idGen,
		store:       store,
		annotator:   annotator,
		annotations: cache.New(annotationTTL, 2*annotationTTL),
		logger:      logger.Named("capture"),
	}
}

func (s *CaptureService) Record(ctx context.Context, obs domain.Observation) (domain.Observation, error) {
	obs.ID = s.idGen.New()
	if obs.CapturedAt.IsZero() {
		obs.CapturedAt = s.clock.Now()
	}
	obs = obs.Normalize()
	if err := obs.Validate(); err != nil {
		return domain.Observation{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	if err := s.store.Insert(ctx, obs); err != nil {
		return domain.Observation{}, err
	}
	return obs, nil
}

// Ingest annotates a screenshot and stores the resulting observation.
// Annotations are cached by content digest so a re-delivered file is not sent
// to the annotator twice.
func (s *CaptureService) Ingest(ctx context.Context, path string, capturedAt time.Time, annotatorName string) (domain.Observation, error) {
	if s.annotator == nil {
		return domain.Observation{}, apperrors.ErrNoAnnotator
	}
	info, err := os.Stat(path)
	if err != nil {
		return domain.Observation{}, fmt.Errorf("stat screenshot: %w", err)
	}
	if info.IsDir() {
		return domain.Observation{}, fmt.Errorf("%w: %s is a directory", apperrors.ErrInvalidInput, path)
	}
	if capturedAt.IsZero() {
		capturedAt = info.ModTime()
	}

	digest, err := fileDigest(path)
	if err != nil {
		return domain.Observation{}, err
	}
	annotation, cached := s.cachedAnnotation(digest)
	if !cached {
		annotation, err = s.annotator.Annotate(ctx, domain.AnnotationRequest{
			ScreenshotPath: path,
			CapturedAt:     capturedAt,
			Annotator:      annotatorName,
		})
		if err != nil {
			return domain.Observation{}, fmt.Errorf("annotate %s: %w", path, err)
		}
		s.annotations.SetDefault(digest, annotation)
	}
	s.logger.Debug("annotated screenshot", "path", path, "cached", cached, "model", annotation.Model)

	obs := domain.Observation{
		ID:             s.idGen.New(),
		CapturedAt:     capturedAt,
		ScreenshotPath: path,
		WindowTitle:    annotation.WindowTitle,
		Category:       annotation.Category,
		OCRText:        annotation.OCRText,
		Source:         domain.SourceScreenshot,
	}.Normalize()
	if err := s.store.Insert(ctx, obs); err != nil {
		return domain.Observation{}, err
	}
	return obs, nil
}

// Import stores every record of a JSONL stream or none of them.
func (s *CaptureService) Import(ctx context.Context, r io.Reader) (int, int, error) {
	records, skipped, err := decodeJSONL(r)
	if err != nil {
		return 0, 0, err
	}
	observations := make([]domain.Observation, 0, len(records))
	for _, rec := range records {
		observations = append(observations, domain.Observation{
			ID:             s.idGen.New(),
			CapturedAt:     rec.Timestamp,
			ScreenshotPath: strings.TrimSpace(rec.ScreenshotPath),
			WindowTitle:    rec.WindowTitle,
			Category:       rec.Category,
			OCRText:        rec.OCRText,
			Source:         domain.SourceImport,
		}.Normalize())
	}
	if err := s.store.Insert(ctx, observations...); err != nil {
		return 0, 0, err
	}
	s.logger.Info("imported observations", "imported", len(observations), "skipped", skipped)
	return len(observations), skipped, nil
}

func (s *CaptureService) List(ctx context.Context, from, to time.Time) ([]domain.Observation, error) {
	return s.store.ListBetween(ctx, from, to)
}

func (s *CaptureService) Count(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}

func (s *CaptureService) cachedAnnotation(digest string) (domain.Annotation, bool) {
	if v, found := s.annotations.Get(digest); found {
		return v.(domain.Annotation), true
	}
	return domain.Annotation{}, false
}

func fileDigest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open screenshot: %w", err)
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash screenshot: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
