package service_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"tasktrail/internal/modules/capture/domain"
	"tasktrail/internal/modules/capture/service"
	apperrors "tasktrail/internal/platform/errors"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type seqIDs struct {
	mu sync.Mutex
	n  int
}

func (g *seqIDs) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return "obs-" + strings.Repeat("x", g.n)
}

type memoryStore struct {
	items []domain.Observation
}

func (s *memoryStore) Insert(_ context.Context, observations ...domain.Observation) error {
	s.items = append(s.items, observations...)
	return nil
}

func (s *memoryStore) ListBetween(_ context.Context, from, to time.Time) ([]domain.Observation, error) {
	out := []domain.Observation{}
	for _, item := range s.items {
		if !item.CapturedAt.Before(from) && item.CapturedAt.Before(to) {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *memoryStore) Count(context.Context) (int, error) { return len(s.items), nil }

type countingAnnotator struct {
	calls int
	err   error
}

func (a *countingAnnotator) Annotate(_ context.Context, req domain.AnnotationRequest) (domain.Annotation, error) {
	a.calls++
	if a.err != nil {
		return domain.Annotation{}, a.err
	}
	return domain.Annotation{
		WindowTitle: "main.go - VSCode",
		Category:    "Coding",
		OCRText:     filepath.Base(req.ScreenshotPath),
		Model:       "fake",
	}, nil
}

func newService(store *memoryStore, annotator *countingAnnotator) *service.CaptureService {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	if annotator == nil {
		return service.NewCaptureService(fixedClock{now: now}, &seqIDs{}, store, nil, nil)
	}
	return service.NewCaptureService(fixedClock{now: now}, &seqIDs{}, store, annotator, nil)
}

func TestRecordDefaultsTimestampAndCategory(t *testing.T) {
	t.Parallel()
	store := &memoryStore{}
	svc := newService(store, nil)

	obs, err := svc.Record(context.Background(), domain.Observation{WindowTitle: " Notes "})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if obs.ID == "" || obs.Category != domain.DefaultCategory || obs.WindowTitle != "Notes" {
		t.Fatalf("unexpected observation: %+v", obs)
	}
	if !obs.CapturedAt.Equal(time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected clock timestamp, got %s", obs.CapturedAt)
	}
	if len(store.items) != 1 {
		t.Fatalf("expected stored observation")
	}
}

func TestIngestCachesAnnotationByContent(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	first := filepath.Join(dir, "a.png")
	second := filepath.Join(dir, "b.png")
	for _, p := range []string{first, second} {
		if err := os.WriteFile(p, []byte("same-pixels"), 0o644); err != nil {
			t.Fatalf("write screenshot: %v", err)
		}
	}
	store := &memoryStore{}
	annotator := &countingAnnotator{}
	svc := newService(store, annotator)

	at := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	if _, err := svc.Ingest(context.Background(), first, at, ""); err != nil {
		t.Fatalf("ingest first: %v", err)
	}
	obs, err := svc.Ingest(context.Background(), second, at.Add(4*time.Second), "")
	if err != nil {
		t.Fatalf("ingest second: %v", err)
	}
	if annotator.calls != 1 {
		t.Fatalf("expected identical content to hit cache, got %d annotator calls", annotator.calls)
	}
	if obs.Source != domain.SourceScreenshot || obs.Category != "Coding" || obs.ScreenshotPath != second {
		t.Fatalf("unexpected observation: %+v", obs)
	}
	if len(store.items) != 2 {
		t.Fatalf("expected two stored observations, got %d", len(store.items))
	}
}

func TestIngestErrors(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	shot := filepath.Join(dir, "a.png")
	if err := os.WriteFile(shot, []byte("pixels"), 0o644); err != nil {
		t.Fatalf("write screenshot: %v", err)
	}

	if _, err := newService(&memoryStore{}, nil).Ingest(context.Background(), shot, time.Time{}, ""); !errors.Is(err, apperrors.ErrNoAnnotator) {
		t.Fatalf("expected ErrNoAnnotator, got %v", err)
	}

	store := &memoryStore{}
	failing := &countingAnnotator{err: errors.New("boom")}
	if _, err := newService(store, failing).Ingest(context.Background(), shot, time.Time{}, ""); err == nil {
		t.Fatalf("expected annotator failure to propagate")
	}
	if len(store.items) != 0 {
		t.Fatalf("failed annotation should not store anything")
	}

	if _, err := newService(store, &countingAnnotator{}).Ingest(context.Background(), dir, time.Time{}, ""); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected directory to be rejected, got %v", err)
	}
}

func TestImportJSONL(t *testing.T) {
	t.Parallel()
	input := strings.Join([]string{
		`{"timestamp":"2026-03-02T09:00:00Z","window_title":"main.go - VSCode","category":"Coding"}`,
		``,
		`{"timestamp":"2026-03-02T09:00:04Z","window_title":"main.go - VSCode","category":"Coding","ocr_text":"func main"}`,
		`{"timestamp":"2026-03-02T09:00:08Z","window_title":"Inbox"}`,
	}, "\n")
	store := &memoryStore{}
	imported, skipped, err := newService(store, nil).Import(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if imported != 3 || skipped != 1 {
		t.Fatalf("expected 3 imported and 1 skipped, got %d/%d", imported, skipped)
	}
	if store.items[2].Category != domain.DefaultCategory || store.items[1].OCRText != "func main" {
		t.Fatalf("unexpected imported records: %+v", store.items)
	}
	for _, item := range store.items {
		if item.Source != domain.SourceImport {
			t.Fatalf("expected import source, got %q", item.Source)
		}
	}
}

func TestImportJSONLRejectsBadLineAtomically(t *testing.T) {
	t.Parallel()
	input := strings.Join([]string{
		`{"timestamp":"2026-03-02T09:00:00Z","window_title":"ok"}`,
		`{"window_title":"missing timestamp"}`,
	}, "\n")
	store := &memoryStore{}
	_, _, err := newService(store, nil).Import(context.Background(), strings.NewReader(input))
	if !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("expected line number in error, got %v", err)
	}
	if len(store.items) != 0 {
		t.Fatalf("expected no records stored on failure")
	}

	_, _, err = newService(store, nil).Import(context.Background(), strings.NewReader("{not json"))
	if !errors.Is(err, apperrors.ErrInvalidInput) || !strings.Contains(err.Error(), "line 1") {
		t.Fatalf("expected malformed line 1 error, got %v", err)
	}
}
