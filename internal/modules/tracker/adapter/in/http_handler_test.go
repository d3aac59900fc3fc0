package in_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	trackerin "tasktrail/internal/modules/tracker/adapter/in"
	"tasktrail/internal/modules/tracker/domain"
	"tasktrail/internal/modules/tracker/dto"
	apperrors "tasktrail/internal/platform/errors"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type fakeUsecase struct {
	lastWindow dto.WindowInput
	lastTrack  dto.TrackInput
	trackErr   error
}

func (f *fakeUsecase) Track(_ context.Context, input dto.TrackInput) (dto.TrackOutput, error) {
	f.lastTrack = input
	if f.trackErr != nil {
		return dto.TrackOutput{}, f.trackErr
	}
	return dto.TrackOutput{From: input.From, To: input.To, Persisted: !input.DryRun}, nil
}

func (f *fakeUsecase) ListSessions(_ context.Context, input dto.WindowInput) ([]dto.SessionOutput, error) {
	f.lastWindow = input
	return []dto.SessionOutput{{ID: "s-1", TaskName: "main.go", Confidence: 0.9}}, nil
}

func (f *fakeUsecase) DailySummary(context.Context, time.Time) (dto.SummaryOutput, error) {
	return dto.SummaryOutput{SessionsCount: 3, FocusScore: 20}, nil
}

func (f *fakeUsecase) Tasks(_ context.Context, input dto.WindowInput) ([]dto.TaskOutput, error) {
	f.lastWindow = input
	return []dto.TaskOutput{{TaskName: "main.go", SessionCount: 2}}, nil
}

func (f *fakeUsecase) Categories(_ context.Context, input dto.WindowInput) ([]dto.CategoryOutput, error) {
	f.lastWindow = input
	return []dto.CategoryOutput{{Category: "Coding"}}, nil
}

func (f *fakeUsecase) WriteReport(context.Context, time.Time) (dto.ReportOutput, error) {
	return dto.ReportOutput{}, nil
}

func newHandler(uc *fakeUsecase) *trackerin.HTTPHandler {
	return trackerin.NewHTTPHandler(uc, fixedClock{now: time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC)}, nil)
}

func serve(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()
	w := serve(t, newHandler(&fakeUsecase{}), http.MethodGet, "/health")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestSessionsEndpointDefaultsToToday(t *testing.T) {
	t.Parallel()
	uc := &fakeUsecase{}
	w := serve(t, newHandler(uc), http.MethodGet, "/api/v1/sessions")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body)
	}
	want := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	if !uc.lastWindow.From.Equal(want) || !uc.lastWindow.To.Equal(want.AddDate(0, 0, 1)) {
		t.Fatalf("unexpected window: %+v", uc.lastWindow)
	}
	var body []map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body) != 1 || body[0]["task_name"] != "main.go" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestReadEndpoints(t *testing.T) {
	t.Parallel()
	h := newHandler(&fakeUsecase{})
	for _, path := range []string{"/api/v1/summary?day=2026-03-01", "/api/v1/tasks?day=2026-03-01", "/api/v1/categories"} {
		w := serve(t, h, http.MethodGet, path)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d: %s", path, w.Code, w.Body)
		}
		if ct := w.Header().Get("Content-Type"); ct != "application/json" {
			t.Fatalf("%s: unexpected content type %q", path, ct)
		}
	}
}

func TestTrackEndpoint(t *testing.T) {
	t.Parallel()
	uc := &fakeUsecase{}
	w := serve(t, newHandler(uc), http.MethodPost, "/api/v1/track?day=2026-03-01&dry_run=true")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body)
	}
	if !uc.lastTrack.DryRun {
		t.Fatalf("expected dry run to be forwarded")
	}
}

func TestErrorStatusMapping(t *testing.T) {
	t.Parallel()
	cases := []struct {
		target string
		err    error
		want   int
	}{
		{"/api/v1/track?day=nope", nil, http.StatusBadRequest},
		{"/api/v1/track?dry_run=maybe", nil, http.StatusBadRequest},
		{"/api/v1/track", &domain.OrderingError{Index: 3}, http.StatusUnprocessableEntity},
		{"/api/v1/track", fmt.Errorf("wrapped: %w", apperrors.ErrNotFound), http.StatusNotFound},
		{"/api/v1/track", fmt.Errorf("disk on fire"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		w := serve(t, newHandler(&fakeUsecase{trackErr: tc.err}), http.MethodPost, tc.target)
		if w.Code != tc.want {
			t.Fatalf("%s (%v): expected %d, got %d", tc.target, tc.err, tc.want, w.Code)
		}
	}
}

func TestUnknownRoute(t *testing.T) {
	t.Parallel()
	w := serve(t, newHandler(&fakeUsecase{}), http.MethodGet, "/nonexistent")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
