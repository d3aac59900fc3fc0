package usecase_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	trackerout "tasktrail/internal/modules/tracker/adapter/out"
	"tasktrail/internal/modules/tracker/domain"
	"tasktrail/internal/modules/tracker/dto"
	trackerin "tasktrail/internal/modules/tracker/port/in"
	"tasktrail/internal/modules/tracker/service"
	"tasktrail/internal/modules/tracker/usecase"
	apperrors "tasktrail/internal/platform/errors"
	"tasktrail/internal/platform/id"
)

type sliceSource struct {
	observations []domain.Observation
}

func (s sliceSource) ObservationsBetween(_ context.Context, from, to time.Time) ([]domain.Observation, error) {
	out := []domain.Observation{}
	for _, obs := range s.observations {
		if !obs.Timestamp.Before(from) && obs.Timestamp.Before(to) {
			out = append(out, obs)
		}
	}
	return out, nil
}

var day = time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)

func burst(title, category string, start time.Duration, count int) []domain.Observation {
	out := make([]domain.Observation, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, domain.Observation{
			Timestamp:   day.Add(start + time.Duration(i)*4*time.Second),
			WindowTitle: title,
			Category:    category,
		})
	}
	return out
}

func newUsecase(t *testing.T, observations []domain.Observation) (trackerin.Usecase, string) {
	t.Helper()
	dataDir := t.TempDir()
	store, err := trackerout.NewSQLiteSessionStore(filepath.Join(dataDir, "tasktrail.db"))
	if err != nil {
		t.Fatalf("new session store: %v", err)
	}
	segmenter, err := domain.NewSegmenter(domain.DefaultSettings())
	if err != nil {
		t.Fatalf("new segmenter: %v", err)
	}
	svc := service.NewTrackerService(id.UUID{}, segmenter, sliceSource{observations: observations}, store, trackerout.NewNoopPublisher(), trackerout.NewVaultReportStore(dataDir), nil)
	return usecase.NewInteractor(svc), dataDir
}

func TestUsecaseTrackThenQuery(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	observations := append(burst("main.go - Visual Studio Code", "Coding", 9*time.Hour, 15), burst("Inbox - Slack", "Communication", 10*time.Hour, 10)...)
	observations = append(observations, burst("main.go - Visual Studio Code", "Coding", 11*time.Hour, 10)...)
	uc, _ := newUsecase(t, observations)

	window := dto.WindowInput{From: day, To: day.AddDate(0, 0, 1)}
	tracked, err := uc.Track(ctx, dto.TrackInput{From: window.From, To: window.To})
	if err != nil {
		t.Fatalf("track: %v", err)
	}
	if !tracked.Persisted || tracked.ObservationCount != 35 || len(tracked.Sessions) != 3 {
		t.Fatalf("unexpected track output: persisted=%v observations=%d sessions=%d", tracked.Persisted, tracked.ObservationCount, len(tracked.Sessions))
	}

	// Re-tracking the same window replaces rather than duplicates.
	if _, err := uc.Track(ctx, dto.TrackInput{From: window.From, To: window.To}); err != nil {
		t.Fatalf("re-track: %v", err)
	}
	sessions, err := uc.ListSessions(ctx, window)
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 3 {
		t.Fatalf("expected 3 stored sessions after re-track, got %d", len(sessions))
	}
	if sessions[0].TaskName != "main.go" || sessions[0].ScreenshotCount != 15 {
		t.Fatalf("unexpected first session: %+v", sessions[0])
	}

	tasks, err := uc.Tasks(ctx, window)
	if err != nil {
		t.Fatalf("tasks: %v", err)
	}
	if len(tasks) != 2 || tasks[0].TaskName != "main.go" || tasks[0].SessionCount != 2 {
		t.Fatalf("unexpected tasks: %+v", tasks)
	}

	categories, err := uc.Categories(ctx, window)
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	if len(categories) != 2 || categories[0].Category != "Coding" {
		t.Fatalf("unexpected categories: %+v", categories)
	}

	summary, err := uc.DailySummary(ctx, day.Add(15*time.Hour))
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.SessionsCount != 3 || summary.UniqueTasks != 2 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestUsecaseWriteReport(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uc, dataDir := newUsecase(t, burst("Design doc - Notion", "Writing", 9*time.Hour, 12))
	if _, err := uc.Track(ctx, dto.TrackInput{From: day, To: day.AddDate(0, 0, 1)}); err != nil {
		t.Fatalf("track: %v", err)
	}
	out, err := uc.WriteReport(ctx, day.Add(12*time.Hour))
	if err != nil {
		t.Fatalf("write report: %v", err)
	}
	if out.Path != filepath.Join(dataDir, "reports", "2026", "03", "02.md") {
		t.Fatalf("unexpected report path: %s", out.Path)
	}
	raw, err := os.ReadFile(out.Path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(raw), "| Design doc | Writing |") {
		t.Fatalf("report missing task row:\n%s", raw)
	}
}

func TestUsecaseRejectsInvalidWindow(t *testing.T) {
	t.Parallel()
	uc, _ := newUsecase(t, nil)
	ctx := context.Background()
	if _, err := uc.Track(ctx, dto.TrackInput{From: day, To: day}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid window, got %v", err)
	}
	if _, err := uc.ListSessions(ctx, dto.WindowInput{}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected missing bounds to fail, got %v", err)
	}
}
