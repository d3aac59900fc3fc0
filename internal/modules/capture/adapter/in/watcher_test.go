package in_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	capturein "tasktrail/internal/modules/capture/adapter/in"
	"tasktrail/internal/modules/capture/dto"
)

type recordingUsecase struct {
	mu      sync.Mutex
	ingests []string
	seen    chan string
}

func (u *recordingUsecase) Record(context.Context, dto.RecordInput) (dto.ObservationOutput, error) {
	return dto.ObservationOutput{}, nil
}

func (u *recordingUsecase) IngestScreenshot(_ context.Context, input dto.IngestInput) (dto.ObservationOutput, error) {
	u.mu.Lock()
	u.ingests = append(u.ingests, input.Path)
	u.mu.Unlock()
	u.seen <- input.Path
	return dto.ObservationOutput{ScreenshotPath: input.Path, Category: "Coding"}, nil
}

func (u *recordingUsecase) ImportJSONL(context.Context, io.Reader) (dto.ImportOutput, error) {
	return dto.ImportOutput{}, nil
}

func (u *recordingUsecase) List(context.Context, dto.ListInput) ([]dto.ObservationOutput, error) {
	return nil, nil
}

func (u *recordingUsecase) Count(context.Context) (int, error) { return 0, nil }

func TestIsScreenshot(t *testing.T) {
	t.Parallel()
	cases := []struct {
		path string
		want bool
	}{
		{"a.png", true},
		{"b.JPG", true},
		{"c.jpeg", true},
		{"d.webp", true},
		{"notes.txt", false},
		{"png", false},
	}
	for _, tc := range cases {
		if got := capturein.IsScreenshot(tc.path); got != tc.want {
			t.Fatalf("IsScreenshot(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

func TestWatcherIngestsScreenshotsAndSignalsIdle(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	uc := &recordingUsecase{seen: make(chan string, 4)}
	idled := make(chan struct{}, 1)

	w := capturein.NewWatcher(uc, capturein.WatcherOptions{
		Dir:    dir,
		Settle: 40 * time.Millisecond,
		Idle:   80 * time.Millisecond,
		OnIdle: func(context.Context) {
			select {
			case idled <- struct{}{}:
			default:
			}
		},
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	defer func() {
		cancel()
		<-done
	}()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatalf("write txt: %v", err)
	}
	shot := filepath.Join(dir, "shot.png")
	if err := os.WriteFile(shot, []byte("pixels"), 0o644); err != nil {
		t.Fatalf("write png: %v", err)
	}

	select {
	case got := <-uc.seen:
		if got != shot {
			t.Fatalf("expected %s to be ingested, got %s", shot, got)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("screenshot was not ingested")
	}

	select {
	case <-idled:
	case <-time.After(5 * time.Second):
		t.Fatalf("idle callback did not fire")
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	if len(uc.ingests) != 1 {
		t.Fatalf("expected exactly one ingest, got %v", uc.ingests)
	}
}
