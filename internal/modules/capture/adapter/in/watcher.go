package in

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	hclog "github.com/hashicorp/go-hclog"

	"tasktrail/internal/modules/capture/dto"
	capturein "tasktrail/internal/modules/capture/port/in"
)

const defaultSettle = 500 * time.Millisecond

var screenshotExts = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".webp": {},
}

type WatcherOptions struct {
	Dir       string
	Annotator string
	// Settle is how long a file must stay unchanged before it is ingested.
	Settle time.Duration
	// Idle is the quiet period after the last ingest that triggers OnIdle.
	Idle   time.Duration
	OnIdle func(ctx context.Context)
}

// Watcher ingests screenshots as they land in a directory.
type Watcher struct {
	usecase capturein.Usecase
	opts    WatcherOptions
	logger  hclog.Logger
}

func NewWatcher(usecase capturein.Usecase, opts WatcherOptions, logger hclog.Logger) *Watcher {
	if opts.Settle <= 0 {
		opts.Settle = defaultSettle
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Watcher{usecase: usecase, opts: opts, logger: logger.Named("watcher")}
}

func IsScreenshot(path string) bool {
	_, ok := screenshotExts[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Run blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if err := os.MkdirAll(w.opts.Dir, 0o755); err != nil {
		return fmt.Errorf("create screenshot dir: %w", err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()
	if err := fsw.Add(w.opts.Dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.opts.Dir, err)
	}
	w.logger.Info("watcher started", "dir", w.opts.Dir, "idle", w.opts.Idle)

	pending := map[string]time.Time{}
	ticker := time.NewTicker(w.opts.Settle / 2)
	defer ticker.Stop()

	idle := time.NewTimer(time.Hour)
	idle.Stop()
	defer idle.Stop()
	armed := false

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watcher stopped")
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !IsScreenshot(event.Name) {
				continue
			}
			pending[event.Name] = time.Now()

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)

		case now := <-ticker.C:
			for path, last := range pending {
				if now.Sub(last) < w.opts.Settle {
					continue
				}
				delete(pending, path)
				if w.ingest(ctx, path) && w.opts.Idle > 0 && w.opts.OnIdle != nil {
					idle.Reset(w.opts.Idle)
					armed = true
				}
			}

		case <-idle.C:
			if armed {
				armed = false
				w.logger.Debug("idle threshold reached")
				w.opts.OnIdle(ctx)
			}
		}
	}
}

func (w *Watcher) ingest(ctx context.Context, path string) bool {
	out, err := w.usecase.IngestScreenshot(ctx, dto.IngestInput{Path: path, Annotator: w.opts.Annotator})
	if err != nil {
		w.logger.Warn("ingest failed", "path", path, "error", err)
		return false
	}
	w.logger.Info("ingested screenshot", "path", path, "category", out.Category, "window_title", out.WindowTitle)
	return true
}
