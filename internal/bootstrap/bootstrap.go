package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	hclog "github.com/hashicorp/go-hclog"

	annotatorinadapter "tasktrail/internal/modules/annotator/adapter/in"
	annotatoroutadapter "tasktrail/internal/modules/annotator/adapter/out"
	annotatorservice "tasktrail/internal/modules/annotator/service"
	annotatorusecase "tasktrail/internal/modules/annotator/usecase"
	captureinadapter "tasktrail/internal/modules/capture/adapter/in"
	captureoutadapter "tasktrail/internal/modules/capture/adapter/out"
	capturein "tasktrail/internal/modules/capture/port/in"
	captureservice "tasktrail/internal/modules/capture/service"
	captureusecase "tasktrail/internal/modules/capture/usecase"
	trackerinadapter "tasktrail/internal/modules/tracker/adapter/in"
	trackeroutadapter "tasktrail/internal/modules/tracker/adapter/out"
	"tasktrail/internal/modules/tracker/domain"
	trackerdto "tasktrail/internal/modules/tracker/dto"
	trackerin "tasktrail/internal/modules/tracker/port/in"
	trackerout "tasktrail/internal/modules/tracker/port/out"
	trackerservice "tasktrail/internal/modules/tracker/service"
	trackerusecase "tasktrail/internal/modules/tracker/usecase"
	"tasktrail/internal/platform/clock"
	"tasktrail/internal/platform/config"
	"tasktrail/internal/platform/id"
	uiapp "tasktrail/internal/ui/app"
)

type App struct {
	Config       config.Config
	Clock        clock.Clock
	Logger       hclog.Logger
	CaptureCLI   captureinadapter.CLIHandler
	TrackerCLI   trackerinadapter.CLIHandler
	AnnotatorCLI annotatorinadapter.CLIHandler

	captureUC capturein.Usecase
	trackerUC trackerin.Usecase
	closers   []func()
}

func New(cfg config.Config, logger hclog.Logger) (*App, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	clk := clock.SystemClock{}
	ids := id.UUID{}
	app := &App{Config: cfg, Clock: clk, Logger: logger}

	annotatorUC := annotatorusecase.NewInteractor(annotatorservice.NewAnnotatorService(
		annotatoroutadapter.NewFileManifestStore(cfg.DataDir),
		annotatoroutadapter.NewGRPCHost(logger),
	))

	observationStore, err := captureoutadapter.NewSQLiteObservationStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("new observation store: %w", err)
	}
	app.onClose("observation store", observationStore.Close)
	captureUC := captureusecase.NewInteractor(captureservice.NewCaptureService(
		clk,
		ids,
		observationStore,
		captureoutadapter.NewAnnotatorAdapter(annotatorUC),
		logger,
	))

	segmenter, err := domain.NewSegmenter(trackerSettings(cfg.Tracker))
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("tracker settings: %w", err)
	}
	sessionStore, err := trackeroutadapter.NewSQLiteSessionStore(cfg.DBPath)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("new session store: %w", err)
	}
	app.onClose("session store", sessionStore.Close)
	publisher, err := app.publisher()
	if err != nil {
		app.Close()
		return nil, err
	}
	trackerUC := trackerusecase.NewInteractor(trackerservice.NewTrackerService(
		ids,
		segmenter,
		trackeroutadapter.NewCaptureObservationAdapter(captureUC),
		sessionStore,
		publisher,
		trackeroutadapter.NewVaultReportStore(cfg.DataDir),
		logger,
	))

	app.captureUC = captureUC
	app.trackerUC = trackerUC
	app.CaptureCLI = captureinadapter.NewCLIHandler(captureUC)
	app.TrackerCLI = trackerinadapter.NewCLIHandler(trackerUC)
	app.AnnotatorCLI = annotatorinadapter.NewCLIHandler(annotatorUC)
	return app, nil
}

// Close releases connections opened by New.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func (a *App) onClose(name string, closeFn func() error) {
	a.closers = append(a.closers, func() {
		if err := closeFn(); err != nil {
			a.Logger.Warn("close failed", "component", name, "error", err)
		}
	})
}

func (a *App) publisher() (trackerout.EventPublisher, error) {
	if a.Config.NATSURL == "" {
		return trackeroutadapter.NewNoopPublisher(), nil
	}
	pub, err := trackeroutadapter.NewNATSPublisher(a.Config.NATSURL, a.Logger)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	a.closers = append(a.closers, pub.Close)
	return pub, nil
}

// NewWatcher builds a screenshot watcher over the configured directory. When
// the directory goes quiet for idle_threshold, today's window is re-tracked.
func (a *App) NewWatcher(annotator string) *captureinadapter.Watcher {
	logger := a.Logger.Named("capture")
	return captureinadapter.NewWatcher(a.captureUC, captureinadapter.WatcherOptions{
		Dir:       a.Config.ScreenshotDir,
		Annotator: annotator,
		Idle:      a.Config.Tracker.Idle(),
		OnIdle: func(ctx context.Context) {
			from, to := clock.DayBounds(a.Clock.Now())
			out, err := a.trackerUC.Track(ctx, trackerdto.TrackInput{From: from, To: to})
			if err != nil {
				logger.Warn("idle re-track failed", "error", err)
				return
			}
			logger.Info("idle re-track", "observations", out.ObservationCount, "sessions", len(out.Sessions))
		},
	}, logger)
}

func (a *App) HTTPHandler() http.Handler {
	return trackerinadapter.NewHTTPHandler(a.trackerUC, a.Clock, a.Logger)
}

func RunTUI(app *App) error {
	model := uiapp.NewModel(app.TrackerCLI, app.AnnotatorCLI, app.Clock)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}

func trackerSettings(cfg config.TrackerConfig) domain.Settings {
	settings := domain.DefaultSettings()
	settings.ScreenshotInterval = cfg.Interval()
	settings.MinSessionDuration = cfg.MinDuration()
	settings.MaxSessionGap = cfg.MaxGap()
	if len(cfg.CategoryGaps) > 0 {
		overrides := make(map[string]time.Duration, len(cfg.CategoryGaps))
		for category, seconds := range cfg.CategoryGaps {
			overrides[category] = time.Duration(seconds) * time.Second
		}
		settings.Thresholds = settings.Thresholds.With(overrides)
	}
	return settings
}
