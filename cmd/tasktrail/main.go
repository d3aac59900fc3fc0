package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"tasktrail/internal/bootstrap"
	capturedto "tasktrail/internal/modules/capture/dto"
	trackerinadapter "tasktrail/internal/modules/tracker/adapter/in"
	trackerdto "tasktrail/internal/modules/tracker/dto"
	"tasktrail/internal/platform/config"
	"tasktrail/internal/platform/logging"
)

type rootFlags struct {
	dataDir string
	asJSON  bool
}

type windowFlags struct {
	day  string
	from string
	to   string
}

func (w *windowFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&w.day, "day", "", "calendar day YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&w.from, "from", "", "window start (RFC3339 or YYYY-MM-DD HH:MM)")
	cmd.Flags().StringVar(&w.to, "to", "", "window end, exclusive")
}

func (w windowFlags) window(now time.Time) (trackerdto.WindowInput, error) {
	return trackerinadapter.ParseWindow(w.day, w.from, w.to, now)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "tasktrail",
		Short:         "Turn screenshot activity into tracked work sessions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.dataDir, "data", defaultDataDir(), "data directory")
	root.PersistentFlags().BoolVar(&flags.asJSON, "json", false, "print JSON instead of text")

	root.AddCommand(newObserveCmd(flags))
	root.AddCommand(newTrackCmd(flags))
	root.AddCommand(newSessionsCmd(flags))
	root.AddCommand(newSummaryCmd(flags))
	root.AddCommand(newTasksCmd(flags))
	root.AddCommand(newCategoriesCmd(flags))
	root.AddCommand(newReportCmd(flags))
	root.AddCommand(newWatchCmd(flags))
	root.AddCommand(newServeCmd(flags))
	root.AddCommand(newTUICmd(flags))
	root.AddCommand(newAnnotatorCmd(flags))
	return root
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tasktrail"
	}
	return filepath.Join(home, ".tasktrail")
}

// loadApp wires the application. Long-running commands also log to the
// rotating file under the data directory.
func loadApp(flags *rootFlags, longRunning bool) (*bootstrap.App, error) {
	cfg, err := config.New(flags.dataDir)
	if err != nil {
		return nil, err
	}
	opts := logging.Options{Level: cfg.LogLevel}
	switch {
	case longRunning:
		opts.File = cfg.LogFile
	case hclog.LevelFromString(cfg.LogLevel) == hclog.Info:
		// one-shot commands stay quiet unless debugging
		opts.Level = "warn"
	}
	return bootstrap.New(cfg, logging.New("tasktrail", opts))
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// ─── observe ─────────────────────────────────────────────────────────────────

func newObserveCmd(flags *rootFlags) *cobra.Command {
	observe := &cobra.Command{Use: "observe", Short: "Record and inspect raw observations"}

	var title, category, at, ocr string
	add := &cobra.Command{
		Use:   "add",
		Short: "Record one observation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(flags, false)
			if err != nil {
				return err
			}
			defer app.Close()
			input := capturedto.RecordInput{WindowTitle: title, Category: category, OCRText: ocr}
			if strings.TrimSpace(at) != "" {
				input.CapturedAt, err = trackerinadapter.ParseInstant(at, time.Local)
				if err != nil {
					return err
				}
			}
			out, err := app.CaptureCLI.Record(context.Background(), input)
			if err != nil {
				return err
			}
			if flags.asJSON {
				return printJSON(cmd.OutOrStdout(), out)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "recorded %s at %s [%s]\n", out.ID, out.CapturedAt.Format(time.RFC3339), out.Category)
			return nil
		},
	}
	add.Flags().StringVar(&title, "title", "", "window title")
	add.Flags().StringVar(&category, "category", "", "activity category (default Other)")
	add.Flags().StringVar(&at, "at", "", "capture time (default now)")
	add.Flags().StringVar(&ocr, "ocr", "", "OCR text")
	observe.AddCommand(add)

	observe.AddCommand(&cobra.Command{
		Use:   "import <file.jsonl|->",
		Short: "Import JSON-lines observations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(flags, false)
			if err != nil {
				return err
			}
			defer app.Close()
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}
			out, err := app.CaptureCLI.Import(context.Background(), r)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "imported=%d skipped=%d\n", out.Imported, out.Skipped)
			return nil
		},
	})

	var ingestAnnotator, ingestAt string
	ingest := &cobra.Command{
		Use:   "ingest <screenshot>",
		Short: "Annotate and record a screenshot file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(flags, false)
			if err != nil {
				return err
			}
			defer app.Close()
			input := capturedto.IngestInput{Path: args[0], Annotator: ingestAnnotator}
			if strings.TrimSpace(ingestAt) != "" {
				input.CapturedAt, err = trackerinadapter.ParseInstant(ingestAt, time.Local)
				if err != nil {
					return err
				}
			}
			out, err := app.CaptureCLI.Ingest(context.Background(), input)
			if err != nil {
				return err
			}
			if flags.asJSON {
				return printJSON(cmd.OutOrStdout(), out)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "ingested %s: %q [%s]\n", out.ID, out.WindowTitle, out.Category)
			return nil
		},
	}
	ingest.Flags().StringVar(&ingestAnnotator, "annotator", "", "annotator plugin name (default first enabled)")
	ingest.Flags().StringVar(&ingestAt, "at", "", "capture time (default file modification time)")
	observe.AddCommand(ingest)

	var listWindow windowFlags
	list := &cobra.Command{
		Use:   "list",
		Short: "List observations in a window",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(flags, false)
			if err != nil {
				return err
			}
			defer app.Close()
			window, err := listWindow.window(app.Clock.Now())
			if err != nil {
				return err
			}
			out, err := app.CaptureCLI.List(context.Background(), capturedto.ListInput{From: window.From, To: window.To})
			if err != nil {
				return err
			}
			if flags.asJSON {
				return printJSON(cmd.OutOrStdout(), out)
			}
			if len(out) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no observations")
				return nil
			}
			for _, obs := range out {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", obs.CapturedAt.Format("15:04:05"), obs.Category, obs.WindowTitle)
			}
			return nil
		},
	}
	listWindow.bind(list)
	observe.AddCommand(list)

	observe.AddCommand(&cobra.Command{
		Use:   "count",
		Short: "Count stored observations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(flags, false)
			if err != nil {
				return err
			}
			defer app.Close()
			n, err := app.CaptureCLI.Count(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	})
	return observe
}

// ─── tracker ─────────────────────────────────────────────────────────────────

func newTrackCmd(flags *rootFlags) *cobra.Command {
	var w windowFlags
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "track",
		Short: "Segment observations into sessions and store them",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(flags, false)
			if err != nil {
				return err
			}
			defer app.Close()
			window, err := w.window(app.Clock.Now())
			if err != nil {
				return err
			}
			out, err := app.TrackerCLI.Track(context.Background(), window, dryRun)
			if err != nil {
				return err
			}
			if flags.asJSON {
				return printJSON(cmd.OutOrStdout(), out)
			}
			printSessions(cmd.OutOrStdout(), out.Sessions)
			printSummary(cmd.OutOrStdout(), out.Summary)
			if !out.Persisted {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "dry run: nothing stored")
			}
			return nil
		},
	}
	w.bind(cmd)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "segment without storing or publishing")
	return cmd
}

func newSessionsCmd(flags *rootFlags) *cobra.Command {
	var w windowFlags
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List stored sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(flags, false)
			if err != nil {
				return err
			}
			defer app.Close()
			window, err := w.window(app.Clock.Now())
			if err != nil {
				return err
			}
			out, err := app.TrackerCLI.Sessions(context.Background(), window)
			if err != nil {
				return err
			}
			if flags.asJSON {
				return printJSON(cmd.OutOrStdout(), out)
			}
			printSessions(cmd.OutOrStdout(), out)
			return nil
		},
	}
	w.bind(cmd)
	return cmd
}

func newSummaryCmd(flags *rootFlags) *cobra.Command {
	var day string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the daily summary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(flags, false)
			if err != nil {
				return err
			}
			defer app.Close()
			d, err := trackerinadapter.ParseDay(day, app.Clock.Now())
			if err != nil {
				return err
			}
			out, err := app.TrackerCLI.Summary(context.Background(), d)
			if err != nil {
				return err
			}
			if flags.asJSON {
				return printJSON(cmd.OutOrStdout(), out)
			}
			printSummary(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&day, "day", "", "calendar day YYYY-MM-DD (default today)")
	return cmd
}

func newTasksCmd(flags *rootFlags) *cobra.Command {
	var w windowFlags
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Group stored sessions by task",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(flags, false)
			if err != nil {
				return err
			}
			defer app.Close()
			window, err := w.window(app.Clock.Now())
			if err != nil {
				return err
			}
			out, err := app.TrackerCLI.Tasks(context.Background(), window)
			if err != nil {
				return err
			}
			if flags.asJSON {
				return printJSON(cmd.OutOrStdout(), out)
			}
			if len(out) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no tasks")
				return nil
			}
			for _, t := range out {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%6.1f min\t%d sessions\t%.2f\t%s\t%s\n", t.TotalMinutes, t.SessionCount, t.AverageConfidence, t.Category, t.TaskName)
			}
			return nil
		},
	}
	w.bind(cmd)
	return cmd
}

func newCategoriesCmd(flags *rootFlags) *cobra.Command {
	var w windowFlags
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Break stored sessions down by category",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(flags, false)
			if err != nil {
				return err
			}
			defer app.Close()
			window, err := w.window(app.Clock.Now())
			if err != nil {
				return err
			}
			out, err := app.TrackerCLI.Categories(context.Background(), window)
			if err != nil {
				return err
			}
			if flags.asJSON {
				return printJSON(cmd.OutOrStdout(), out)
			}
			for _, c := range out {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%6.1f min\t%6.1f active\t%d sessions\t%s\n", c.TotalMinutes, c.ActiveMinutes, c.SessionCount, c.Category)
			}
			return nil
		},
	}
	w.bind(cmd)
	return cmd
}

func newReportCmd(flags *rootFlags) *cobra.Command {
	var day string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write the daily Markdown report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(flags, false)
			if err != nil {
				return err
			}
			defer app.Close()
			d, err := trackerinadapter.ParseDay(day, app.Clock.Now())
			if err != nil {
				return err
			}
			out, err := app.TrackerCLI.Report(context.Background(), d)
			if err != nil {
				return err
			}
			if flags.asJSON {
				return printJSON(cmd.OutOrStdout(), out)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "report written: %s\n", out.Path)
			return nil
		},
	}
	cmd.Flags().StringVar(&day, "day", "", "calendar day YYYY-MM-DD (default today)")
	return cmd
}

func printSessions(w io.Writer, sessions []trackerdto.SessionOutput) {
	if len(sessions) == 0 {
		_, _ = fmt.Fprintln(w, "no sessions")
		return
	}
	for _, s := range sessions {
		_, _ = fmt.Fprintf(w, "%s-%s\t%5.1f min\t%.2f\t%s\t%s\n",
			s.StartTime.Format("15:04"), s.EndTime.Format("15:04"), s.DurationMinutes, s.Confidence, s.Category, s.TaskName)
	}
}

func printSummary(w io.Writer, s trackerdto.SummaryOutput) {
	_, _ = fmt.Fprintf(w, "total=%.1fmin active=%.1fmin idle=%.1f%% sessions=%d tasks=%d longest=%.1fmin focus=%d high_confidence=%d\n",
		s.TotalTimeMinutes, s.ActiveTimeMinutes, s.IdlePercentage, s.SessionsCount, s.UniqueTasks, s.LongestSessionMinutes, s.FocusScore, s.HighConfidenceSessions)
}

// ─── long-running ────────────────────────────────────────────────────────────

func newWatchCmd(flags *rootFlags) *cobra.Command {
	var annotator string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Ingest screenshots as they appear and re-track when idle",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := loadApp(flags, true)
			if err != nil {
				return err
			}
			defer app.Close()
			ctx, cancel := signalContext()
			defer cancel()
			app.Logger.Info("watching screenshots", "dir", app.Config.ScreenshotDir)
			return app.NewWatcher(annotator).Run(ctx)
		},
	}
	cmd.Flags().StringVar(&annotator, "annotator", "", "annotator plugin name (default first enabled)")
	return cmd
}

func newServeCmd(flags *rootFlags) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the read-only HTTP API",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := loadApp(flags, true)
			if err != nil {
				return err
			}
			defer app.Close()
			if addr == "" {
				addr = app.Config.HTTPAddr
			}
			server := &http.Server{
				Addr:              addr,
				Handler:           app.HTTPHandler(),
				ReadHeaderTimeout: 5 * time.Second,
			}
			ctx, cancel := signalContext()
			defer cancel()
			go func() {
				<-ctx.Done()
				shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
				defer done()
				_ = server.Shutdown(shutdownCtx)
			}()
			app.Logger.Info("http listening", "addr", addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}

func newTUICmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the terminal dashboard",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.New(flags.dataDir)
			if err != nil {
				return err
			}
			// The alt screen owns stderr, so logs only go to the file.
			logger := logging.New("tasktrail", logging.Options{Level: cfg.LogLevel, Output: io.Discard, File: cfg.LogFile})
			app, err := bootstrap.New(cfg, logger)
			if err != nil {
				return err
			}
			defer app.Close()
			return bootstrap.RunTUI(app)
		},
	}
}

// ─── annotator ───────────────────────────────────────────────────────────────

func newAnnotatorCmd(flags *rootFlags) *cobra.Command {
	annotator := &cobra.Command{Use: "annotator", Short: "Manage screenshot annotator plugins"}

	annotator.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List configured annotators",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(flags, false)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.AnnotatorCLI.List(context.Background())
			if err != nil {
				return err
			}
			if flags.asJSON {
				return printJSON(cmd.OutOrStdout(), out)
			}
			if len(out) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no annotators configured")
				return nil
			}
			for _, item := range out {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\tenabled=%t\tcaps=%s\n", item.Name, item.Version, item.Enabled, strings.Join(item.Capabilities, ","))
			}
			return nil
		},
	})

	annotator.AddCommand(&cobra.Command{
		Use:   "doctor",
		Short: "Check annotator binaries, checksums and lifecycle",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(flags, false)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.AnnotatorCLI.Doctor(context.Background())
			if err != nil {
				return err
			}
			if flags.asJSON {
				return printJSON(cmd.OutOrStdout(), out)
			}
			failing := false
			for _, item := range out {
				marker := "OK"
				if item.Error != "" {
					marker = "FAIL"
					failing = true
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s binary=%t checksum=%t lifecycle=%t model=%s %s\n",
					marker, item.Name, item.BinaryReachable, item.ChecksumValid, item.LifecycleOK, item.Model, item.Error)
			}
			if failing {
				return fmt.Errorf("annotator doctor found failing checks")
			}
			return nil
		},
	})
	return annotator
}
