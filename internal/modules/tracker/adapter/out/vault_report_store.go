package out

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tasktrail/internal/modules/tracker/domain"
	trackerout "tasktrail/internal/modules/tracker/port/out"
	"tasktrail/internal/platform/markdown"
)

const (
	ManagedReportStart = "<!-- tasktrail:report:start -->"
	ManagedReportEnd   = "<!-- tasktrail:report:end -->"
)

var reportBlock = markdown.Block{Start: ManagedReportStart, End: ManagedReportEnd}

// ReportFrontmatter is the YAML header of a daily report note.
type ReportFrontmatter struct {
	SchemaVersion          int     `yaml:"schema_version"`
	Day                    string  `yaml:"day"`
	TotalTimeMinutes       float64 `yaml:"total_time_minutes"`
	ActiveTimeMinutes      float64 `yaml:"active_time_minutes"`
	UniqueTasks            int     `yaml:"unique_tasks"`
	LongestSessionMinutes  float64 `yaml:"longest_session_minutes"`
	FocusScore             int     `yaml:"focus_score"`
	IdlePercentage         float64 `yaml:"idle_percentage"`
	SessionsCount          int     `yaml:"sessions_count"`
	AverageSessionMinutes  float64 `yaml:"average_session_minutes"`
	HighConfidenceSessions int     `yaml:"high_confidence_sessions"`
}

func newReportFrontmatter(report domain.DailyReport) ReportFrontmatter {
	s := report.Summary
	return ReportFrontmatter{
		SchemaVersion:          domain.SchemaVersion,
		Day:                    report.Day.Format("2006-01-02"),
		TotalTimeMinutes:       s.TotalTimeMinutes,
		ActiveTimeMinutes:      s.ActiveTimeMinutes,
		UniqueTasks:            s.UniqueTasks,
		LongestSessionMinutes:  s.LongestSessionMinutes,
		FocusScore:             s.FocusScore,
		IdlePercentage:         s.IdlePercentage,
		SessionsCount:          s.SessionsCount,
		AverageSessionMinutes:  s.AverageSessionMinutes,
		HighConfidenceSessions: s.HighConfidenceSessions,
	}
}

// VaultReportStore writes one Markdown note per day. Text outside the managed
// block is preserved when a report is regenerated.
type VaultReportStore struct {
	dataDir string
}

func NewVaultReportStore(dataDir string) trackerout.ReportStore {
	return &VaultReportStore{dataDir: dataDir}
}

func (s *VaultReportStore) Save(_ context.Context, report domain.DailyReport) (string, error) {
	day := report.Day
	dir := filepath.Join(s.dataDir, "reports", day.Format("2006"), day.Format("01"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	path := filepath.Join(dir, day.Format("02")+".md")

	body := fmt.Sprintf("# Activity %s\n", day.Format("Monday, 2 January 2006"))
	existing, err := os.ReadFile(path)
	switch {
	case err == nil:
		note, parseErr := markdown.ParseNote(string(existing))
		if parseErr != nil {
			return "", fmt.Errorf("read existing report %s: %w", path, parseErr)
		}
		body = note.Body
	case !errors.Is(err, os.ErrNotExist):
		return "", fmt.Errorf("read existing report: %w", err)
	}

	body = reportBlock.Replace(body, renderReport(report))
	rendered, err := markdown.RenderNote(newReportFrontmatter(report), body)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write report note: %w", err)
	}
	return path, nil
}

func renderReport(report domain.DailyReport) string {
	b := strings.Builder{}
	s := report.Summary
	fmt.Fprintf(&b, "## Summary\n\n")
	fmt.Fprintf(&b, "- Tracked: %.1f min (%.1f active, %.1f%% idle)\n", s.TotalTimeMinutes, s.ActiveTimeMinutes, s.IdlePercentage)
	fmt.Fprintf(&b, "- Sessions: %d, average %.1f min, longest %.1f min\n", s.SessionsCount, s.AverageSessionMinutes, s.LongestSessionMinutes)
	fmt.Fprintf(&b, "- Focus score: %d, high-confidence sessions: %d\n", s.FocusScore, s.HighConfidenceSessions)

	b.WriteString("\n## Tasks\n\n| Task | Category | Total min | Active min | Sessions | Avg confidence |\n|---|---|---|---|---|---|\n")
	for _, t := range report.Tasks {
		fmt.Fprintf(&b, "| %s | %s | %.1f | %.1f | %d | %.2f |\n", escapeCell(t.TaskName), escapeCell(t.Category), t.TotalMinutes, t.ActiveMinutes, t.SessionCount, t.AverageConfidence)
	}

	b.WriteString("\n## Categories\n\n| Category | Total min | Active min | Sessions |\n|---|---|---|---|\n")
	for _, c := range report.Categories {
		fmt.Fprintf(&b, "| %s | %.1f | %.1f | %d |\n", escapeCell(c.Category), c.TotalMinutes, c.ActiveMinutes, c.SessionCount)
	}

	b.WriteString("\n## Sessions\n\n| Start | End | Task | Screenshots | Confidence |\n|---|---|---|---|---|\n")
	for _, session := range report.Sessions {
		fmt.Fprintf(&b, "| %s | %s | %s | %d | %.2f |\n",
			session.StartTime.Format("15:04:05"),
			session.EndTime.Format("15:04:05"),
			escapeCell(session.TaskName),
			session.ScreenshotCount,
			session.Confidence,
		)
	}
	return strings.TrimRight(b.String(), "\n")
}

func escapeCell(v string) string {
	return strings.ReplaceAll(v, "|", `\|`)
}
