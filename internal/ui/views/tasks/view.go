package tasks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	trackerdto "tasktrail/internal/modules/tracker/dto"
	"tasktrail/internal/platform/clock"
	"tasktrail/internal/ui/theme"
)

type Port interface {
	Tasks(ctx context.Context, input trackerdto.WindowInput) ([]trackerdto.TaskOutput, error)
	Categories(ctx context.Context, input trackerdto.WindowInput) ([]trackerdto.CategoryOutput, error)
}

type LoadedMsg struct {
	Day        time.Time
	Tasks      []trackerdto.TaskOutput
	Categories []trackerdto.CategoryOutput
	Err        error
}

const (
	nameWidth = 32
	barWidth  = 24
)

// Model shows per-task and per-category totals for one day.
type Model struct {
	port       Port
	day        time.Time
	tasks      []trackerdto.TaskOutput
	categories []trackerdto.CategoryOutput
	err        error
	body       viewport.Model
	width      int
	height     int
}

func New(port Port, day time.Time) Model {
	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().Foreground(theme.Text).Padding(0, 1)
	return Model{port: port, day: day, body: vp}
}

func (m Model) Init() tea.Cmd { return m.Reload() }

func (m Model) Reload() tea.Cmd {
	day := m.day
	return func() tea.Msg {
		if m.port == nil {
			return LoadedMsg{Day: day, Err: fmt.Errorf("tracker not configured")}
		}
		start, end := clock.DayBounds(day)
		window := trackerdto.WindowInput{From: start, To: end}
		tasks, err := m.port.Tasks(context.Background(), window)
		if err != nil {
			return LoadedMsg{Day: day, Err: err}
		}
		categories, err := m.port.Categories(context.Background(), window)
		return LoadedMsg{Day: day, Tasks: tasks, Categories: categories, Err: err}
	}
}

func (m *Model) SetDay(day time.Time) tea.Cmd {
	m.day = day
	return m.Reload()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.body.Width = msg.Width
		m.body.Height = msg.Height
	case LoadedMsg:
		if !msg.Day.Equal(m.day) {
			return m, nil
		}
		m.err = msg.Err
		m.tasks = msg.Tasks
		m.categories = msg.Categories
		m.body.SetContent(m.Render())
		m.body.GotoTop()
		return m, nil
	}
	var cmd tea.Cmd
	m.body, cmd = m.body.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.body.View()
}

// Render draws the task and category tables.
func (m Model) Render() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Tasks "+m.day.Format("Mon 2006-01-02")) + "\n\n")
	if m.err != nil {
		sb.WriteString(theme.Bad.Render(m.err.Error()))
		return sb.String()
	}
	if len(m.tasks) == 0 {
		sb.WriteString(theme.Muted.Render("No tasks tracked for this day"))
		return sb.String()
	}

	maxMinutes := m.tasks[0].TotalMinutes
	for _, t := range m.tasks {
		sb.WriteString(fmt.Sprintf("%-*s %s %6.1f min  %2d× %s\n",
			nameWidth, truncate(t.TaskName, nameWidth),
			theme.Bar(ratio(t.TotalMinutes, maxMinutes), barWidth),
			t.TotalMinutes,
			t.SessionCount,
			theme.Confidence(t.AverageConfidence).Render(fmt.Sprintf("%.2f", t.AverageConfidence)),
		))
	}

	sb.WriteString("\n" + theme.Title.Render("Categories") + "\n\n")
	var total float64
	for _, c := range m.categories {
		total += c.TotalMinutes
	}
	for _, c := range m.categories {
		sb.WriteString(fmt.Sprintf("%-*s %s %6.1f min  %5.1f%%\n",
			nameWidth, truncate(c.Category, nameWidth),
			theme.Bar(ratio(c.TotalMinutes, total), barWidth),
			c.TotalMinutes,
			100*ratio(c.TotalMinutes, total),
		))
	}
	return sb.String()
}

func ratio(v, max float64) float64 {
	if max <= 0 {
		return 0
	}
	return v / max
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
