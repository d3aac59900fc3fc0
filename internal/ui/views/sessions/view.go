package sessions

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	trackerdto "tasktrail/internal/modules/tracker/dto"
	"tasktrail/internal/platform/clock"
	"tasktrail/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type Port interface {
	ListSessions(ctx context.Context, input trackerdto.WindowInput) ([]trackerdto.SessionOutput, error)
	DailySummary(ctx context.Context, day time.Time) (trackerdto.SummaryOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type LoadedMsg struct {
	Day      time.Time
	Sessions []trackerdto.SessionOutput
	Summary  trackerdto.SummaryOutput
	Err      error
}

// ─── list item ───────────────────────────────────────────────────────────────

type sessionItem struct {
	session trackerdto.SessionOutput
}

func (i sessionItem) Title() string { return i.session.TaskName }
func (i sessionItem) Description() string {
	return fmt.Sprintf("%s–%s  %.1f min  %s",
		i.session.StartTime.Format("15:04"),
		i.session.EndTime.Format("15:04"),
		i.session.DurationMinutes,
		i.session.Category,
	)
}
func (i sessionItem) FilterValue() string { return i.session.TaskName + " " + i.session.Category }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    Port
	day     time.Time
	list    list.Model
	summary trackerdto.SummaryOutput
	detail  viewport.Model
	spinner spinner.Model
	loading bool
	err     error
	width   int
	height  int
}

func New(port Port, day time.Time) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	m := Model{
		port:    port,
		day:     day,
		list:    l,
		detail:  vp,
		spinner: sp,
		loading: true,
	}
	m.list.Title = m.title()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Reload(), m.spinner.Tick)
}

// Reload fetches the current day's sessions again.
func (m Model) Reload() tea.Cmd {
	day := m.day
	return func() tea.Msg {
		if m.port == nil {
			return LoadedMsg{Day: day, Err: fmt.Errorf("tracker not configured")}
		}
		start, end := clock.DayBounds(day)
		sessions, err := m.port.ListSessions(context.Background(), trackerdto.WindowInput{From: start, To: end})
		if err != nil {
			return LoadedMsg{Day: day, Err: err}
		}
		summary, err := m.port.DailySummary(context.Background(), day)
		return LoadedMsg{Day: day, Sessions: sessions, Summary: summary, Err: err}
	}
}

// SetDay switches the view to another day and reloads.
func (m *Model) SetDay(day time.Time) tea.Cmd {
	m.day = day
	m.loading = true
	m.list.Title = m.title()
	return m.Reload()
}

func (m Model) Day() time.Time { return m.day }

func (m Model) Summary() trackerdto.SummaryOutput { return m.summary }

func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case LoadedMsg:
		if !sameDay(msg.Day, m.day) {
			return m, nil
		}
		m.loading = false
		m.err = msg.Err
		if msg.Err != nil {
			m.list.Title = m.title() + ": " + msg.Err.Error()
			return m, nil
		}
		m.list.Title = m.title()
		m.summary = msg.Summary
		items := make([]list.Item, len(msg.Sessions))
		for i, s := range msg.Sessions {
			items[i] = sessionItem{session: s}
		}
		cmds = append(cmds, m.list.SetItems(items))
		m.detail.SetContent(m.renderDetail())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	if !m.loading {
		var lCmd tea.Cmd
		prevIdx := m.list.Index()
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)
		if m.list.Index() != prevIdx {
			m.detail.SetContent(m.renderDetail())
		}

		var vCmd tea.Cmd
		m.detail, vCmd = m.detail.Update(msg)
		cmds = append(cmds, vCmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading sessions…")
	}

	listW := m.width * 4 / 10
	detailW := m.width - listW

	listPane := lipgloss.NewStyle().
		Width(listW).
		Height(m.height).
		Render(m.list.View())

	detailPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(detailW - 2).
		Height(m.height - 2).
		Render(m.detail.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m Model) title() string {
	return "Sessions " + m.day.Format("Mon 2006-01-02")
}

func (m *Model) resize() {
	listW := m.width * 4 / 10
	detailW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.detail.Width = detailW - 4
	m.detail.Height = m.height - 4
}

func (m Model) renderDetail() string {
	var sb strings.Builder
	s := m.summary
	sb.WriteString(theme.Title.Render("Day") + "\n")
	sb.WriteString(fmt.Sprintf("%s%.1f min (%.1f active, %.1f%% idle)\n", theme.Muted.Render("tracked: "), s.TotalTimeMinutes, s.ActiveTimeMinutes, s.IdlePercentage))
	sb.WriteString(fmt.Sprintf("%s%d, avg %.1f min, longest %.1f min\n", theme.Muted.Render("sessions: "), s.SessionsCount, s.AverageSessionMinutes, s.LongestSessionMinutes))
	sb.WriteString(fmt.Sprintf("%s%d  %s\n", theme.Muted.Render("focus: "), s.FocusScore, theme.Bar(float64(s.FocusScore)/100, 20)))
	sb.WriteString("\n")

	item, ok := m.list.SelectedItem().(sessionItem)
	if !ok {
		sb.WriteString(theme.Muted.Render("No sessions recorded for this day"))
		return sb.String()
	}
	d := item.session
	sb.WriteString(theme.Title.Render(d.TaskName) + "\n\n")
	sb.WriteString(theme.Muted.Render("window:      ") + d.WindowTitle + "\n")
	sb.WriteString(theme.Muted.Render("category:    ") + d.Category + "\n")
	sb.WriteString(theme.Muted.Render("span:        ") + d.StartTime.Format("15:04:05") + " – " + d.EndTime.Format("15:04:05") + "\n")
	sb.WriteString(fmt.Sprintf("%s%.1f min (%.1f active)\n", theme.Muted.Render("duration:    "), d.DurationMinutes, d.ActiveMinutes))
	sb.WriteString(fmt.Sprintf("%s%d\n", theme.Muted.Render("screenshots: "), d.ScreenshotCount))
	sb.WriteString(theme.Muted.Render("confidence:  ") + theme.Confidence(d.Confidence).Render(fmt.Sprintf("%.2f", d.Confidence)) + "\n")
	if len(d.GapSeconds) > 0 {
		gaps := make([]string, 0, len(d.GapSeconds))
		for _, g := range d.GapSeconds {
			gaps = append(gaps, fmt.Sprintf("%.0fs", g))
		}
		sb.WriteString(theme.Muted.Render("gaps:        ") + strings.Join(gaps, ", ") + "\n")
	}
	return sb.String()
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
