package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	annotatordto "tasktrail/internal/modules/annotator/dto"
	trackerdto "tasktrail/internal/modules/tracker/dto"
	"tasktrail/internal/platform/clock"
	"tasktrail/internal/ui/components"
	"tasktrail/internal/ui/theme"
	annotatorsview "tasktrail/internal/ui/views/annotators"
	sessionsview "tasktrail/internal/ui/views/sessions"
	tasksview "tasktrail/internal/ui/views/tasks"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface that this orchestration layer requires.
// Sub-view ports are defined in their own packages and narrowed further.

type trackerPort interface {
	Track(ctx context.Context, window trackerdto.WindowInput, dryRun bool) (trackerdto.TrackOutput, error)
	Sessions(ctx context.Context, window trackerdto.WindowInput) ([]trackerdto.SessionOutput, error)
	Summary(ctx context.Context, day time.Time) (trackerdto.SummaryOutput, error)
	Tasks(ctx context.Context, window trackerdto.WindowInput) ([]trackerdto.TaskOutput, error)
	Categories(ctx context.Context, window trackerdto.WindowInput) ([]trackerdto.CategoryOutput, error)
	Report(ctx context.Context, day time.Time) (trackerdto.ReportOutput, error)
}

type annotatorPort interface {
	Doctor(ctx context.Context) ([]annotatordto.DoctorResult, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabSessions tabID = iota
	tabTasks
	tabAnnotators
	tabCount
)

var tabLabels = [tabCount]string{
	"Sessions", "Tasks", "Annotators",
}

var paletteHints = []string{
	"track",
	"track:dry",
	"report",
	"day <YYYY-MM-DD>",
	"day:prev",
	"day:next",
	"refresh",
	"annotators:doctor",
}

// ─── async messages ───────────────────────────────────────────────────────────

type trackedMsg struct {
	out trackerdto.TrackOutput
	err error
}

type reportWrittenMsg struct {
	out trackerdto.ReportOutput
	err error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Track   key.Binding
	Refresh key.Binding
	Doctor  key.Binding
	PrevDay key.Binding
	NextDay key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Track:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "track day")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Doctor:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "annotator doctor")),
		PrevDay: key.NewBinding(key.WithKeys("left"), key.WithHelp("←/→", "day")),
		NextDay: key.NewBinding(key.WithKeys("right"), key.WithHelp("←/→", "day")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Track, k.Refresh, k.Doctor},
		{k.PrevDay, k.NextDay},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the selected day,
// the help overlay and the command palette. Rendering is delegated to sub-views.
type Model struct {
	tracker trackerPort

	sessionsView   sessionsview.Model
	tasksView      tasksview.Model
	annotatorsView annotatorsview.Model

	day       time.Time
	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	status    string
	width     int
	height    int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(tracker trackerPort, annotator annotatorPort, clk clock.Clock) Model {
	day, _ := clock.DayBounds(clk.Now())

	var sessionsPort sessionsview.Port
	var tasksPort tasksview.Port
	if tracker != nil {
		sessionsPort = sessionsPortBridge{p: tracker}
		tasksPort = tasksPortBridge{p: tracker}
	}
	var annotatorsPort annotatorsview.Port
	if annotator != nil {
		annotatorsPort = annotator
	}

	return Model{
		tracker:        tracker,
		sessionsView:   sessionsview.New(sessionsPort, day),
		tasksView:      tasksview.New(tasksPort, day),
		annotatorsView: annotatorsview.New(annotatorsPort),
		day:            day,
		activeTab:      tabSessions,
		keys:           defaultKeys(),
		help:           help.New(),
		palette:        components.NewPalette(paletteHints),
		status:         "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.sessionsView.Init(),
		m.tasksView.Init(),
	)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts all input while open.
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case trackedMsg:
		if msg.err != nil {
			m.status = "track failed: " + msg.err.Error()
			return m, nil
		}
		verb := "tracked"
		if !msg.out.Persisted {
			verb = "dry run"
		}
		m.status = fmt.Sprintf("%s: %d observations → %d sessions", verb, msg.out.ObservationCount, len(msg.out.Sessions))
		return m, m.reload()

	case reportWrittenMsg:
		if msg.err != nil {
			m.status = "report failed: " + msg.err.Error()
		} else {
			m.status = "report written: " + msg.out.Path
		}
		return m, nil

	// Loaded messages always reach their view, whichever tab is active.
	case sessionsview.LoadedMsg:
		var cmd tea.Cmd
		m.sessionsView, cmd = m.sessionsView.Update(msg)
		return m, cmd

	case tasksview.LoadedMsg:
		var cmd tea.Cmd
		m.tasksView, cmd = m.tasksView.Update(msg)
		return m, cmd

	case annotatorsview.DoctorDoneMsg:
		if msg.Err != nil {
			m.status = "doctor: " + msg.Err.Error()
		} else {
			m.status = fmt.Sprintf("doctor checked %d annotators", len(msg.Results))
		}
		var cmd tea.Cmd
		m.annotatorsView, cmd = m.annotatorsView.Update(msg)
		return m, cmd

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		// Yield to sub-view when its search filter is active.
		if m.activeTab == tabSessions && m.sessionsView.Filtering() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case ":":
			return m, m.palette.Open()
		case "left":
			return m, m.setDay(m.day.AddDate(0, 0, -1))
		case "right":
			return m, m.setDay(m.day.AddDate(0, 0, 1))
		case "r":
			m.status = "refreshing"
			return m, m.reload()
		case "t":
			return m, m.trackCmd(false)
		case "d":
			m.activeTab = tabAnnotators
			return m, m.annotatorsView.RunDoctor()
		}
	}

	// Propagate the message to the active tab's sub-view.
	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabSessions:
		m.sessionsView, tabCmd = m.sessionsView.Update(msg)
	case tabTasks:
		m.tasksView, tabCmd = m.tasksView.Update(msg)
	case tabAnnotators:
		m.annotatorsView, tabCmd = m.annotatorsView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	tabBarH := lipgloss.Height(tabBar)
	statusBarH := lipgloss.Height(statusBar)

	contentH := m.height - tabBarH - statusBarH
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabSessions:
		return m.sessionsView.View()
	case tabTasks:
		return m.tasksView.View()
	case tabAnnotators:
		return m.annotatorsView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "tasktrail  " + strings.Join(parts, sep) + "  " + theme.Title.Render(m.day.Format("2006-01-02"))
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if s := m.sessionsView.Summary(); s.SessionsCount > 0 {
		left = theme.Hot.Render(fmt.Sprintf("● %.0f min, focus %d", s.ActiveTimeMinutes, s.FocusScore)) + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  ←/→:day  t:track  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)

	switch parts[0] {
	case "track":
		return m, m.trackCmd(false)

	case "track:dry":
		return m, m.trackCmd(true)

	case "report":
		return m, m.reportCmd()

	case "day":
		if len(parts) < 2 {
			m.status = "usage: day <YYYY-MM-DD>"
			return m, nil
		}
		day, err := time.ParseInLocation("2006-01-02", parts[1], m.day.Location())
		if err != nil {
			m.status = "invalid day: " + parts[1]
			return m, nil
		}
		return m, m.setDay(day)

	case "day:prev":
		return m, m.setDay(m.day.AddDate(0, 0, -1))

	case "day:next":
		return m, m.setDay(m.day.AddDate(0, 0, 1))

	case "refresh":
		return m, m.reload()

	case "annotators:doctor":
		m.activeTab = tabAnnotators
		return m, m.annotatorsView.RunDoctor()

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m *Model) setDay(day time.Time) tea.Cmd {
	m.day, _ = clock.DayBounds(day)
	m.status = "day " + m.day.Format("2006-01-02")
	return tea.Batch(m.sessionsView.SetDay(m.day), m.tasksView.SetDay(m.day))
}

func (m Model) reload() tea.Cmd {
	return tea.Batch(m.sessionsView.Reload(), m.tasksView.Reload())
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.sessionsView, _ = m.sessionsView.Update(sz)
	m.tasksView, _ = m.tasksView.Update(sz)
	m.annotatorsView, _ = m.annotatorsView.Update(sz)
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) trackCmd(dryRun bool) tea.Cmd {
	start, end := clock.DayBounds(m.day)
	return func() tea.Msg {
		if m.tracker == nil {
			return trackedMsg{err: fmt.Errorf("tracker not configured")}
		}
		out, err := m.tracker.Track(context.Background(), trackerdto.WindowInput{From: start, To: end}, dryRun)
		return trackedMsg{out: out, err: err}
	}
}

func (m Model) reportCmd() tea.Cmd {
	day := m.day
	return func() tea.Msg {
		if m.tracker == nil {
			return reportWrittenMsg{err: fmt.Errorf("tracker not configured")}
		}
		out, err := m.tracker.Report(context.Background(), day)
		return reportWrittenMsg{out: out, err: err}
	}
}

// ─── port bridges ─────────────────────────────────────────────────────────────

type sessionsPortBridge struct{ p trackerPort }

func (b sessionsPortBridge) ListSessions(ctx context.Context, input trackerdto.WindowInput) ([]trackerdto.SessionOutput, error) {
	return b.p.Sessions(ctx, input)
}
func (b sessionsPortBridge) DailySummary(ctx context.Context, day time.Time) (trackerdto.SummaryOutput, error) {
	return b.p.Summary(ctx, day)
}

type tasksPortBridge struct{ p trackerPort }

func (b tasksPortBridge) Tasks(ctx context.Context, input trackerdto.WindowInput) ([]trackerdto.TaskOutput, error) {
	return b.p.Tasks(ctx, input)
}
func (b tasksPortBridge) Categories(ctx context.Context, input trackerdto.WindowInput) ([]trackerdto.CategoryOutput, error) {
	return b.p.Categories(ctx, input)
}
