package annotators

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	annotatordto "tasktrail/internal/modules/annotator/dto"
	"tasktrail/internal/ui/theme"
)

// Port is the minimal interface this view needs from the annotator use-case.
type Port interface {
	Doctor(ctx context.Context) ([]annotatordto.DoctorResult, error)
}

// DoctorDoneMsg carries the result of one doctor run.
type DoctorDoneMsg struct {
	Results []annotatordto.DoctorResult
	Err     error
}

type Model struct {
	port    Port
	results []annotatordto.DoctorResult
	err     error
	running bool
	body    viewport.Model
	spinner spinner.Model
	width   int
	height  int
}

func New(port Port) Model {
	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().Foreground(theme.Text).Padding(0, 1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	m := Model{port: port, body: vp, spinner: sp}
	m.body.SetContent(m.render())
	return m
}

// RunDoctor launches every enabled annotator once; this can take a few seconds.
func (m *Model) RunDoctor() tea.Cmd {
	if m.port == nil {
		m.err = fmt.Errorf("annotators not configured")
		m.body.SetContent(m.render())
		return nil
	}
	m.running = true
	port := m.port
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		results, err := port.Doctor(context.Background())
		return DoctorDoneMsg{Results: results, Err: err}
	})
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.body.Width = msg.Width
		m.body.Height = msg.Height
	case DoctorDoneMsg:
		m.running = false
		m.results = msg.Results
		m.err = msg.Err
		m.body.SetContent(m.render())
		return m, nil
	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	var cmd tea.Cmd
	m.body, cmd = m.body.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.running {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Checking annotators…")
	}
	return m.body.View()
}

func (m Model) render() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Annotators") + "\n\n")
	if m.err != nil {
		sb.WriteString(theme.Bad.Render(m.err.Error()) + "\n")
		return sb.String()
	}
	if len(m.results) == 0 {
		sb.WriteString(theme.Muted.Render("Press d to run the doctor. Register plugins in <data>/plugins/plugins.json."))
		return sb.String()
	}
	for _, r := range m.results {
		status := theme.Good.Render("ok")
		if r.Error != "" {
			status = theme.Bad.Render(r.Error)
		}
		sb.WriteString(theme.Hot.Render(r.Name) + "  " + status + "\n")
		sb.WriteString(fmt.Sprintf("  %s%s  %s%s  %s%s\n",
			theme.Muted.Render("binary "), mark(r.BinaryReachable),
			theme.Muted.Render("checksum "), mark(r.ChecksumValid),
			theme.Muted.Render("lifecycle "), mark(r.LifecycleOK),
		))
		if r.Model != "" {
			sb.WriteString("  " + theme.Muted.Render("model ") + r.Model + "\n")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func mark(ok bool) string {
	if ok {
		return theme.Good.Render("✓")
	}
	return theme.Bad.Render("✗")
}
