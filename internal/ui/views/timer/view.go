package timer

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	trackerdto "worktrack/internal/modules/tracker/dto"
	"worktrack/internal/platform/timefmt"
	"worktrack/internal/ui/theme"
)

type TimerPort interface {
	Status(ctx context.Context) (trackerdto.StatusOutput, error)
}

type StatusLoadedMsg struct {
	Status trackerdto.StatusOutput
	Err    error
}

var (
	clockStyle = lipgloss.NewStyle().
			Foreground(theme.Text).
			Bold(true).
			Padding(1, 4).
			BorderStyle(lipgloss.DoubleBorder()).
			BorderForeground(theme.Lavender)

	phaseStyles = map[string]lipgloss.Style{
		"running": theme.Good.Bold(true),
		"paused":  theme.Warn.Bold(true),
		"stopped": theme.Muted,
	}
)

// Model renders the big clock, the phase, and progress toward the daily
// goal. It never mutates timer state itself; transitions belong to the
// app model, which refreshes this view afterwards.
type Model struct {
	port        TimerPort
	progress    progress.Model
	status      trackerdto.StatusOutput
	goalSeconds int
	err         error
	width       int
	height      int
}

func New(port TimerPort, goalSeconds int) Model {
	bar := progress.New(progress.WithDefaultGradient())
	return Model{port: port, progress: bar, goalSeconds: goalSeconds}
}

func (m Model) Init() tea.Cmd {
	return m.Refresh()
}

// Refresh reloads the status asynchronously.
func (m Model) Refresh() tea.Cmd {
	return func() tea.Msg {
		status, err := m.port.Status(context.Background())
		return StatusLoadedMsg{Status: status, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		barWidth := m.width - 16
		if barWidth < 10 {
			barWidth = 10
		}
		m.progress.Width = barWidth

	case StatusLoadedMsg:
		m.err = msg.Err
		if msg.Err == nil {
			m.status = msg.Status
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.err != nil {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			theme.Bad.Render("timer: "+m.err.Error()))
	}

	clock := clockStyle.Render(timefmt.Clock(m.status.ElapsedSeconds))
	phase := m.renderPhase()

	percent := 0.0
	if m.goalSeconds > 0 {
		percent = float64(m.status.TodaySeconds) / float64(m.goalSeconds)
		if percent > 1 {
			percent = 1
		}
	}
	bar := m.progress.ViewAs(percent)
	todayLine := fmt.Sprintf("%s %s of %s  (%.1f%%)",
		theme.Muted.Render("today:"),
		timefmt.Duration(m.status.TodaySeconds),
		timefmt.Duration(m.goalSeconds),
		percent*100,
	)
	sessionsLine := theme.Muted.Render(fmt.Sprintf("sessions today: %d", m.status.SessionCount))
	keysLine := theme.Muted.Render("s:start  p:pause/resume  x:stop")

	body := lipgloss.JoinVertical(lipgloss.Center,
		phase,
		"",
		clock,
		"",
		bar,
		todayLine,
		sessionsLine,
		"",
		keysLine,
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}

func (m Model) renderPhase() string {
	style, ok := phaseStyles[m.status.Phase]
	if !ok {
		style = theme.Muted
	}
	label := m.status.Phase
	if label == "" {
		label = "stopped"
	}
	return style.Render("● " + label)
}
