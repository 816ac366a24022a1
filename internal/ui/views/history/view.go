package history

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	trackerdto "worktrack/internal/modules/tracker/dto"
	"worktrack/internal/platform/timefmt"
	"worktrack/internal/ui/theme"
)

type HistoryPort interface {
	History(ctx context.Context) ([]trackerdto.DayOutput, error)
}

type DaysLoadedMsg struct {
	Days []trackerdto.DayOutput
	Err  error
}

var cardStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(theme.Surface1).
	Background(theme.Mantle).
	Padding(0, 1)

// Model shows one card per recorded day, newest first, scrollable.
type Model struct {
	port        HistoryPort
	viewport    viewport.Model
	days        []trackerdto.DayOutput
	goalSeconds int
	err         error
	width       int
	height      int
}

func New(port HistoryPort, goalSeconds int) Model {
	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().Foreground(theme.Text)
	return Model{port: port, viewport: vp, goalSeconds: goalSeconds}
}

func (m Model) Init() tea.Cmd {
	return m.Refresh()
}

func (m Model) Refresh() tea.Cmd {
	return func() tea.Msg {
		days, err := m.port.History(context.Background())
		return DaysLoadedMsg{Days: days, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = m.width
		m.viewport.Height = m.height
		m.viewport.SetContent(m.renderCards())

	case DaysLoadedMsg:
		m.err = msg.Err
		if msg.Err == nil {
			m.days = msg.Days
			m.viewport.SetContent(m.renderCards())
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.err != nil {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			theme.Bad.Render("history: "+m.err.Error()))
	}
	if len(m.days) == 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			theme.Muted.Render("No history yet."))
	}
	return m.viewport.View()
}

func (m Model) renderCards() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("History") + "\n\n")
	for _, day := range m.days {
		sb.WriteString(m.renderCard(day) + "\n")
	}
	return sb.String()
}

func (m Model) renderCard(day trackerdto.DayOutput) string {
	mark := theme.Muted.Render("○")
	if m.goalSeconds > 0 && day.TotalSeconds >= m.goalSeconds {
		mark = theme.Good.Render("●")
	}
	line := fmt.Sprintf("%s %s  %s  %s",
		mark,
		theme.Hot.Render(day.DateKey),
		timefmt.Duration(day.TotalSeconds),
		theme.Muted.Render(fmt.Sprintf("%d sessions", day.SessionCount)),
	)
	width := m.width - 4
	if width < 20 {
		width = 20
	}
	return cardStyle.Width(width).Render(line)
}
