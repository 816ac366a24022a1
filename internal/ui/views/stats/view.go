package stats

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	statsdto "worktrack/internal/modules/stats/dto"
	"worktrack/internal/platform/timefmt"
	"worktrack/internal/ui/theme"
)

type StatsPort interface {
	Summary(ctx context.Context) (statsdto.SummaryOutput, error)
	Insights(ctx context.Context) ([]statsdto.InsightOutput, error)
}

type SummaryLoadedMsg struct {
	Summary  statsdto.SummaryOutput
	Insights []statsdto.InsightOutput
	Err      error
}

var severityStyles = map[string]lipgloss.Style{
	"positive": theme.Good,
	"neutral":  theme.Warn,
	"negative": theme.Bad,
}

// Model shows the aggregate figures and today's insights.
type Model struct {
	port     StatsPort
	spinner  spinner.Model
	summary  statsdto.SummaryOutput
	insights []statsdto.InsightOutput
	loading  bool
	err      error
	width    int
	height   int
}

func New(port StatsPort) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)
	return Model{port: port, spinner: sp, loading: true}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Refresh(), m.spinner.Tick)
}

func (m Model) Refresh() tea.Cmd {
	return func() tea.Msg {
		summary, err := m.port.Summary(context.Background())
		if err != nil {
			return SummaryLoadedMsg{Err: err}
		}
		insights, err := m.port.Insights(context.Background())
		return SummaryLoadedMsg{Summary: summary, Insights: insights, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case SummaryLoadedMsg:
		m.loading = false
		m.err = msg.Err
		if msg.Err == nil {
			m.summary = msg.Summary
			m.insights = msg.Insights
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Crunching numbers…")
	}
	if m.err != nil {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			theme.Bad.Render("stats: "+m.err.Error()))
	}

	var sb strings.Builder
	s := m.summary
	sb.WriteString(theme.Title.Render("Statistics") + "\n\n")
	sb.WriteString(fmt.Sprintf("%s %s of %s (%.1f%%)\n",
		theme.Muted.Render("today:     "),
		timefmt.Duration(s.TodaySeconds), timefmt.Duration(s.GoalSeconds), s.TodayPercent))
	sb.WriteString(fmt.Sprintf("%s %d/%d days at goal (%d%%)\n",
		theme.Muted.Render("completed: "), s.CompletedDays, s.WindowDays, s.OverallPercent))
	sb.WriteString(fmt.Sprintf("%s %s\n", theme.Muted.Render("total:     "), timefmt.Duration(s.TotalSeconds)))
	sb.WriteString(fmt.Sprintf("%s %s per day\n", theme.Muted.Render("average:   "), timefmt.Duration(s.AverageSeconds)))

	if len(s.Window) > 0 {
		sb.WriteString("\n" + theme.Title.Render("Recent days") + "\n")
		for _, day := range s.Window {
			mark := theme.Muted.Render("○")
			if day.GoalMet {
				mark = theme.Good.Render("●")
			}
			sb.WriteString(fmt.Sprintf("  %s %s  %s\n", mark, day.DateKey, timefmt.Duration(day.TotalSeconds)))
		}
	}

	if len(m.insights) > 0 {
		sb.WriteString("\n" + theme.Title.Render("Insights") + "\n")
		for _, insight := range m.insights {
			style, ok := severityStyles[insight.Severity]
			if !ok {
				style = theme.Muted
			}
			sb.WriteString("  " + style.Render("▪ ") + insight.Message + "\n")
		}
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(sb.String())
}
