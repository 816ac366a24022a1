package sessions

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	trackerdto "worktrack/internal/modules/tracker/dto"
	"worktrack/internal/platform/timefmt"
	"worktrack/internal/ui/theme"
)

type SessionsPort interface {
	Today(ctx context.Context) (trackerdto.TodayOutput, error)
}

type TodayLoadedMsg struct {
	Today trackerdto.TodayOutput
	Err   error
}

type sessionItem struct {
	index   int
	session trackerdto.SessionOutput
}

func (i sessionItem) Title() string {
	marker := ""
	if i.session.Open {
		marker = "  " + theme.Good.Render("● open")
	}
	return fmt.Sprintf("Session %d — %s%s", i.index+1, timefmt.Clock(i.session.DurationSeconds), marker)
}

func (i sessionItem) Description() string {
	started := i.session.StartedAt.Format("15:04:05")
	ended := "…"
	if i.session.EndedAt != nil {
		ended = i.session.EndedAt.Format("15:04:05")
	}
	pauses := ""
	if i.session.PauseCount > 0 {
		pauses = fmt.Sprintf("  %d pauses", i.session.PauseCount)
	}
	return fmt.Sprintf("%s → %s%s", started, ended, pauses)
}

func (i sessionItem) FilterValue() string { return i.session.ID }

// Model lists today's sessions, newest data on every refresh.
type Model struct {
	port   SessionsPort
	list   list.Model
	width  int
	height int
}

func New(port SessionsPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Today"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return Model{port: port, list: l}
}

func (m Model) Init() tea.Cmd {
	return m.Refresh()
}

func (m Model) Refresh() tea.Cmd {
	return func() tea.Msg {
		today, err := m.port.Today(context.Background())
		return TodayLoadedMsg{Today: today, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(m.width, m.height)

	case TodayLoadedMsg:
		if msg.Err != nil {
			m.list.Title = "Today — " + msg.Err.Error()
			return m, nil
		}
		m.list.Title = fmt.Sprintf("Today %s — %s", msg.Today.DateKey, timefmt.Duration(msg.Today.TotalSeconds))
		items := make([]list.Item, len(msg.Today.Sessions))
		for i, s := range msg.Today.Sessions {
			items[i] = sessionItem{index: i, session: s}
		}
		cmds = append(cmds, m.list.SetItems(items))
	}

	var lCmd tea.Cmd
	m.list, lCmd = m.list.Update(msg)
	cmds = append(cmds, lCmd)
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			theme.Muted.Render("No sessions yet today. Press s to start one."))
	}
	return m.list.View()
}
