package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	plugindto "worktrack/internal/modules/plugin/dto"
	statsdto "worktrack/internal/modules/stats/dto"
	trackerdto "worktrack/internal/modules/tracker/dto"
	"worktrack/internal/platform/timefmt"
	"worktrack/internal/ui/components"
	"worktrack/internal/ui/theme"
	historyview "worktrack/internal/ui/views/history"
	sessionsview "worktrack/internal/ui/views/sessions"
	statsview "worktrack/internal/ui/views/stats"
	timerview "worktrack/internal/ui/views/timer"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface that this orchestration layer requires.
// Sub-view ports are defined in their own packages and narrowed further.

type trackerPort interface {
	Start(ctx context.Context) (trackerdto.StatusOutput, error)
	Pause(ctx context.Context) (trackerdto.StatusOutput, error)
	Resume(ctx context.Context) (trackerdto.StatusOutput, error)
	Stop(ctx context.Context) (trackerdto.StopOutput, error)
	Reset(ctx context.Context) error
	Status(ctx context.Context) (trackerdto.StatusOutput, error)
	Today(ctx context.Context) (trackerdto.TodayOutput, error)
	History(ctx context.Context) ([]trackerdto.DayOutput, error)
	Autosave(ctx context.Context) (bool, error)
}

type statsPort interface {
	Summary(ctx context.Context) (statsdto.SummaryOutput, error)
	Insights(ctx context.Context) ([]statsdto.InsightOutput, error)
}

type pluginPort interface {
	ListCommands(ctx context.Context, pluginName string) ([]plugindto.CommandInfo, error)
	Execute(ctx context.Context, input plugindto.ExecuteInput) (plugindto.ExecuteOutput, error)
	Analyze(ctx context.Context, input plugindto.ExecuteInput) (plugindto.ExecuteOutput, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabTimer tabID = iota
	tabSessions
	tabHistory
	tabStats
	tabCount
)

var tabLabels = [tabCount]string{
	"Timer", "Sessions", "History", "Stats",
}

// ─── async messages ───────────────────────────────────────────────────────────

type transitionDoneMsg struct {
	op     string
	status trackerdto.StatusOutput
	err    error
}

type stopDoneMsg struct {
	out trackerdto.StopOutput
	err error
}

type resetDoneMsg struct{ err error }

type displayTickMsg struct{ gen int }

type autosaveTickMsg struct{ gen int }

type autosavedMsg struct {
	saved bool
	err   error
}

type pluginResultMsg struct {
	out plugindto.ExecuteOutput
	err error
}

type pluginCommandsMsg struct {
	plugin   string
	commands []plugindto.CommandInfo
	err      error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Start   key.Binding
	Pause   key.Binding
	Stop    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Start:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start")),
		Pause:   key.NewBinding(key.WithKeys("p", " "), key.WithHelp("p", "pause/resume")),
		Stop:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "stop")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Pause, k.Stop, k.Tab, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Start, k.Pause, k.Stop},
		{k.Tab, k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the timer
// transitions, and the two periodic loops: a 1-second display tick and
// an autosave tick, both alive only while the timer runs. The tick
// generation counter cancels stale ticks when the phase changes, so
// pausing or stopping never leaves a leaked tick behind.
type Model struct {
	dataDir string

	tracker trackerPort
	stats   statsPort
	plugin  pluginPort

	timerView    timerview.Model
	sessionsView sessionsview.Model
	historyView  historyview.Model
	statsView    statsview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	phase     string
	tickGen   int
	ticking   bool
	autosave  time.Duration
	status    string
	width     int
	height    int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(dataDir string, tracker trackerPort, stats statsPort, plugin pluginPort, goalSeconds, autosaveSeconds int) Model {
	return Model{
		dataDir:      dataDir,
		tracker:      tracker,
		stats:        stats,
		plugin:       plugin,
		timerView:    timerview.New(timerPortBridge{p: tracker}, goalSeconds),
		sessionsView: sessionsview.New(sessionsPortBridge{p: tracker}),
		historyView:  historyview.New(historyPortBridge{p: tracker}, goalSeconds),
		statsView:    statsview.New(statsPortBridge{p: stats}),
		activeTab:    tabTimer,
		keys:         defaultKeys(),
		help:         help.New(),
		palette:      components.NewPalette(),
		phase:        "stopped",
		autosave:     time.Duration(autosaveSeconds) * time.Second,
		status:       "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.timerView.Init(),
		m.sessionsView.Init(),
		m.historyView.Init(),
		m.statsView.Init(),
	)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts all input while open.
	if m.palette.Visible() {
		if _, isKey := msg.(tea.KeyMsg); isKey {
			var cmd tea.Cmd
			m.palette, cmd = m.palette.Update(msg)
			return m, cmd
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()

	case transitionDoneMsg:
		if msg.err != nil {
			m.status = msg.op + " failed: " + msg.err.Error()
			return m, nil
		}
		if !msg.status.Changed {
			m.status = msg.op + ": nothing to do"
		} else {
			m.status = msg.op
		}
		cmds = append(cmds, m.applyPhase(msg.status.Phase)...)
		cmds = append(cmds, m.refreshViews()...)

	case stopDoneMsg:
		if msg.err != nil {
			m.status = "stop failed: " + msg.err.Error()
			return m, nil
		}
		if !msg.out.Changed {
			m.status = "stop: nothing to do"
		} else {
			m.status = fmt.Sprintf("stopped — session %s, today %s",
				timefmt.Duration(msg.out.Session.DurationSeconds),
				timefmt.Duration(msg.out.TodaySeconds))
		}
		cmds = append(cmds, m.applyPhase("stopped")...)
		cmds = append(cmds, m.refreshViews()...)

	case resetDoneMsg:
		if msg.err != nil {
			m.status = "reset failed: " + msg.err.Error()
			return m, nil
		}
		m.status = "all data cleared"
		cmds = append(cmds, m.applyPhase("stopped")...)
		cmds = append(cmds, m.refreshViews()...)

	case displayTickMsg:
		if msg.gen != m.tickGen {
			return m, nil
		}
		cmds = append(cmds, m.timerView.Refresh(), m.scheduleDisplayTick())
		if m.activeTab == tabSessions {
			cmds = append(cmds, m.sessionsView.Refresh())
		}

	case autosaveTickMsg:
		if msg.gen != m.tickGen {
			return m, nil
		}
		cmds = append(cmds, m.autosaveCmd(), m.scheduleAutosaveTick())

	case autosavedMsg:
		if msg.err != nil {
			m.status = "autosave failed: " + msg.err.Error()
		}

	case pluginResultMsg:
		if msg.err != nil {
			m.status = "plugin: " + msg.err.Error()
			return m, nil
		}
		out := msg.out.OutputJSON
		if out == "" {
			out = msg.out.Stdout
		}
		m.status = fmt.Sprintf("plugin %s/%s: %s", msg.out.PluginName, msg.out.CommandID, out)

	case pluginCommandsMsg:
		if msg.err != nil {
			m.status = "plugin: " + msg.err.Error()
			return m, nil
		}
		ids := make([]string, 0, len(msg.commands))
		for _, c := range msg.commands {
			ids = append(ids, c.ID)
		}
		m.status = fmt.Sprintf("%s commands: %s", msg.plugin, strings.Join(ids, ", "))

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

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.activeTab = (m.activeTab + 1) % tabCount
			cmds = append(cmds, m.refreshActiveTab())
		case msg.String() == "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			cmds = append(cmds, m.refreshActiveTab())
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
		case key.Matches(msg, m.keys.Palette):
			cmds = append(cmds, m.palette.Open())
			return m, tea.Batch(cmds...)
		case key.Matches(msg, m.keys.Start):
			cmds = append(cmds, m.startCmd())
		case key.Matches(msg, m.keys.Pause):
			// One binding, phase-routed: pause while running, resume
			// while paused.
			switch m.phase {
			case "running":
				cmds = append(cmds, m.pauseCmd())
			case "paused":
				cmds = append(cmds, m.resumeCmd())
			}
		case key.Matches(msg, m.keys.Stop):
			cmds = append(cmds, m.stopCmd())
		}
	}

	// Propagate the message to the active tab's sub-view.
	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabTimer:
		m.timerView, tabCmd = m.timerView.Update(msg)
	case tabSessions:
		m.sessionsView, tabCmd = m.sessionsView.Update(msg)
	case tabHistory:
		m.historyView, tabCmd = m.historyView.Update(msg)
	case tabStats:
		m.statsView, tabCmd = m.statsView.Update(msg)
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
	case tabTimer:
		return m.timerView.View()
	case tabSessions:
		return m.sessionsView.View()
	case tabHistory:
		return m.historyView.View()
	case tabStats:
		return m.statsView.View()
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
	bar := "worktrack  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	switch m.phase {
	case "running":
		left = theme.Good.Render("● running") + "  " + left
	case "paused":
		left = theme.Warn.Render("● paused") + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
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
	case "timer:start":
		return m, m.startCmd()

	case "timer:pause":
		return m, m.pauseCmd()

	case "timer:resume":
		return m, m.resumeCmd()

	case "timer:stop":
		return m, m.stopCmd()

	case "timer:reset":
		// Destructive. Only reachable through the palette, never a key.
		return m, m.resetCmd()

	case "plugin:commands":
		if len(parts) < 2 {
			m.status = "usage: plugin:commands <plugin>"
			return m, nil
		}
		return m, m.pluginCommandsCmd(parts[1])

	case "plugin:exec", "plugin:analyze":
		if len(parts) < 3 {
			m.status = "usage: " + parts[0] + " <plugin> <command> [json]"
			return m, nil
		}
		prefix := parts[0] + " " + parts[1] + " " + parts[2]
		inputJSON := strings.TrimSpace(strings.TrimPrefix(input, prefix))
		return m, m.pluginRunCmd(parts[0] == "plugin:analyze", parts[1], parts[2], inputJSON)

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── tick discipline ─────────────────────────────────────────────────────────

// applyPhase reacts to a phase change: entering Running arms both
// periodic loops, leaving it bumps the generation so in-flight ticks
// die on arrival.
func (m *Model) applyPhase(phase string) []tea.Cmd {
	m.phase = phase
	if phase == "running" {
		if m.ticking {
			return nil
		}
		m.ticking = true
		m.tickGen++
		return []tea.Cmd{m.scheduleDisplayTick(), m.scheduleAutosaveTick()}
	}
	if m.ticking {
		m.ticking = false
		m.tickGen++
	}
	return nil
}

func (m Model) scheduleDisplayTick() tea.Cmd {
	gen := m.tickGen
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return displayTickMsg{gen: gen}
	})
}

func (m Model) scheduleAutosaveTick() tea.Cmd {
	gen := m.tickGen
	return tea.Tick(m.autosave, func(time.Time) tea.Msg {
		return autosaveTickMsg{gen: gen}
	})
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.timerView, _ = m.timerView.Update(sz)
	m.sessionsView, _ = m.sessionsView.Update(sz)
	m.historyView, _ = m.historyView.Update(sz)
	m.statsView, _ = m.statsView.Update(sz)
}

func (m Model) refreshViews() []tea.Cmd {
	return []tea.Cmd{
		m.timerView.Refresh(),
		m.sessionsView.Refresh(),
		m.historyView.Refresh(),
		m.statsView.Refresh(),
	}
}

func (m Model) refreshActiveTab() tea.Cmd {
	switch m.activeTab {
	case tabTimer:
		return m.timerView.Refresh()
	case tabSessions:
		return m.sessionsView.Refresh()
	case tabHistory:
		return m.historyView.Refresh()
	case tabStats:
		return m.statsView.Refresh()
	}
	return nil
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) startCmd() tea.Cmd {
	return func() tea.Msg {
		status, err := m.tracker.Start(context.Background())
		return transitionDoneMsg{op: "start", status: status, err: err}
	}
}

func (m Model) pauseCmd() tea.Cmd {
	return func() tea.Msg {
		status, err := m.tracker.Pause(context.Background())
		return transitionDoneMsg{op: "pause", status: status, err: err}
	}
}

func (m Model) resumeCmd() tea.Cmd {
	return func() tea.Msg {
		status, err := m.tracker.Resume(context.Background())
		return transitionDoneMsg{op: "resume", status: status, err: err}
	}
}

func (m Model) stopCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.tracker.Stop(context.Background())
		return stopDoneMsg{out: out, err: err}
	}
}

func (m Model) resetCmd() tea.Cmd {
	return func() tea.Msg {
		return resetDoneMsg{err: m.tracker.Reset(context.Background())}
	}
}

func (m Model) autosaveCmd() tea.Cmd {
	return func() tea.Msg {
		saved, err := m.tracker.Autosave(context.Background())
		return autosavedMsg{saved: saved, err: err}
	}
}

func (m Model) pluginCommandsCmd(pluginName string) tea.Cmd {
	return func() tea.Msg {
		if m.plugin == nil {
			return pluginCommandsMsg{err: fmt.Errorf("plugin adapter not configured")}
		}
		commands, err := m.plugin.ListCommands(context.Background(), pluginName)
		return pluginCommandsMsg{plugin: pluginName, commands: commands, err: err}
	}
}

func (m Model) pluginRunCmd(analyze bool, pluginName, commandID, inputJSON string) tea.Cmd {
	return func() tea.Msg {
		if m.plugin == nil {
			return pluginResultMsg{err: fmt.Errorf("plugin adapter not configured")}
		}
		ctx := context.Background()
		status, err := m.tracker.Status(ctx)
		if err != nil {
			return pluginResultMsg{err: err}
		}
		metrics, _ := json.Marshal(map[string]any{
			"todaySeconds": status.TodaySeconds,
			"sessionCount": status.SessionCount,
			"phase":        status.Phase,
		})
		input := plugindto.ExecuteInput{
			PluginName:  pluginName,
			CommandID:   commandID,
			InputJSON:   inputJSON,
			DataDir:     m.dataDir,
			DateKey:     status.DateKey,
			MetricsJSON: string(metrics),
		}
		if analyze {
			out, err := m.plugin.Analyze(ctx, input)
			return pluginResultMsg{out: out, err: err}
		}
		out, err := m.plugin.Execute(ctx, input)
		return pluginResultMsg{out: out, err: err}
	}
}

// ─── port bridges ─────────────────────────────────────────────────────────────
// Each bridge narrows a broad port interface to the minimal interface needed by
// a specific sub-view, keeping view packages free of knowledge about the wider
// port surface.

type timerPortBridge struct{ p trackerPort }

func (b timerPortBridge) Status(ctx context.Context) (trackerdto.StatusOutput, error) {
	return b.p.Status(ctx)
}

type sessionsPortBridge struct{ p trackerPort }

func (b sessionsPortBridge) Today(ctx context.Context) (trackerdto.TodayOutput, error) {
	return b.p.Today(ctx)
}

type historyPortBridge struct{ p trackerPort }

func (b historyPortBridge) History(ctx context.Context) ([]trackerdto.DayOutput, error) {
	return b.p.History(ctx)
}

type statsPortBridge struct{ p statsPort }

func (b statsPortBridge) Summary(ctx context.Context) (statsdto.SummaryOutput, error) {
	return b.p.Summary(ctx)
}

func (b statsPortBridge) Insights(ctx context.Context) ([]statsdto.InsightOutput, error) {
	return b.p.Insights(ctx)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
