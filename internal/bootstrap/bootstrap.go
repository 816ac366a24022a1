package bootstrap

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	plugininadapter "worktrack/internal/modules/plugin/adapter/in"
	pluginoutadapter "worktrack/internal/modules/plugin/adapter/out"
	pluginservice "worktrack/internal/modules/plugin/service"
	pluginusecase "worktrack/internal/modules/plugin/usecase"
	statsinadapter "worktrack/internal/modules/stats/adapter/in"
	statsoutadapter "worktrack/internal/modules/stats/adapter/out"
	statsservice "worktrack/internal/modules/stats/service"
	statsusecase "worktrack/internal/modules/stats/usecase"
	trackerinadapter "worktrack/internal/modules/tracker/adapter/in"
	trackeroutadapter "worktrack/internal/modules/tracker/adapter/out"
	trackerservice "worktrack/internal/modules/tracker/service"
	trackerusecase "worktrack/internal/modules/tracker/usecase"
	"worktrack/internal/platform/clock"
	"worktrack/internal/platform/config"
	"worktrack/internal/platform/id"
	uiapp "worktrack/internal/ui/app"
)

type App struct {
	TrackerCLI trackerinadapter.CLIHandler
	StatsCLI   statsinadapter.CLIHandler
	PluginCLI  plugininadapter.CLIHandler
}

func New(cfg config.Config) (*App, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	clk := clock.SystemClock{}
	ids := id.RandomHex{}

	snapshotStore := trackeroutadapter.NewFileSnapshotStore(cfg.SnapshotPath)
	activeStore := trackeroutadapter.NewFileActiveStateStore(cfg.ActivePath)
	historyProjector, err := trackeroutadapter.NewSQLiteHistoryProjector(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("new history projector: %w", err)
	}
	trackerSvc := trackerservice.NewTrackerService(clk, ids)
	trackerUC := trackerusecase.NewInteractor(trackerSvc, snapshotStore, activeStore, historyProjector)

	statsUC := statsusecase.NewInteractor(statsservice.NewStatsService(
		clk,
		statsoutadapter.NewTrackerHistoryAdapter(trackerUC),
		cfg.GoalSeconds,
		cfg.WindowDays,
	))

	pluginUC := pluginusecase.NewInteractor(pluginservice.NewPluginService(
		pluginoutadapter.NewFileManifestStore(cfg.DataDir),
		pluginoutadapter.NewGRPCHost(),
	))

	return &App{
		TrackerCLI: trackerinadapter.NewCLIHandler(trackerUC),
		StatsCLI:   statsinadapter.NewCLIHandler(statsUC),
		PluginCLI:  plugininadapter.NewCLIHandler(pluginUC),
	}, nil
}

func RunTUI(cfg config.Config, app *App) error {
	model := uiapp.NewModel(cfg.DataDir, app.TrackerCLI, app.StatsCLI, app.PluginCLI, cfg.GoalSeconds, cfg.AutosaveSeconds)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
