package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"worktrack/internal/bootstrap"
	plugindto "worktrack/internal/modules/plugin/dto"
	"worktrack/internal/platform/config"
	"worktrack/internal/platform/timefmt"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dataDir string

	root := &cobra.Command{
		Use:           "worktrack",
		Short:         "Personal work-time tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default $WORKTRACK_DATA_DIR or ~/.worktrack)")

	root.AddCommand(newTUICmd(&dataDir))
	root.AddCommand(newStartCmd(&dataDir))
	root.AddCommand(newPauseCmd(&dataDir))
	root.AddCommand(newResumeCmd(&dataDir))
	root.AddCommand(newStopCmd(&dataDir))
	root.AddCommand(newStatusCmd(&dataDir))
	root.AddCommand(newTodayCmd(&dataDir))
	root.AddCommand(newReportCmd(&dataDir))
	root.AddCommand(newStatsCmd(&dataDir))
	root.AddCommand(newInsightsCmd(&dataDir))
	root.AddCommand(newResetCmd(&dataDir))
	root.AddCommand(newPluginCmd(&dataDir))
	return root
}

// loadApp builds the wired application and hydrates the tracker from the
// snapshot on disk, so every command sees the persisted state.
func loadApp(dataDir string) (config.Config, *bootstrap.App, error) {
	cfg, err := config.New(dataDir)
	if err != nil {
		return config.Config{}, nil, err
	}
	app, err := bootstrap.New(cfg)
	if err != nil {
		return config.Config{}, nil, err
	}
	loaded, err := app.TrackerCLI.Load(context.Background())
	if err != nil {
		return config.Config{}, nil, err
	}
	if loaded.Recovered {
		_, _ = fmt.Fprintln(os.Stderr, "saved state was unreadable; starting from what could be recovered")
	}
	return cfg, app, nil
}

func newTUICmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the worktrack terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			return bootstrap.RunTUI(cfg, app)
		},
	}
}

func newStartCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start a work session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			status, err := app.TrackerCLI.Start(context.Background())
			if err != nil {
				return err
			}
			if !status.Changed {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "already %s\n", status.Phase)
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "started session %d of %s\n", status.SessionCount, status.DateKey)
			return nil
		},
	}
}

func newPauseCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "pause",
		Short: "Pause the running session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			status, err := app.TrackerCLI.Pause(context.Background())
			if err != nil {
				return err
			}
			if !status.Changed {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "nothing to pause, timer is %s\n", status.Phase)
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "paused at %s\n", timefmt.Clock(status.ElapsedSeconds))
			return nil
		},
	}
}

func newResumeCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "resume",
		Short: "Resume the paused session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			status, err := app.TrackerCLI.Resume(context.Background())
			if err != nil {
				return err
			}
			if !status.Changed {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "nothing to resume, timer is %s\n", status.Phase)
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "resumed at %s\n", timefmt.Clock(status.ElapsedSeconds))
			return nil
		},
	}
}

func newStopCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the current session and record it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			out, err := app.TrackerCLI.Stop(context.Background())
			if err != nil {
				return err
			}
			if !out.Changed {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no session to stop")
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "recorded %s, today %s\n",
				timefmt.Duration(out.Session.DurationSeconds), timefmt.Duration(out.TodaySeconds))
			return nil
		},
	}
}

func newStatusCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current timer state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			status, err := app.TrackerCLI.Status(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s elapsed=%s today=%s sessions=%d\n",
				status.DateKey, status.Phase, timefmt.Clock(status.ElapsedSeconds),
				timefmt.Duration(status.TodaySeconds), status.SessionCount)
			return nil
		},
	}
}

func newTodayCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "List today's sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			today, err := app.TrackerCLI.Today(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s total=%s\n", today.DateKey, timefmt.Duration(today.TotalSeconds))
			if len(today.Sessions) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no sessions yet")
				return nil
			}
			for i, s := range today.Sessions {
				ended := "…"
				if s.EndedAt != nil {
					ended = s.EndedAt.Format("15:04:05")
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%2d. %s → %s  %s  pauses=%d\n",
					i+1, s.StartedAt.Format("15:04:05"), ended, timefmt.Clock(s.DurationSeconds), s.PauseCount)
			}
			return nil
		},
	}
}

func newReportCmd(dataDir *string) *cobra.Command {
	var limit int
	report := &cobra.Command{
		Use:   "report",
		Short: "List recorded days, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			days, err := app.TrackerCLI.Report(context.Background(), limit)
			if err != nil {
				return err
			}
			if len(days) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no recorded days")
				return nil
			}
			for _, day := range days {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  sessions=%d\n",
					day.DateKey, timefmt.Duration(day.TotalSeconds), day.SessionCount)
			}
			return nil
		},
	}
	report.Flags().IntVar(&limit, "limit", 0, "maximum number of days (0 = all)")
	return report
}

func newStatsCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate statistics over the recent window",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			summary, err := app.StatsCLI.Summary(context.Background())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "today     %s of %s (%.1f%%)\n",
				timefmt.Duration(summary.TodaySeconds), timefmt.Duration(summary.GoalSeconds), summary.TodayPercent)
			_, _ = fmt.Fprintf(out, "completed %d/%d days at goal (%d%%)\n",
				summary.CompletedDays, summary.WindowDays, summary.OverallPercent)
			_, _ = fmt.Fprintf(out, "total     %s\n", timefmt.Duration(summary.TotalSeconds))
			_, _ = fmt.Fprintf(out, "average   %s per day\n", timefmt.Duration(summary.AverageSeconds))
			for _, day := range summary.Window {
				mark := "○"
				if day.GoalMet {
					mark = "●"
				}
				_, _ = fmt.Fprintf(out, "  %s %s  %s\n", mark, day.DateKey, timefmt.Duration(day.TotalSeconds))
			}
			return nil
		},
	}
}

func newInsightsCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "insights",
		Short: "Show observations about today's work pattern",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			insights, err := app.StatsCLI.Insights(context.Background())
			if err != nil {
				return err
			}
			if len(insights) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "not enough work today to say anything")
				return nil
			}
			for _, insight := range insights {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n", insight.Severity, insight.Message)
			}
			return nil
		},
	}
}

func newResetCmd(dataDir *string) *cobra.Command {
	var force bool
	reset := &cobra.Command{
		Use:   "reset",
		Short: "Erase all tracked data",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !force {
				return fmt.Errorf("reset erases every recorded day; pass --force to confirm")
			}
			_, app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			if err := app.TrackerCLI.Reset(context.Background()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "all data erased")
			return nil
		},
	}
	reset.Flags().BoolVar(&force, "force", false, "confirm erasing all data")
	return reset
}

func newPluginCmd(dataDir *string) *cobra.Command {
	plugin := &cobra.Command{Use: "plugin", Short: "Analyzer plugin operations"}

	plugin.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List plugin manifests",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			plugins, err := app.PluginCLI.List(context.Background())
			if err != nil {
				return err
			}
			if len(plugins) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no plugins configured")
				return nil
			}
			for _, p := range plugins {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s@%s enabled=%t binary=%s\n", p.Name, p.Version, p.Enabled, p.Binary)
			}
			return nil
		},
	})

	plugin.AddCommand(&cobra.Command{
		Use:   "doctor",
		Short: "Validate plugin checksums and lifecycle",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			results, err := app.PluginCLI.Doctor(context.Background())
			if err != nil {
				return err
			}
			if len(results) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no plugins configured")
				return nil
			}
			for _, r := range results {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s checksum=%t binary=%t lifecycle=%t", r.Name, r.ChecksumValid, r.BinaryReachable, r.LifecycleOK)
				if r.Error != "" {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), " error=%q", r.Error)
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout())
			}
			return nil
		},
	})

	var commandPluginName string
	commandsCmd := &cobra.Command{
		Use:   "commands --plugin <name>",
		Short: "List commands exposed by a plugin",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(commandPluginName) == "" {
				return fmt.Errorf("--plugin is required")
			}
			_, app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			commands, err := app.PluginCLI.ListCommands(context.Background(), commandPluginName)
			if err != nil {
				return err
			}
			if len(commands) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no commands")
				return nil
			}
			for _, item := range commands {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s kind=%s timeout_ms=%d title=%q\n", item.ID, item.Kind, item.TimeoutMS, item.Title)
			}
			return nil
		},
	}
	commandsCmd.Flags().StringVar(&commandPluginName, "plugin", "", "plugin name")
	plugin.AddCommand(commandsCmd)

	var execPluginName, execCommandID, execInputJSON string
	execCmd := &cobra.Command{
		Use:   "exec --plugin <name> --command <id>",
		Short: "Execute a plugin command capability",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(execPluginName) == "" || strings.TrimSpace(execCommandID) == "" {
				return fmt.Errorf("--plugin and --command are required")
			}
			if err := validateJSONInput(execInputJSON); err != nil {
				return err
			}
			cfg, app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			input, err := buildExecuteInput(app, cfg.DataDir, execPluginName, execCommandID, execInputJSON)
			if err != nil {
				return err
			}
			out, err := app.PluginCLI.Execute(context.Background(), input)
			if err != nil {
				return err
			}
			printExecuteOutput(cmd, out)
			return nil
		},
	}
	execCmd.Flags().StringVar(&execPluginName, "plugin", "", "plugin name")
	execCmd.Flags().StringVar(&execCommandID, "command", "", "command id")
	execCmd.Flags().StringVar(&execInputJSON, "input-json", "", "JSON input payload")
	plugin.AddCommand(execCmd)

	var analyzePluginName, analyzeCommandID, analyzeInputJSON string
	analyzeCmd := &cobra.Command{
		Use:   "analyze --plugin <name> --command <id>",
		Short: "Execute an analyze-capability plugin command against today's metrics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(analyzePluginName) == "" || strings.TrimSpace(analyzeCommandID) == "" {
				return fmt.Errorf("--plugin and --command are required")
			}
			if err := validateJSONInput(analyzeInputJSON); err != nil {
				return err
			}
			cfg, app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			input, err := buildExecuteInput(app, cfg.DataDir, analyzePluginName, analyzeCommandID, analyzeInputJSON)
			if err != nil {
				return err
			}
			out, err := app.PluginCLI.Analyze(context.Background(), input)
			if err != nil {
				return err
			}
			printExecuteOutput(cmd, out)
			return nil
		},
	}
	analyzeCmd.Flags().StringVar(&analyzePluginName, "plugin", "", "plugin name")
	analyzeCmd.Flags().StringVar(&analyzeCommandID, "command", "", "command id")
	analyzeCmd.Flags().StringVar(&analyzeInputJSON, "input-json", "", "JSON input payload")
	plugin.AddCommand(analyzeCmd)

	return plugin
}

// buildExecuteInput packs today's figures into the metrics payload every
// plugin call receives alongside its own input.
func buildExecuteInput(app *bootstrap.App, dataDir, pluginName, commandID, inputJSON string) (plugindto.ExecuteInput, error) {
	status, err := app.TrackerCLI.Status(context.Background())
	if err != nil {
		return plugindto.ExecuteInput{}, err
	}
	metrics, err := json.Marshal(map[string]any{
		"todaySeconds": status.TodaySeconds,
		"sessionCount": status.SessionCount,
		"phase":        status.Phase,
	})
	if err != nil {
		return plugindto.ExecuteInput{}, err
	}
	return plugindto.ExecuteInput{
		PluginName:  pluginName,
		CommandID:   commandID,
		InputJSON:   inputJSON,
		DataDir:     dataDir,
		DateKey:     status.DateKey,
		MetricsJSON: string(metrics),
	}, nil
}

func printExecuteOutput(cmd *cobra.Command, out plugindto.ExecuteOutput) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "plugin=%s command=%s exit=%d\n", out.PluginName, out.CommandID, out.ExitCode)
	if strings.TrimSpace(out.Stdout) != "" {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), out.Stdout)
	}
	if strings.TrimSpace(out.Stderr) != "" {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), out.Stderr)
	}
	if strings.TrimSpace(out.OutputJSON) != "" {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), out.OutputJSON)
	}
}

func validateJSONInput(payload string) error {
	if strings.TrimSpace(payload) == "" {
		return nil
	}
	if !json.Valid([]byte(payload)) {
		return fmt.Errorf("--input-json must be valid JSON")
	}
	return nil
}
