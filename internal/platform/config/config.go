package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	DefaultGoalSeconds     = 8 * 60 * 60
	DefaultWindowDays      = 4
	DefaultAutosaveSeconds = 30
)

type Config struct {
	DataDir      string
	DBPath       string
	SnapshotPath string
	ActivePath   string

	GoalSeconds     int
	WindowDays      int
	AutosaveSeconds int
}

// fileConfig is the optional on-disk override set, decoded from
// <data-dir>/config.yaml. Absent fields keep their defaults.
type fileConfig struct {
	GoalSeconds     *int `yaml:"goal_seconds"`
	WindowDays      *int `yaml:"window_days"`
	AutosaveSeconds *int `yaml:"autosave_seconds"`
}

// New resolves the data directory (explicit path, then WORKTRACK_DATA_DIR,
// then ~/.worktrack) and applies config.yaml overrides on top of defaults.
func New(dataDir string) (Config, error) {
	if dataDir == "" {
		dataDir = os.Getenv("WORKTRACK_DATA_DIR")
	}
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".worktrack")
	}

	cfg := Config{
		DataDir:         dataDir,
		DBPath:          filepath.Join(dataDir, "worktrack.db"),
		SnapshotPath:    filepath.Join(dataDir, "worktrack.json"),
		ActivePath:      filepath.Join(dataDir, "active.json"),
		GoalSeconds:     DefaultGoalSeconds,
		WindowDays:      DefaultWindowDays,
		AutosaveSeconds: DefaultAutosaveSeconds,
	}

	if err := cfg.applyFile(filepath.Join(dataDir, "config.yaml")); err != nil {
		return Config{}, err
	}
	if cfg.GoalSeconds <= 0 {
		return Config{}, fmt.Errorf("goal_seconds must be positive, got %d", cfg.GoalSeconds)
	}
	if cfg.WindowDays <= 0 {
		return Config{}, fmt.Errorf("window_days must be positive, got %d", cfg.WindowDays)
	}
	if cfg.AutosaveSeconds <= 0 {
		return Config{}, fmt.Errorf("autosave_seconds must be positive, got %d", cfg.AutosaveSeconds)
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}
	overrides := fileConfig{}
	if err := yaml.Unmarshal(payload, &overrides); err != nil {
		return fmt.Errorf("decode config file: %w", err)
	}
	if overrides.GoalSeconds != nil {
		c.GoalSeconds = *overrides.GoalSeconds
	}
	if overrides.WindowDays != nil {
		c.WindowDays = *overrides.WindowDays
	}
	if overrides.AutosaveSeconds != nil {
		c.AutosaveSeconds = *overrides.AutosaveSeconds
	}
	return nil
}
