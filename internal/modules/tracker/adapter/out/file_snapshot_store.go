package out

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"worktrack/internal/modules/tracker/domain"
	trackerout "worktrack/internal/modules/tracker/port/out"
	apperrors "worktrack/internal/platform/errors"
)

// FileSnapshotStore keeps the whole tracker state in one JSON file.
// Writes go through a temp file and rename so a crash mid-save never
// leaves a half-written snapshot behind.
type FileSnapshotStore struct {
	path string
}

func NewFileSnapshotStore(path string) trackerout.SnapshotStore {
	return &FileSnapshotStore{path: path}
}

func (s *FileSnapshotStore) Load(_ context.Context) (domain.Snapshot, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Snapshot{DailyData: map[string]domain.DailyRecord{}}, nil
		}
		return domain.Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}
	snapshot := domain.Snapshot{}
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return domain.Snapshot{}, fmt.Errorf("decode snapshot %s: %w", s.path, apperrors.ErrCorruptSnapshot)
	}
	if snapshot.DailyData == nil {
		snapshot.DailyData = map[string]domain.DailyRecord{}
	}
	return snapshot, nil
}

func (s *FileSnapshotStore) Save(_ context.Context, snapshot domain.Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	payload, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

func (s *FileSnapshotStore) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("clear snapshot: %w", err)
	}
	return nil
}
