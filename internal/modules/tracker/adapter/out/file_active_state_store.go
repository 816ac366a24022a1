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

// FileActiveStateStore keeps the in-flight timer state in a small JSON
// side file next to the snapshot. The file exists exactly while a
// stretch is in flight; a missing or drained file means no state.
type FileActiveStateStore struct {
	path string
}

func NewFileActiveStateStore(path string) trackerout.ActiveStateStore {
	return &FileActiveStateStore{path: path}
}

func (s *FileActiveStateStore) SaveActive(_ context.Context, state domain.ActiveState) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create active state dir: %w", err)
	}
	payload, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal active state: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("write active state: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace active state: %w", err)
	}
	return nil
}

func (s *FileActiveStateStore) LoadActive(_ context.Context) (domain.ActiveState, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.ActiveState{}, apperrors.ErrNoActiveState
		}
		return domain.ActiveState{}, fmt.Errorf("read active state: %w", err)
	}
	state := domain.ActiveState{}
	if err := json.Unmarshal(payload, &state); err != nil {
		return domain.ActiveState{}, fmt.Errorf("decode active state %s: %w", s.path, err)
	}
	if !state.Live() {
		return domain.ActiveState{}, apperrors.ErrNoActiveState
	}
	return state, nil
}

func (s *FileActiveStateStore) ClearActive(_ context.Context) error {
	if err := os.Remove(s.path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("clear active state: %w", err)
	}
	return nil
}
