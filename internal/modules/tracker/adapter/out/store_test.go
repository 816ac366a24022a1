package out_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"worktrack/internal/modules/tracker/adapter/out"
	"worktrack/internal/modules/tracker/domain"
	apperrors "worktrack/internal/platform/errors"
)

func TestFileSnapshotStoreRoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "worktrack.json")
	store := out.NewFileSnapshotStore(path)
	ctx := context.Background()

	end := time.Date(2026, 8, 28, 10, 0, 30, 0, time.Local)
	snapshot := domain.Snapshot{
		DailyData: map[string]domain.DailyRecord{
			"2026-08-28": {
				Sessions: []domain.Session{{
					ID:              "abc",
					StartedAt:       end.Add(-30 * time.Second),
					EndedAt:         &end,
					DurationSeconds: 30,
					Pauses:          []domain.PauseInterval{},
				}},
				TotalSeconds: 30,
			},
		},
		LastUpdate: end,
	}
	if err := store.Save(ctx, snapshot); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	record := loaded.DailyData["2026-08-28"]
	if record.TotalSeconds != 30 || len(record.Sessions) != 1 {
		t.Fatalf("unexpected record: %+v", record)
	}
	if record.Sessions[0].ID != "abc" || record.Sessions[0].EndedAt == nil {
		t.Fatalf("session fields lost: %+v", record.Sessions[0])
	}
}

func TestFileSnapshotStoreMissingFileIsEmpty(t *testing.T) {
	t.Parallel()
	store := out.NewFileSnapshotStore(filepath.Join(t.TempDir(), "missing.json"))

	snapshot, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(snapshot.DailyData) != 0 {
		t.Fatalf("expected empty snapshot, got %+v", snapshot)
	}
}

func TestFileSnapshotStoreCorruptFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "worktrack.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	store := out.NewFileSnapshotStore(path)

	_, err := store.Load(context.Background())
	if !errors.Is(err, apperrors.ErrCorruptSnapshot) {
		t.Fatalf("expected corrupt snapshot error, got %v", err)
	}
}

func TestFileSnapshotStoreClear(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "worktrack.json")
	store := out.NewFileSnapshotStore(path)
	ctx := context.Background()

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear missing file: %v", err)
	}
	if err := store.Save(ctx, domain.Snapshot{DailyData: map[string]domain.DailyRecord{}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("file should be gone, stat err = %v", err)
	}
}

func TestFileActiveStateStoreRoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "active.json")
	store := out.NewFileActiveStateStore(path)
	ctx := context.Background()

	started := time.Date(2026, 8, 28, 9, 0, 0, 0, time.Local)
	state := domain.ActiveState{
		DateKey: "2026-08-28",
		Timer:   domain.Timer{Phase: domain.PhaseRunning, PhaseStartedAt: &started},
		Session: domain.Session{ID: "abc", StartedAt: started, Pauses: []domain.PauseInterval{}},
	}
	if err := store.SaveActive(ctx, state); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.LoadActive(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.DateKey != "2026-08-28" || loaded.Timer.Phase != domain.PhaseRunning {
		t.Fatalf("state fields lost: %+v", loaded)
	}
	if loaded.Timer.PhaseStartedAt == nil || !loaded.Timer.PhaseStartedAt.Equal(started) {
		t.Fatalf("phase start lost: %+v", loaded.Timer)
	}
	if loaded.Session.ID != "abc" || !loaded.Session.Open() {
		t.Fatalf("session lost: %+v", loaded.Session)
	}
}

func TestFileActiveStateStoreMissingFile(t *testing.T) {
	t.Parallel()
	store := out.NewFileActiveStateStore(filepath.Join(t.TempDir(), "missing.json"))

	if _, err := store.LoadActive(context.Background()); !errors.Is(err, apperrors.ErrNoActiveState) {
		t.Fatalf("expected no active state, got %v", err)
	}
}

func TestFileActiveStateStoreDrainedState(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "active.json")
	store := out.NewFileActiveStateStore(path)
	ctx := context.Background()

	// A stopped timer is not a restorable stretch even if the file exists.
	if err := store.SaveActive(ctx, domain.ActiveState{DateKey: "2026-08-28"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := store.LoadActive(ctx); !errors.Is(err, apperrors.ErrNoActiveState) {
		t.Fatalf("expected no active state for a stopped timer, got %v", err)
	}
}

func TestFileActiveStateStoreClear(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "active.json")
	store := out.NewFileActiveStateStore(path)
	ctx := context.Background()

	if err := store.ClearActive(ctx); err != nil {
		t.Fatalf("clear missing file: %v", err)
	}
	started := time.Date(2026, 8, 28, 9, 0, 0, 0, time.Local)
	state := domain.ActiveState{
		DateKey: "2026-08-28",
		Timer:   domain.Timer{Phase: domain.PhaseRunning, PhaseStartedAt: &started},
		Session: domain.Session{ID: "abc", StartedAt: started},
	}
	if err := store.SaveActive(ctx, state); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.ClearActive(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("file should be gone, stat err = %v", err)
	}
}

func TestSQLiteHistoryProjector(t *testing.T) {
	t.Parallel()
	projector, err := out.NewSQLiteHistoryProjector(filepath.Join(t.TempDir(), "worktrack.db"))
	if err != nil {
		t.Fatalf("new projector: %v", err)
	}
	defer projector.Close()
	ctx := context.Background()

	records := map[string]domain.DailyRecord{
		"2026-08-26": {TotalSeconds: 3600, Sessions: make([]domain.Session, 2)},
		"2026-08-27": {TotalSeconds: 1800, Sessions: make([]domain.Session, 1)},
		"2026-08-28": {TotalSeconds: 5400, Sessions: make([]domain.Session, 3)},
	}
	for key, record := range records {
		if err := projector.UpsertDay(ctx, key, record); err != nil {
			t.Fatalf("upsert %s: %v", key, err)
		}
	}

	days, err := projector.ListDays(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(days) != 3 || days[0].DateKey != "2026-08-28" || days[2].DateKey != "2026-08-26" {
		t.Fatalf("unexpected order: %+v", days)
	}

	limited, err := projector.ListDays(ctx, 2)
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("limit ignored: %+v", limited)
	}

	// Upsert replaces, never duplicates.
	if err := projector.UpsertDay(ctx, "2026-08-28", domain.DailyRecord{TotalSeconds: 6000, Sessions: make([]domain.Session, 4)}); err != nil {
		t.Fatalf("re-upsert: %v", err)
	}
	days, err = projector.ListDays(ctx, 0)
	if err != nil {
		t.Fatalf("list after upsert: %v", err)
	}
	if len(days) != 3 || days[0].TotalSeconds != 6000 || days[0].SessionCount != 4 {
		t.Fatalf("upsert did not replace: %+v", days)
	}

	if err := projector.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	days, err = projector.ListDays(ctx, 0)
	if err != nil {
		t.Fatalf("list after reset: %v", err)
	}
	if len(days) != 0 {
		t.Fatalf("reset left rows: %+v", days)
	}
}
