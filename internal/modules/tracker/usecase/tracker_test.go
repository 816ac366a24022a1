package usecase_test

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"worktrack/internal/modules/tracker/domain"
	trackerin "worktrack/internal/modules/tracker/port/in"
	"worktrack/internal/modules/tracker/service"
	"worktrack/internal/modules/tracker/usecase"
	apperrors "worktrack/internal/platform/errors"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time          { return f.now }
func (f *fakeClock) advance(d time.Duration) { f.now = f.now.Add(d) }

type fakeID struct{ n int }

func (f *fakeID) New() string {
	f.n++
	return fmt.Sprintf("s%d", f.n)
}

type memorySnapshotStore struct {
	snapshot *domain.Snapshot
	corrupt  bool
	saves    int
}

func (m *memorySnapshotStore) Load(ctx context.Context) (domain.Snapshot, error) {
	if m.corrupt {
		return domain.Snapshot{}, fmt.Errorf("decode snapshot: %w", apperrors.ErrCorruptSnapshot)
	}
	if m.snapshot == nil {
		return domain.Snapshot{}, nil
	}
	return *m.snapshot, nil
}

func (m *memorySnapshotStore) Save(ctx context.Context, snapshot domain.Snapshot) error {
	m.snapshot = &snapshot
	m.saves++
	return nil
}

func (m *memorySnapshotStore) Clear(ctx context.Context) error {
	m.snapshot = nil
	return nil
}

type memoryActiveStore struct {
	state  *domain.ActiveState
	saves  int
	clears int
}

func (m *memoryActiveStore) SaveActive(ctx context.Context, state domain.ActiveState) error {
	m.state = &state
	m.saves++
	return nil
}

func (m *memoryActiveStore) LoadActive(ctx context.Context) (domain.ActiveState, error) {
	if m.state == nil {
		return domain.ActiveState{}, apperrors.ErrNoActiveState
	}
	return *m.state, nil
}

func (m *memoryActiveStore) ClearActive(ctx context.Context) error {
	m.state = nil
	m.clears++
	return nil
}

type memoryProjector struct {
	days   map[string]domain.DailyRecord
	resets int
}

func (m *memoryProjector) Reset(ctx context.Context) error {
	m.days = map[string]domain.DailyRecord{}
	m.resets++
	return nil
}

func (m *memoryProjector) UpsertDay(ctx context.Context, dateKey string, record domain.DailyRecord) error {
	if m.days == nil {
		m.days = map[string]domain.DailyRecord{}
	}
	m.days[dateKey] = record
	return nil
}

func (m *memoryProjector) ListDays(ctx context.Context, limit int) ([]domain.DaySummary, error) {
	out := make([]domain.DaySummary, 0, len(m.days))
	for key, record := range m.days {
		out = append(out, domain.DaySummary{DateKey: key, TotalSeconds: record.TotalSeconds, SessionCount: len(record.Sessions)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateKey > out[j].DateKey })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fixture struct {
	uc        trackerin.Usecase
	clk       *fakeClock
	store     *memorySnapshotStore
	active    *memoryActiveStore
	projector *memoryProjector
}

func newFixture(start time.Time) *fixture {
	return resumedFixture(start, &memorySnapshotStore{}, &memoryActiveStore{}, &memoryProjector{})
}

// resumedFixture builds an interactor over existing stores, the way a
// fresh process picks up the files a previous one left behind.
func resumedFixture(start time.Time, store *memorySnapshotStore, active *memoryActiveStore, projector *memoryProjector) *fixture {
	clk := &fakeClock{now: start}
	svc := service.NewTrackerService(clk, &fakeID{})
	return &fixture{
		uc:        usecase.NewInteractor(svc, store, active, projector),
		clk:       clk,
		store:     store,
		active:    active,
		projector: projector,
	}
}

func at(hour int) time.Time {
	return time.Date(2026, 8, 28, hour, 0, 0, 0, time.Local)
}

func TestSavePolicy(t *testing.T) {
	t.Parallel()
	f := newFixture(at(9))
	ctx := context.Background()

	if _, err := f.uc.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if f.store.saves != 0 {
		t.Fatalf("start must not save, got %d saves", f.store.saves)
	}

	f.clk.advance(10 * time.Second)
	if _, err := f.uc.Pause(ctx); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if f.store.saves != 1 {
		t.Fatalf("pause must save, got %d saves", f.store.saves)
	}

	if _, err := f.uc.Resume(ctx); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if f.store.saves != 1 {
		t.Fatalf("resume must not save, got %d saves", f.store.saves)
	}

	f.clk.advance(20 * time.Second)
	out, err := f.uc.Stop(ctx)
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if f.store.saves != 2 {
		t.Fatalf("stop must save, got %d saves", f.store.saves)
	}
	if !out.Changed || out.Session.DurationSeconds != 30 {
		t.Fatalf("stop output = %+v, want changed 30s session", out)
	}
}

func TestInvalidTransitionsReportUnchangedWithoutSaving(t *testing.T) {
	t.Parallel()
	f := newFixture(at(9))
	ctx := context.Background()

	status, err := f.uc.Pause(ctx)
	if err != nil {
		t.Fatalf("pause while stopped: %v", err)
	}
	if status.Changed {
		t.Fatalf("pause while stopped must report unchanged")
	}
	stop, err := f.uc.Stop(ctx)
	if err != nil {
		t.Fatalf("stop while stopped: %v", err)
	}
	if stop.Changed {
		t.Fatalf("stop while stopped must report unchanged")
	}
	if f.store.saves != 0 {
		t.Fatalf("rejected transitions must not save, got %d", f.store.saves)
	}
}

func TestAutosaveOnlyWhileRunning(t *testing.T) {
	t.Parallel()
	f := newFixture(at(9))
	ctx := context.Background()

	saved, err := f.uc.Autosave(ctx)
	if err != nil || saved {
		t.Fatalf("autosave while stopped: saved=%v err=%v", saved, err)
	}

	f.uc.Start(ctx)
	f.clk.advance(15 * time.Second)
	saved, err = f.uc.Autosave(ctx)
	if err != nil || !saved {
		t.Fatalf("autosave while running: saved=%v err=%v", saved, err)
	}
	if f.store.snapshot == nil {
		t.Fatalf("autosave must write the snapshot")
	}
	record := f.store.snapshot.DailyData["2026-08-28"]
	if record.TotalSeconds != 15 {
		t.Fatalf("autosaved total = %d, want 15", record.TotalSeconds)
	}

	f.uc.Pause(ctx)
	before := f.store.saves
	saved, err = f.uc.Autosave(ctx)
	if err != nil || saved || f.store.saves != before {
		t.Fatalf("autosave while paused must be a no-op")
	}
}

func TestLoadRebuildsProjection(t *testing.T) {
	t.Parallel()
	f := newFixture(at(9))
	ctx := context.Background()
	f.store.snapshot = &domain.Snapshot{DailyData: map[string]domain.DailyRecord{
		"2026-08-26": {TotalSeconds: 3600, Sessions: []domain.Session{{ID: "a", DurationSeconds: 3600}}},
		"2026-08-27": {TotalSeconds: 1800, Sessions: []domain.Session{{ID: "b", DurationSeconds: 1800}}},
	}}

	out, err := f.uc.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if out.Recovered || out.Days != 2 {
		t.Fatalf("load output = %+v, want 2 days, not recovered", out)
	}
	if f.projector.resets != 1 || len(f.projector.days) != 2 {
		t.Fatalf("projection not rebuilt: resets=%d days=%d", f.projector.resets, len(f.projector.days))
	}

	days, err := f.uc.Report(ctx, 0)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if len(days) != 2 || days[0].DateKey != "2026-08-27" {
		t.Fatalf("unexpected report: %+v", days)
	}
}

func TestLoadRecoversFromCorruptSnapshot(t *testing.T) {
	t.Parallel()
	f := newFixture(at(9))
	f.store.corrupt = true

	out, err := f.uc.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !out.Recovered || out.Days != 0 {
		t.Fatalf("load output = %+v, want recovered empty", out)
	}
	status, _ := f.uc.Status(context.Background())
	if status.TodaySeconds != 0 || status.SessionCount != 0 {
		t.Fatalf("recovered tracker must start empty, got %+v", status)
	}
}

func TestStopInLaterProcessKeepsTrackedTime(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := &memorySnapshotStore{}
	active := &memoryActiveStore{}
	projector := &memoryProjector{}

	first := resumedFixture(at(9), store, active, projector)
	if _, err := first.uc.Load(ctx); err != nil {
		t.Fatalf("first load: %v", err)
	}
	if _, err := first.uc.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if active.state == nil {
		t.Fatalf("start must record the active stretch")
	}

	second := resumedFixture(at(10), store, active, projector)
	if _, err := second.uc.Load(ctx); err != nil {
		t.Fatalf("second load: %v", err)
	}
	stop, err := second.uc.Stop(ctx)
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if !stop.Changed || stop.TodaySeconds != 3600 {
		t.Fatalf("stop after restart: changed=%v today=%d, want true/3600", stop.Changed, stop.TodaySeconds)
	}
	if active.state != nil {
		t.Fatalf("stop must drain the active state")
	}
	if store.snapshot == nil || store.snapshot.DailyData["2026-08-28"].TotalSeconds != 3600 {
		t.Fatalf("stopped day not persisted: %+v", store.snapshot)
	}
}

func TestPausedStretchSurvivesRestart(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := &memorySnapshotStore{}
	active := &memoryActiveStore{}
	projector := &memoryProjector{}

	first := resumedFixture(at(9), store, active, projector)
	if _, err := first.uc.Load(ctx); err != nil {
		t.Fatalf("first load: %v", err)
	}
	first.uc.Start(ctx)
	first.clk.advance(10 * time.Second)
	if _, err := first.uc.Pause(ctx); err != nil {
		t.Fatalf("pause: %v", err)
	}

	second := resumedFixture(at(10), store, active, projector)
	if _, err := second.uc.Load(ctx); err != nil {
		t.Fatalf("second load: %v", err)
	}
	status, _ := second.uc.Status(ctx)
	if status.Phase != string(domain.PhasePaused) || status.ElapsedSeconds != 10 {
		t.Fatalf("restored status = %+v, want paused at 10s", status)
	}
	if _, err := second.uc.Resume(ctx); err != nil {
		t.Fatalf("resume: %v", err)
	}
	second.clk.advance(5 * time.Second)
	stop, err := second.uc.Stop(ctx)
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if !stop.Changed || stop.Session.DurationSeconds != 15 {
		t.Fatalf("stop after restart = %+v, want a 15s session", stop)
	}
}

func TestResetClearsStoreAndProjection(t *testing.T) {
	t.Parallel()
	f := newFixture(at(9))
	ctx := context.Background()

	f.uc.Start(ctx)
	f.clk.advance(time.Minute)
	f.uc.Stop(ctx)

	if err := f.uc.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if f.store.snapshot != nil {
		t.Fatalf("reset must clear the snapshot file")
	}
	if f.active.state != nil {
		t.Fatalf("reset must clear the active state")
	}
	if len(f.projector.days) != 0 {
		t.Fatalf("reset must clear the projection")
	}
}

func TestReportLimit(t *testing.T) {
	t.Parallel()
	f := newFixture(at(9))
	ctx := context.Background()
	f.store.snapshot = &domain.Snapshot{DailyData: map[string]domain.DailyRecord{
		"2026-08-24": {TotalSeconds: 100},
		"2026-08-25": {TotalSeconds: 200},
		"2026-08-26": {TotalSeconds: 300},
	}}
	if _, err := f.uc.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	days, err := f.uc.Report(ctx, 2)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if len(days) != 2 || days[0].DateKey != "2026-08-26" {
		t.Fatalf("limited report = %+v", days)
	}
}
