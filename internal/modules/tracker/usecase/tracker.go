package usecase

import (
	"context"
	"errors"
	"fmt"

	"worktrack/internal/modules/tracker/domain"
	"worktrack/internal/modules/tracker/dto"
	trackerin "worktrack/internal/modules/tracker/port/in"
	trackerout "worktrack/internal/modules/tracker/port/out"
	"worktrack/internal/modules/tracker/service"
	apperrors "worktrack/internal/platform/errors"
)

// Interactor drives the tracker service and decides when state hits
// disk. Pause and Stop persist the snapshot unconditionally because
// they close finished work; Start and Resume leave the snapshot to the
// autosave loop, so a crash right after them costs at most one autosave
// window. Every transition also syncs the active-state side file, which
// is what lets a later process resume an in-flight stretch.
type Interactor struct {
	svc       *service.TrackerService
	store     trackerout.SnapshotStore
	active    trackerout.ActiveStateStore
	projector trackerout.HistoryProjector
}

func NewInteractor(svc *service.TrackerService, store trackerout.SnapshotStore, active trackerout.ActiveStateStore, projector trackerout.HistoryProjector) trackerin.Usecase {
	return &Interactor{svc: svc, store: store, active: active, projector: projector}
}

// Load hydrates the tracker from the saved snapshot and the active-state
// side file, then rebuilds the history projection. A corrupt snapshot or
// unreadable active state is not fatal: the tracker starts from what it
// can read and reports Recovered so the caller can warn.
func (i *Interactor) Load(ctx context.Context) (dto.LoadOutput, error) {
	recovered := false
	snapshot, err := i.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, apperrors.ErrCorruptSnapshot) {
			return dto.LoadOutput{}, fmt.Errorf("load snapshot: %w", err)
		}
		snapshot = domain.Snapshot{}
		recovered = true
	}

	var active *domain.ActiveState
	if state, err := i.active.LoadActive(ctx); err == nil {
		active = &state
	} else if !errors.Is(err, apperrors.ErrNoActiveState) {
		recovered = true
	}

	i.svc.Hydrate(snapshot, active)
	if err := i.projector.Reset(ctx); err != nil {
		return dto.LoadOutput{}, fmt.Errorf("reset projection: %w", err)
	}
	for key, record := range i.svc.Snapshot().DailyData {
		if err := i.projector.UpsertDay(ctx, key, record); err != nil {
			return dto.LoadOutput{}, fmt.Errorf("project day %s: %w", key, err)
		}
	}
	return dto.LoadOutput{Days: len(snapshot.DailyData), Recovered: recovered}, nil
}

func (i *Interactor) Start(ctx context.Context) (dto.StatusOutput, error) {
	_, err := i.svc.Start()
	out, err := i.transitionStatus(err)
	if err != nil || !out.Changed {
		return out, err
	}
	return out, i.syncActive(ctx)
}

func (i *Interactor) Pause(ctx context.Context) (dto.StatusOutput, error) {
	err := i.svc.Pause()
	out, err := i.transitionStatus(err)
	if err != nil || !out.Changed {
		return out, err
	}
	if err := i.persist(ctx); err != nil {
		return out, err
	}
	return out, i.syncActive(ctx)
}

func (i *Interactor) Resume(ctx context.Context) (dto.StatusOutput, error) {
	out, err := i.transitionStatus(i.svc.Resume())
	if err != nil || !out.Changed {
		return out, err
	}
	return out, i.syncActive(ctx)
}

func (i *Interactor) Stop(ctx context.Context) (dto.StopOutput, error) {
	closed, err := i.svc.Stop()
	if errors.Is(err, apperrors.ErrInvalidTransition) {
		_, _, _, today, _ := i.svc.Status()
		return dto.StopOutput{TodaySeconds: today}, nil
	}
	if err != nil {
		return dto.StopOutput{}, err
	}
	_, _, _, today, _ := i.svc.Status()
	out := dto.StopOutput{Session: toSessionOutput(closed), TodaySeconds: today, Changed: true}
	if err := i.persist(ctx); err != nil {
		return out, err
	}
	return out, i.syncActive(ctx)
}

// Reset wipes memory, the snapshot file, and the projection.
func (i *Interactor) Reset(ctx context.Context) error {
	i.svc.Reset()
	if err := i.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}
	if err := i.active.ClearActive(ctx); err != nil {
		return fmt.Errorf("clear active state: %w", err)
	}
	if err := i.projector.Reset(ctx); err != nil {
		return fmt.Errorf("reset projection: %w", err)
	}
	return nil
}

func (i *Interactor) Status(ctx context.Context) (dto.StatusOutput, error) {
	return i.status(true), nil
}

func (i *Interactor) Today(ctx context.Context) (dto.TodayOutput, error) {
	key, record := i.svc.Today()
	out := dto.TodayOutput{DateKey: key, TotalSeconds: record.TotalSeconds}
	for _, s := range record.Sessions {
		out.Sessions = append(out.Sessions, toSessionOutput(s))
	}
	return out, nil
}

func (i *Interactor) History(ctx context.Context) ([]dto.DayOutput, error) {
	days := i.svc.History()
	out := make([]dto.DayOutput, 0, len(days))
	for _, d := range days {
		out = append(out, dto.DayOutput{DateKey: d.DateKey, TotalSeconds: d.TotalSeconds, SessionCount: d.SessionCount})
	}
	return out, nil
}

// Report reads from the projection rather than live state, so it sees
// exactly what the last persist wrote.
func (i *Interactor) Report(ctx context.Context, limit int) ([]dto.DayOutput, error) {
	days, err := i.projector.ListDays(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list days: %w", err)
	}
	out := make([]dto.DayOutput, 0, len(days))
	for _, d := range days {
		out = append(out, dto.DayOutput{DateKey: d.DateKey, TotalSeconds: d.TotalSeconds, SessionCount: d.SessionCount})
	}
	return out, nil
}

// Autosave persists the live state, but only while the timer runs.
// Paused and stopped states were already saved by their transitions.
func (i *Interactor) Autosave(ctx context.Context) (bool, error) {
	if i.svc.Phase() != domain.PhaseRunning {
		return false, nil
	}
	if err := i.persist(ctx); err != nil {
		return false, err
	}
	if err := i.syncActive(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// syncActive mirrors the in-flight stretch to the side file: saved while
// a stretch is live, removed once the timer stops.
func (i *Interactor) syncActive(ctx context.Context) error {
	state, ok := i.svc.ActiveState()
	if !ok {
		if err := i.active.ClearActive(ctx); err != nil {
			return fmt.Errorf("clear active state: %w", err)
		}
		return nil
	}
	if err := i.active.SaveActive(ctx, state); err != nil {
		return fmt.Errorf("save active state: %w", err)
	}
	return nil
}

func (i *Interactor) persist(ctx context.Context) error {
	snapshot := i.svc.Snapshot()
	if err := i.store.Save(ctx, snapshot); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	for key, record := range snapshot.DailyData {
		if err := i.projector.UpsertDay(ctx, key, record); err != nil {
			return fmt.Errorf("project day %s: %w", key, err)
		}
	}
	return nil
}

// transitionStatus maps a rejected transition to an unchanged status
// instead of an error: callers render the current state either way.
func (i *Interactor) transitionStatus(err error) (dto.StatusOutput, error) {
	if errors.Is(err, apperrors.ErrInvalidTransition) {
		return i.status(false), nil
	}
	if err != nil {
		return dto.StatusOutput{}, err
	}
	return i.status(true), nil
}

func (i *Interactor) status(changed bool) dto.StatusOutput {
	phase, dateKey, elapsed, today, count := i.svc.Status()
	return dto.StatusOutput{
		Phase:          string(phase),
		DateKey:        dateKey,
		ElapsedSeconds: elapsed,
		TodaySeconds:   today,
		SessionCount:   count,
		Changed:        changed,
	}
}

func toSessionOutput(s domain.Session) dto.SessionOutput {
	return dto.SessionOutput{
		ID:              s.ID,
		StartedAt:       s.StartedAt,
		EndedAt:         s.EndedAt,
		DurationSeconds: s.DurationSeconds,
		PauseCount:      len(s.Pauses),
		Open:            s.Open(),
	}
}
