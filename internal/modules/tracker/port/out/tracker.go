package out

import (
	"context"

	"worktrack/internal/modules/tracker/domain"
)

// SnapshotStore persists the full tracker state blob. Load returns an
// error wrapping apperrors.ErrCorruptSnapshot for unreadable content and
// a zero snapshot when nothing has been saved yet.
type SnapshotStore interface {
	Load(ctx context.Context) (domain.Snapshot, error)
	Save(ctx context.Context, snapshot domain.Snapshot) error
	Clear(ctx context.Context) error
}

// ActiveStateStore persists the in-flight timer state between processes.
// LoadActive returns apperrors.ErrNoActiveState when nothing is in flight.
type ActiveStateStore interface {
	SaveActive(ctx context.Context, state domain.ActiveState) error
	LoadActive(ctx context.Context) (domain.ActiveState, error)
	ClearActive(ctx context.Context) error
}

// HistoryProjector maintains the per-day read model used by reports.
type HistoryProjector interface {
	Reset(ctx context.Context) error
	UpsertDay(ctx context.Context, dateKey string, record domain.DailyRecord) error
	ListDays(ctx context.Context, limit int) ([]domain.DaySummary, error)
}
