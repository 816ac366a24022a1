package out

import (
	"context"

	"worktrack/internal/modules/stats/domain"
)

// HistorySource feeds the metrics with recorded days and the live
// figures for today. Today's day is included in Days.
type HistorySource interface {
	Days(ctx context.Context) ([]domain.Day, error)
	Today(ctx context.Context) (totalSeconds int, sessionCount int, err error)
}
