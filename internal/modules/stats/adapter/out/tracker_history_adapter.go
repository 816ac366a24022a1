package out

import (
	"context"

	"worktrack/internal/modules/stats/domain"
	statsout "worktrack/internal/modules/stats/port/out"
	trackerin "worktrack/internal/modules/tracker/port/in"
)

// TrackerHistoryAdapter feeds the metrics from the tracker's live
// state, so insights see today's open stretch, not just what was last
// persisted.
type TrackerHistoryAdapter struct {
	tracker trackerin.Usecase
}

func NewTrackerHistoryAdapter(tracker trackerin.Usecase) statsout.HistorySource {
	return &TrackerHistoryAdapter{tracker: tracker}
}

func (a *TrackerHistoryAdapter) Days(ctx context.Context) ([]domain.Day, error) {
	history, err := a.tracker.History(ctx)
	if err != nil {
		return nil, err
	}
	days := make([]domain.Day, 0, len(history))
	for _, d := range history {
		days = append(days, domain.Day{DateKey: d.DateKey, TotalSeconds: d.TotalSeconds, SessionCount: d.SessionCount})
	}
	return days, nil
}

func (a *TrackerHistoryAdapter) Today(ctx context.Context) (int, int, error) {
	status, err := a.tracker.Status(ctx)
	if err != nil {
		return 0, 0, err
	}
	return status.TodaySeconds, status.SessionCount, nil
}
