package service_test

import (
	"context"
	"testing"
	"time"

	"worktrack/internal/modules/stats/domain"
	"worktrack/internal/modules/stats/service"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

type fakeHistory struct {
	days     []domain.Day
	today    int
	sessions int
}

func (f *fakeHistory) Days(ctx context.Context) ([]domain.Day, error) {
	return f.days, nil
}

func (f *fakeHistory) Today(ctx context.Context) (int, int, error) {
	return f.today, f.sessions, nil
}

func TestSummary(t *testing.T) {
	t.Parallel()
	history := &fakeHistory{
		days: []domain.Day{
			{DateKey: "2026-08-25", TotalSeconds: 28800, SessionCount: 3},
			{DateKey: "2026-08-26", TotalSeconds: 14400, SessionCount: 2},
			{DateKey: "2026-08-27", TotalSeconds: 30000, SessionCount: 4},
			{DateKey: "2026-08-28", TotalSeconds: 14400, SessionCount: 1},
		},
		today:    14400,
		sessions: 1,
	}
	clk := &fakeClock{now: time.Date(2026, 8, 28, 14, 0, 0, 0, time.Local)}
	svc := service.NewStatsService(clk, history, 28800, 4)

	todayTotal, percent, aggregate, window, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if todayTotal != 14400 || percent != 50 {
		t.Fatalf("today = %d at %v%%, want 14400 at 50%%", todayTotal, percent)
	}
	if aggregate.CompletedDays != 2 || aggregate.OverallPercent != 50 {
		t.Fatalf("aggregate = %+v, want 2 completed, 50%%", aggregate)
	}
	if aggregate.TotalSeconds != 87600 || aggregate.AverageSeconds != 21900 {
		t.Fatalf("aggregate totals = %+v", aggregate)
	}
	if len(window) != 4 || window[0].DateKey != "2026-08-28" {
		t.Fatalf("window = %+v", window)
	}
}

func TestInsightsUseWallClockHour(t *testing.T) {
	t.Parallel()
	history := &fakeHistory{today: 5000, sessions: 2}

	evening := service.NewStatsService(&fakeClock{now: time.Date(2026, 8, 28, 19, 30, 0, 0, time.Local)}, history, 28800, 4)
	observations, err := evening.Insights(context.Background())
	if err != nil {
		t.Fatalf("insights: %v", err)
	}
	if len(observations) != 2 || observations[1].Severity != domain.SeverityNegative {
		t.Fatalf("expected the evening warning, got %+v", observations)
	}

	morning := service.NewStatsService(&fakeClock{now: time.Date(2026, 8, 28, 9, 30, 0, 0, time.Local)}, history, 28800, 4)
	observations, err = morning.Insights(context.Background())
	if err != nil {
		t.Fatalf("insights: %v", err)
	}
	if len(observations) != 1 {
		t.Fatalf("morning must skip the evening warning, got %+v", observations)
	}
}
