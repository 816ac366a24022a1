package domain_test

import (
	"testing"

	"worktrack/internal/modules/stats/domain"
)

func TestProgressPercent(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name  string
		total int
		goal  int
		want  float64
	}{
		{"halfway", 14400, 28800, 50},
		{"clamped at hundred", 30000, 28800, 100},
		{"exact goal", 28800, 28800, 100},
		{"zero total", 0, 28800, 0},
		{"negative total", -5, 28800, 0},
		{"zero goal", 100, 0, 0},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := domain.ProgressPercent(tc.total, tc.goal); got != tc.want {
				t.Fatalf("ProgressPercent(%d, %d) = %v, want %v", tc.total, tc.goal, got, tc.want)
			}
		})
	}
}

func TestComputeAggregate(t *testing.T) {
	t.Parallel()
	days := []domain.Day{
		{DateKey: "2026-08-26", TotalSeconds: 28800},
		{DateKey: "2026-08-27", TotalSeconds: 28800},
		{DateKey: "2026-08-28", TotalSeconds: 0},
	}
	agg := domain.ComputeAggregate(days, 28800, 4)
	if agg.CompletedDays != 2 {
		t.Fatalf("completed days = %d, want 2", agg.CompletedDays)
	}
	if agg.OverallPercent != 50 {
		t.Fatalf("overall percent = %d, want 50", agg.OverallPercent)
	}
	if agg.TotalSeconds != 57600 {
		t.Fatalf("total = %d, want 57600", agg.TotalSeconds)
	}
	if agg.AverageSeconds != 19200 {
		t.Fatalf("average = %d, want 19200", agg.AverageSeconds)
	}
}

func TestComputeAggregateEmpty(t *testing.T) {
	t.Parallel()
	agg := domain.ComputeAggregate(nil, 28800, 4)
	if agg.AverageSeconds != 0 || agg.OverallPercent != 0 || agg.CompletedDays != 0 {
		t.Fatalf("empty aggregate should be all zero, got %+v", agg)
	}
}

func TestComputeAggregateRoundsOverallPercent(t *testing.T) {
	t.Parallel()
	days := []domain.Day{
		{DateKey: "2026-08-27", TotalSeconds: 28800},
	}
	agg := domain.ComputeAggregate(days, 28800, 3)
	if agg.OverallPercent != 33 {
		t.Fatalf("overall percent = %d, want 33", agg.OverallPercent)
	}
	agg = domain.ComputeAggregate([]domain.Day{
		{DateKey: "2026-08-26", TotalSeconds: 28800},
		{DateKey: "2026-08-27", TotalSeconds: 28800},
	}, 28800, 3)
	if agg.OverallPercent != 67 {
		t.Fatalf("overall percent = %d, want 67", agg.OverallPercent)
	}
}

func TestWindow(t *testing.T) {
	t.Parallel()
	days := []domain.Day{
		{DateKey: "2026-08-24", TotalSeconds: 1},
		{DateKey: "2026-08-28", TotalSeconds: 5},
		{DateKey: "2026-08-26", TotalSeconds: 3},
		{DateKey: "2026-08-25", TotalSeconds: 2},
		{DateKey: "2026-08-27", TotalSeconds: 4},
	}
	window := domain.Window(days, 4)
	if len(window) != 4 {
		t.Fatalf("window length = %d, want 4", len(window))
	}
	for i, want := range []string{"2026-08-28", "2026-08-27", "2026-08-26", "2026-08-25"} {
		if window[i].DateKey != want {
			t.Fatalf("window[%d] = %s, want %s", i, window[i].DateKey, want)
		}
	}
	if len(domain.Window(days, 0)) != 5 {
		t.Fatalf("zero window must keep every day")
	}
}
