package service

import (
	"context"
	"fmt"

	"worktrack/internal/modules/stats/domain"
	statsout "worktrack/internal/modules/stats/port/out"
	"worktrack/internal/platform/clock"
)

// StatsService derives metrics and insights. It owns no state of its
// own: everything is recomputed from the history source on demand.
type StatsService struct {
	clock       clock.Clock
	history     statsout.HistorySource
	goalSeconds int
	windowDays  int
}

func NewStatsService(clk clock.Clock, history statsout.HistorySource, goalSeconds, windowDays int) *StatsService {
	return &StatsService{clock: clk, history: history, goalSeconds: goalSeconds, windowDays: windowDays}
}

func (s *StatsService) GoalSeconds() int { return s.goalSeconds }

func (s *StatsService) Summary(ctx context.Context) (int, float64, domain.Aggregate, []domain.Day, error) {
	days, err := s.history.Days(ctx)
	if err != nil {
		return 0, 0, domain.Aggregate{}, nil, fmt.Errorf("load days: %w", err)
	}
	todayTotal, _, err := s.history.Today(ctx)
	if err != nil {
		return 0, 0, domain.Aggregate{}, nil, fmt.Errorf("load today: %w", err)
	}
	aggregate := domain.ComputeAggregate(days, s.goalSeconds, s.windowDays)
	window := domain.Window(days, s.windowDays)
	return todayTotal, domain.ProgressPercent(todayTotal, s.goalSeconds), aggregate, window, nil
}

func (s *StatsService) Insights(ctx context.Context) ([]domain.Observation, error) {
	todayTotal, sessionCount, err := s.history.Today(ctx)
	if err != nil {
		return nil, fmt.Errorf("load today: %w", err)
	}
	hour := s.clock.Now().Hour()
	return domain.Analyze(todayTotal, s.goalSeconds, sessionCount, hour), nil
}
