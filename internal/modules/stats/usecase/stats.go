package usecase

import (
	"context"

	"worktrack/internal/modules/stats/dto"
	statsin "worktrack/internal/modules/stats/port/in"
	"worktrack/internal/modules/stats/service"
)

type Interactor struct {
	svc *service.StatsService
}

func NewInteractor(svc *service.StatsService) statsin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Summary(ctx context.Context) (dto.SummaryOutput, error) {
	todaySeconds, todayPercent, aggregate, window, err := i.svc.Summary(ctx)
	if err != nil {
		return dto.SummaryOutput{}, err
	}
	out := dto.SummaryOutput{
		TodaySeconds:   todaySeconds,
		TodayPercent:   todayPercent,
		GoalSeconds:    i.svc.GoalSeconds(),
		CompletedDays:  aggregate.CompletedDays,
		WindowDays:     aggregate.WindowDays,
		TotalSeconds:   aggregate.TotalSeconds,
		AverageSeconds: aggregate.AverageSeconds,
		OverallPercent: aggregate.OverallPercent,
	}
	for _, day := range window {
		out.Window = append(out.Window, dto.DayOutput{
			DateKey:      day.DateKey,
			TotalSeconds: day.TotalSeconds,
			SessionCount: day.SessionCount,
			GoalMet:      day.TotalSeconds >= i.svc.GoalSeconds(),
		})
	}
	return out, nil
}

func (i *Interactor) Insights(ctx context.Context) ([]dto.InsightOutput, error) {
	observations, err := i.svc.Insights(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InsightOutput, 0, len(observations))
	for _, o := range observations {
		out = append(out, dto.InsightOutput{Severity: string(o.Severity), Message: o.Message})
	}
	return out, nil
}
