package in

import (
	"context"

	"worktrack/internal/modules/stats/dto"
)

type Usecase interface {
	Summary(ctx context.Context) (dto.SummaryOutput, error)
	Insights(ctx context.Context) ([]dto.InsightOutput, error)
}
