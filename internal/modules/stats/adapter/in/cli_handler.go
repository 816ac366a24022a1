package in

import (
	"context"

	statsdto "worktrack/internal/modules/stats/dto"
	statsin "worktrack/internal/modules/stats/port/in"
)

type CLIHandler struct {
	usecase statsin.Usecase
}

func NewCLIHandler(usecase statsin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Summary(ctx context.Context) (statsdto.SummaryOutput, error) {
	return h.usecase.Summary(ctx)
}

func (h CLIHandler) Insights(ctx context.Context) ([]statsdto.InsightOutput, error) {
	return h.usecase.Insights(ctx)
}
