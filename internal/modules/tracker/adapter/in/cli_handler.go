package in

import (
	"context"

	trackerdto "worktrack/internal/modules/tracker/dto"
	trackerin "worktrack/internal/modules/tracker/port/in"
)

type CLIHandler struct {
	usecase trackerin.Usecase
}

func NewCLIHandler(usecase trackerin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Load(ctx context.Context) (trackerdto.LoadOutput, error) {
	return h.usecase.Load(ctx)
}

func (h CLIHandler) Start(ctx context.Context) (trackerdto.StatusOutput, error) {
	return h.usecase.Start(ctx)
}

func (h CLIHandler) Pause(ctx context.Context) (trackerdto.StatusOutput, error) {
	return h.usecase.Pause(ctx)
}

func (h CLIHandler) Resume(ctx context.Context) (trackerdto.StatusOutput, error) {
	return h.usecase.Resume(ctx)
}

func (h CLIHandler) Stop(ctx context.Context) (trackerdto.StopOutput, error) {
	return h.usecase.Stop(ctx)
}

func (h CLIHandler) Reset(ctx context.Context) error {
	return h.usecase.Reset(ctx)
}

func (h CLIHandler) Status(ctx context.Context) (trackerdto.StatusOutput, error) {
	return h.usecase.Status(ctx)
}

func (h CLIHandler) Today(ctx context.Context) (trackerdto.TodayOutput, error) {
	return h.usecase.Today(ctx)
}

func (h CLIHandler) History(ctx context.Context) ([]trackerdto.DayOutput, error) {
	return h.usecase.History(ctx)
}

func (h CLIHandler) Report(ctx context.Context, limit int) ([]trackerdto.DayOutput, error) {
	return h.usecase.Report(ctx, limit)
}

func (h CLIHandler) Autosave(ctx context.Context) (bool, error) {
	return h.usecase.Autosave(ctx)
}
