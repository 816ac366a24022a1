package in

import (
	"context"

	"worktrack/internal/modules/tracker/dto"
)

type Usecase interface {
	Load(ctx context.Context) (dto.LoadOutput, error)
	Start(ctx context.Context) (dto.StatusOutput, error)
	Pause(ctx context.Context) (dto.StatusOutput, error)
	Resume(ctx context.Context) (dto.StatusOutput, error)
	Stop(ctx context.Context) (dto.StopOutput, error)
	Reset(ctx context.Context) error
	Status(ctx context.Context) (dto.StatusOutput, error)
	Today(ctx context.Context) (dto.TodayOutput, error)
	History(ctx context.Context) ([]dto.DayOutput, error)
	Report(ctx context.Context, limit int) ([]dto.DayOutput, error)
	Autosave(ctx context.Context) (bool, error)
}
