package dto

import "time"

type StatusOutput struct {
	Phase          string
	DateKey        string
	ElapsedSeconds int
	TodaySeconds   int
	SessionCount   int
	// Changed is false when the requested transition was invalid for the
	// current phase and was ignored.
	Changed bool
}

type SessionOutput struct {
	ID              string
	StartedAt       time.Time
	EndedAt         *time.Time
	DurationSeconds int
	PauseCount      int
	Open            bool
}

type StopOutput struct {
	Session      SessionOutput
	TodaySeconds int
	Changed      bool
}

type TodayOutput struct {
	DateKey      string
	TotalSeconds int
	Sessions     []SessionOutput
}

type DayOutput struct {
	DateKey      string
	TotalSeconds int
	SessionCount int
}

type LoadOutput struct {
	Days int
	// Recovered is true when the snapshot was missing or corrupt and the
	// tracker started from an empty history.
	Recovered bool
}
