package domain

import (
	"fmt"

	"worktrack/internal/platform/timefmt"
)

type Severity string

const (
	SeverityPositive Severity = "positive"
	SeverityNeutral  Severity = "neutral"
	SeverityNegative Severity = "negative"
)

// Observation is one human-readable remark about the day.
type Observation struct {
	Severity Severity
	Message  string
}

// Analyze produces observations about today's work. The rules are
// independent, so one day can collect remarks from several of them, and
// their order is fixed: progress first, then session cadence, then the
// time-of-day warning. Days with under a minute of work produce nothing.
func Analyze(todayTotal, goalSeconds, sessionCount, hourOfDay int) []Observation {
	if todayTotal < 60 {
		return nil
	}

	p := ProgressPercent(todayTotal, goalSeconds)
	observations := []Observation{}

	switch {
	case p >= 100:
		observations = append(observations, Observation{
			Severity: SeverityPositive,
			Message:  fmt.Sprintf("Excellent! You hit your %s goal today.", timefmt.Duration(goalSeconds)),
		})
	case p >= 75:
		observations = append(observations, Observation{
			Severity: SeverityPositive,
			Message:  fmt.Sprintf("Very good! You are at %.1f%% of your goal, %s to go.", p, timefmt.Duration(goalSeconds-todayTotal)),
		})
	case p >= 50:
		observations = append(observations, Observation{
			Severity: SeverityNeutral,
			Message:  fmt.Sprintf("At %.1f%% of your goal. Keep going!", p),
		})
	default:
		observations = append(observations, Observation{
			Severity: SeverityNegative,
			Message:  fmt.Sprintf("Only %.1f%% of your goal so far. Push a little harder!", p),
		})
	}

	switch {
	case sessionCount > 6:
		observations = append(observations, Observation{
			Severity: SeverityNegative,
			Message:  fmt.Sprintf("%d sessions today. You seem to get interrupted a lot; try fewer, longer stretches.", sessionCount),
		})
	case sessionCount >= 3:
		observations = append(observations, Observation{
			Severity: SeverityNeutral,
			Message:  fmt.Sprintf("%d sessions is a healthy cadence between work and rest.", sessionCount),
		})
	case sessionCount >= 1 && todayTotal >= 3600*sessionCount:
		observations = append(observations, Observation{
			Severity: SeverityPositive,
			Message:  fmt.Sprintf("Great focus! Your sessions average %s each.", timefmt.Duration(todayTotal/sessionCount)),
		})
	}

	if p < 50 && hourOfDay >= 18 {
		observations = append(observations, Observation{
			Severity: SeverityNegative,
			Message:  "The evening is here and you are not yet halfway. Push on, or plan tomorrow better!",
		})
	}

	return observations
}
