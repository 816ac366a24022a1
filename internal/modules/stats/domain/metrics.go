package domain

import (
	"math"
	"sort"
)

// Day is one recorded calendar day as the metrics see it.
type Day struct {
	DateKey      string
	TotalSeconds int
	SessionCount int
}

// Aggregate is the roll-up across all recorded days.
type Aggregate struct {
	CompletedDays  int
	WindowDays     int
	TotalSeconds   int
	AverageSeconds int
	// OverallPercent is completed days against the target window, rounded
	// to the nearest whole percent.
	OverallPercent int
}

// ProgressPercent is completion against the daily goal, clamped to
// [0, 100].
func ProgressPercent(totalSeconds, goalSeconds int) float64 {
	if goalSeconds <= 0 || totalSeconds <= 0 {
		return 0
	}
	p := 100 * float64(totalSeconds) / float64(goalSeconds)
	if p > 100 {
		return 100
	}
	return p
}

// ComputeAggregate derives the overall statistics. windowDays is the
// rolling target: the overall percentage measures completed days against
// it, not against the number of recorded days.
func ComputeAggregate(days []Day, goalSeconds, windowDays int) Aggregate {
	agg := Aggregate{WindowDays: windowDays}
	for _, d := range days {
		agg.TotalSeconds += d.TotalSeconds
		if d.TotalSeconds >= goalSeconds {
			agg.CompletedDays++
		}
	}
	if len(days) > 0 {
		agg.AverageSeconds = agg.TotalSeconds / len(days)
	}
	if windowDays > 0 {
		agg.OverallPercent = int(math.Round(100 * float64(agg.CompletedDays) / float64(windowDays)))
	}
	return agg
}

// Window returns the most recent windowDays days, newest first. The
// dateKey format sorts lexicographically in chronological order.
func Window(days []Day, windowDays int) []Day {
	sorted := make([]Day, len(days))
	copy(sorted, days)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].DateKey > sorted[j].DateKey })
	if windowDays > 0 && len(sorted) > windowDays {
		sorted = sorted[:windowDays]
	}
	return sorted
}
