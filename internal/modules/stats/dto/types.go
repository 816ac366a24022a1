package dto

type DayOutput struct {
	DateKey      string
	TotalSeconds int
	SessionCount int
	GoalMet      bool
}

type SummaryOutput struct {
	TodaySeconds   int
	TodayPercent   float64
	GoalSeconds    int
	CompletedDays  int
	WindowDays     int
	TotalSeconds   int
	AverageSeconds int
	OverallPercent int
	Window         []DayOutput
}

type InsightOutput struct {
	Severity string
	Message  string
}
