package clock

import "time"

// Clock abstracts time to keep timer accounting deterministic in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reports local time: daily records are bucketed by the
// local calendar date, so UTC would shift sessions across day keys.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}
