package timefmt

import (
	"fmt"
	"time"
)

const dateKeyLayout = "2006-01-02"

// Clock renders whole seconds as HH:MM:SS, the timer display format.
func Clock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := seconds % 3600 / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// Duration renders whole seconds as a compact "3h 25m" / "25m" label.
func Duration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := seconds % 3600 / 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

// DateKey buckets an instant into its local calendar date.
// Lexicographic order on the result matches chronological order.
func DateKey(t time.Time) string {
	return t.Format(dateKeyLayout)
}
