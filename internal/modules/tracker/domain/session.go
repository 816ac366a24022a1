package domain

import (
	"time"

	apperrors "worktrack/internal/platform/errors"
)

type PauseInterval struct {
	StartedAt time.Time  `json:"startTime"`
	EndedAt   *time.Time `json:"endTime,omitempty"`
}

// Session is one contiguous work attempt from start to stop. Once EndedAt
// is set the session is closed and immutable.
type Session struct {
	ID              string          `json:"id"`
	StartedAt       time.Time       `json:"startTime"`
	EndedAt         *time.Time      `json:"endTime,omitempty"`
	DurationSeconds int             `json:"duration"`
	Pauses          []PauseInterval `json:"pauses"`
}

func (s Session) Open() bool {
	return s.EndedAt == nil
}

// DailyRecord aggregates all sessions of one calendar day plus the
// cached total used by history views.
type DailyRecord struct {
	Sessions     []Session `json:"sessions"`
	TotalSeconds int       `json:"totalSeconds"`
}

// Snapshot is the persisted blob: every day's record keyed by dateKey.
type Snapshot struct {
	DailyData  map[string]DailyRecord `json:"dailyData"`
	LastUpdate time.Time              `json:"lastUpdate"`
}

// DaySummary is the per-day row of the history read model.
type DaySummary struct {
	DateKey      string
	TotalSeconds int
	SessionCount int
}

// Ledger holds the ordered sessions of the current day. At most one
// session is open, and only its last pause interval may be open.
type Ledger struct {
	Sessions []Session
}

func (l *Ledger) openIndex() int {
	for i := range l.Sessions {
		if l.Sessions[i].Open() {
			return i
		}
	}
	return -1
}

// OpenSession appends a new open session.
func (l *Ledger) OpenSession(id string, at time.Time) (Session, error) {
	if l.openIndex() >= 0 {
		return Session{}, apperrors.ErrOpenSessionExists
	}
	session := Session{ID: id, StartedAt: at, Pauses: []PauseInterval{}}
	l.Sessions = append(l.Sessions, session)
	return session, nil
}

// CloseSession finalizes the open session. The duration is the residual
// of finalSeconds against the other sessions' durations, not the raw
// end−start difference, so the day total absorbs clock drift and missed
// ticks without gaps or double-counting.
func (l *Ledger) CloseSession(at time.Time, finalSeconds int) (Session, error) {
	idx := l.openIndex()
	if idx < 0 {
		return Session{}, apperrors.ErrNoOpenSession
	}
	duration := finalSeconds - l.ClosedTotal()
	if duration < 0 {
		duration = 0
	}
	end := at
	l.Sessions[idx].EndedAt = &end
	l.Sessions[idx].DurationSeconds = duration
	if pauses := l.Sessions[idx].Pauses; len(pauses) > 0 && pauses[len(pauses)-1].EndedAt == nil {
		l.Sessions[idx].Pauses[len(pauses)-1].EndedAt = &end
	}
	return l.Sessions[idx], nil
}

// RecordPauseStart appends an open pause interval to the open session.
func (l *Ledger) RecordPauseStart(at time.Time) error {
	idx := l.openIndex()
	if idx < 0 {
		return apperrors.ErrNoOpenSession
	}
	if pauses := l.Sessions[idx].Pauses; len(pauses) > 0 && pauses[len(pauses)-1].EndedAt == nil {
		return apperrors.ErrInvalidTransition
	}
	l.Sessions[idx].Pauses = append(l.Sessions[idx].Pauses, PauseInterval{StartedAt: at})
	return nil
}

// RecordPauseEnd closes the open pause interval on the open session.
func (l *Ledger) RecordPauseEnd(at time.Time) error {
	idx := l.openIndex()
	if idx < 0 {
		return apperrors.ErrNoOpenSession
	}
	pauses := l.Sessions[idx].Pauses
	if len(pauses) == 0 || pauses[len(pauses)-1].EndedAt != nil {
		return apperrors.ErrInvalidTransition
	}
	end := at
	l.Sessions[idx].Pauses[len(pauses)-1].EndedAt = &end
	return nil
}

// ClosedTotal sums the durations of the closed sessions.
func (l *Ledger) ClosedTotal() int {
	total := 0
	for _, s := range l.Sessions {
		if !s.Open() {
			total += s.DurationSeconds
		}
	}
	return total
}

// HasOpen reports whether a session is currently open.
func (l *Ledger) HasOpen() bool {
	return l.openIndex() >= 0
}

// Active returns a copy of the open session, if any.
func (l *Ledger) Active() (Session, bool) {
	idx := l.openIndex()
	if idx < 0 {
		return Session{}, false
	}
	return l.Sessions[idx], true
}

// Record freezes the ledger into a DailyRecord with the given total.
func (l *Ledger) Record(totalSeconds int) DailyRecord {
	sessions := make([]Session, len(l.Sessions))
	copy(sessions, l.Sessions)
	return DailyRecord{Sessions: sessions, TotalSeconds: totalSeconds}
}
