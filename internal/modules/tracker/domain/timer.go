package domain

import "time"

type Phase string

const (
	PhaseStopped Phase = "stopped"
	PhaseRunning Phase = "running"
	PhasePaused  Phase = "paused"
)

// Timer is the elapsed-time accounting state machine.
//
// AccumulatedSeconds is the confirmed elapsed total up to the start of
// the current phase. Time spent inside a Running phase is always derived
// from PhaseStartedAt via CurrentElapsed and is only folded into
// AccumulatedSeconds on the next pause or stop.
type Timer struct {
	Phase              Phase      `json:"phase"`
	AccumulatedSeconds int        `json:"accumulatedSeconds"`
	PhaseStartedAt     *time.Time `json:"phaseStartedAt,omitempty"`
}

// ActiveState is the in-flight stretch that must outlive a process: the
// timer machine plus the session it is accounting against, pinned to the
// day the stretch started on. It is persisted beside the snapshot on
// every transition so a later process can pick the stretch back up.
type ActiveState struct {
	DateKey string  `json:"dateKey"`
	Timer   Timer   `json:"timer"`
	Session Session `json:"session"`
}

// Live reports whether the state describes a stretch worth restoring.
func (a ActiveState) Live() bool {
	return a.DateKey != "" && a.Timer.Phase != PhaseStopped && a.Session.Open()
}

func NewTimer() Timer {
	return Timer{Phase: PhaseStopped}
}

// CurrentElapsed returns the elapsed seconds of the current open stretch:
// the accumulated total plus, while Running, the floored seconds since the
// phase started. This is the single source of truth for elapsed time.
func (t Timer) CurrentElapsed(now time.Time) int {
	if t.Phase != PhaseRunning || t.PhaseStartedAt == nil {
		return t.AccumulatedSeconds
	}
	elapsed := int(now.Sub(*t.PhaseStartedAt) / time.Second)
	if elapsed < 0 {
		elapsed = 0
	}
	return t.AccumulatedSeconds + elapsed
}

// Start begins a fresh stretch. Valid only from Stopped.
func (t *Timer) Start(now time.Time) bool {
	if t.Phase != PhaseStopped {
		return false
	}
	t.Phase = PhaseRunning
	t.AccumulatedSeconds = 0
	t.PhaseStartedAt = &now
	return true
}

// Pause folds the running stretch into the accumulated total.
// Valid only from Running.
func (t *Timer) Pause(now time.Time) bool {
	if t.Phase != PhaseRunning {
		return false
	}
	t.AccumulatedSeconds = t.CurrentElapsed(now)
	t.Phase = PhasePaused
	t.PhaseStartedAt = nil
	return true
}

// Resume restarts the running stretch from now. Valid only from Paused.
func (t *Timer) Resume(now time.Time) bool {
	if t.Phase != PhasePaused {
		return false
	}
	t.Phase = PhaseRunning
	t.PhaseStartedAt = &now
	return true
}

// Stop finalizes the stretch and returns the day-total figure the ledger
// closes the session against. Valid from Running or Paused; the caller
// supplies the closed-session total so the figure covers the whole day.
func (t *Timer) Stop(now time.Time, closedTotal int) (int, bool) {
	if t.Phase != PhaseRunning && t.Phase != PhasePaused {
		return 0, false
	}
	finalSeconds := closedTotal + t.CurrentElapsed(now)
	t.Phase = PhaseStopped
	t.AccumulatedSeconds = finalSeconds
	t.PhaseStartedAt = nil
	return finalSeconds, true
}

// Reset forces the machine back to its initial state.
func (t *Timer) Reset() {
	t.Phase = PhaseStopped
	t.AccumulatedSeconds = 0
	t.PhaseStartedAt = nil
}
