package service

import (
	"sort"
	"sync"
	"time"

	"worktrack/internal/modules/tracker/domain"
	"worktrack/internal/platform/clock"
	apperrors "worktrack/internal/platform/errors"
	"worktrack/internal/platform/id"
	"worktrack/internal/platform/timefmt"
)

// TrackerService owns the timer state machine and the session ledger for
// the current day. All state lives here, behind one mutex: transitions
// run to completion atomically relative to each other, and there are no
// package-level globals.
type TrackerService struct {
	mu      sync.Mutex
	clock   clock.Clock
	idGen   id.Generator
	timer   domain.Timer
	ledger  domain.Ledger
	dateKey string
	history map[string]domain.DailyRecord
}

func NewTrackerService(clk clock.Clock, idGen id.Generator) *TrackerService {
	return &TrackerService{
		clock:   clk,
		idGen:   idGen,
		timer:   domain.NewTimer(),
		history: map[string]domain.DailyRecord{},
	}
}

// Hydrate replaces all state from a persisted snapshot plus, when one is
// in flight, the active timer state. With a live active state the timer
// and the open session resume exactly where the previous process left
// them, pinned to the day the stretch started on. Without one, a session
// left open by an unclean shutdown is sealed against the record's saved
// total so the residual rule keeps the day consistent.
func (s *TrackerService) Hydrate(snapshot domain.Snapshot, active *domain.ActiveState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	restore := active != nil && active.Live()

	s.timer = domain.NewTimer()
	s.ledger = domain.Ledger{}
	s.history = map[string]domain.DailyRecord{}
	if restore {
		s.dateKey = active.DateKey
	} else {
		s.dateKey = timefmt.DateKey(s.clock.Now())
	}

	for key, record := range snapshot.DailyData {
		if key == s.dateKey {
			s.ledger = domain.Ledger{Sessions: append([]domain.Session{}, record.Sessions...)}
			if s.ledger.HasOpen() && !restore {
				_, _ = s.ledger.CloseSession(s.clock.Now(), record.TotalSeconds)
			}
			continue
		}
		s.history[key] = record
	}

	if restore {
		if !s.ledger.HasOpen() {
			s.ledger.Sessions = append(s.ledger.Sessions, active.Session)
		}
		s.timer = active.Timer
	}
}

// ActiveState exports the in-flight stretch for persistence. The second
// return is false while Stopped or without an open session.
func (s *TrackerService) ActiveState() (domain.ActiveState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.ledger.Active()
	if !ok || s.timer.Phase == domain.PhaseStopped {
		return domain.ActiveState{}, false
	}
	return domain.ActiveState{
		DateKey: s.currentDateKey(s.clock.Now()),
		Timer:   s.timer,
		Session: session,
	}, true
}

func (s *TrackerService) Start() (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	s.rebucket(now)
	if s.timer.Phase != domain.PhaseStopped || s.ledger.HasOpen() {
		return domain.Session{}, apperrors.ErrInvalidTransition
	}
	s.timer.Start(now)
	return s.ledger.OpenSession(s.idGen.New(), now)
}

func (s *TrackerService) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	if !s.timer.Pause(now) {
		return apperrors.ErrInvalidTransition
	}
	return s.ledger.RecordPauseStart(now)
}

func (s *TrackerService) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	if !s.timer.Resume(now) {
		return apperrors.ErrInvalidTransition
	}
	return s.ledger.RecordPauseEnd(now)
}

func (s *TrackerService) Stop() (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	finalSeconds, ok := s.timer.Stop(now, s.ledger.ClosedTotal())
	if !ok {
		return domain.Session{}, apperrors.ErrInvalidTransition
	}
	return s.ledger.CloseSession(now, finalSeconds)
}

// Reset wipes the timer, the ledger, and all recorded days.
func (s *TrackerService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.timer.Reset()
	s.ledger = domain.Ledger{}
	s.history = map[string]domain.DailyRecord{}
	s.dateKey = timefmt.DateKey(s.clock.Now())
}

// Status reports the current phase and the day's derived totals.
func (s *TrackerService) Status() (domain.Phase, string, int, int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	s.rebucket(now)
	return s.timer.Phase, s.currentDateKey(now), s.timer.CurrentElapsed(now), s.todayTotal(now), len(s.ledger.Sessions)
}

// Today returns the day's record with the open session's duration
// reported live.
func (s *TrackerService) Today() (string, domain.DailyRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	s.rebucket(now)
	record := s.ledger.Record(s.todayTotal(now))
	for i := range record.Sessions {
		if record.Sessions[i].Open() {
			record.Sessions[i].DurationSeconds = s.timer.CurrentElapsed(now)
		}
	}
	return s.currentDateKey(now), record
}

// History returns every recorded day, today included, newest first.
func (s *TrackerService) History() []domain.DaySummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	s.rebucket(now)
	days := make([]domain.DaySummary, 0, len(s.history)+1)
	for key, record := range s.history {
		days = append(days, domain.DaySummary{DateKey: key, TotalSeconds: record.TotalSeconds, SessionCount: len(record.Sessions)})
	}
	if len(s.ledger.Sessions) > 0 {
		days = append(days, domain.DaySummary{
			DateKey:      s.currentDateKey(now),
			TotalSeconds: s.todayTotal(now),
			SessionCount: len(s.ledger.Sessions),
		})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].DateKey > days[j].DateKey })
	return days
}

// Snapshot assembles the persistence blob from the current state.
func (s *TrackerService) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	daily := make(map[string]domain.DailyRecord, len(s.history)+1)
	for key, record := range s.history {
		daily[key] = record
	}
	if len(s.ledger.Sessions) > 0 {
		daily[s.currentDateKey(now)] = s.ledger.Record(s.todayTotal(now))
	}
	return domain.Snapshot{DailyData: daily, LastUpdate: now}
}

// Phase returns the current phase without the rest of the status.
func (s *TrackerService) Phase() domain.Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer.Phase
}

// todayTotal is the canonical seconds-worked-today figure: closed
// durations plus, while a session is open, the live elapsed stretch.
func (s *TrackerService) todayTotal(now time.Time) int {
	total := s.ledger.ClosedTotal()
	if s.ledger.HasOpen() {
		total += s.timer.CurrentElapsed(now)
	}
	return total
}

// currentDateKey is the key the live ledger is attributed to. An open
// stretch keeps its start day's key across midnight.
func (s *TrackerService) currentDateKey(now time.Time) string {
	if s.dateKey == "" {
		s.dateKey = timefmt.DateKey(now)
	}
	return s.dateKey
}

// rebucket rolls the finished day into history when the calendar date
// moved on. A no-op unless Stopped, so an open session is never split at
// midnight. Called from Start and from the read paths, so a tracker left
// idle overnight reports the new day instead of yesterday's totals.
func (s *TrackerService) rebucket(now time.Time) {
	key := timefmt.DateKey(now)
	if s.dateKey == "" {
		s.dateKey = key
		return
	}
	if key == s.dateKey || s.timer.Phase != domain.PhaseStopped {
		return
	}
	if len(s.ledger.Sessions) > 0 {
		s.history[s.dateKey] = s.ledger.Record(s.ledger.ClosedTotal())
	}
	s.ledger = domain.Ledger{}
	s.timer = domain.NewTimer()
	s.dateKey = key
}
