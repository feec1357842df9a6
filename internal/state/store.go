package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/photowall/internal/wall"
)

// DefaultEventLimit bounds the recent-event history.
const DefaultEventLimit = 200

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Known     int
	Pending   int
	Committed int
	Failed    int

	Current      wall.Item
	CurrentPhase wall.Phase
	InFlight     bool

	Rows       int
	Columns    int
	CellWidth  float64
	CellHeight float64

	LastPoll            time.Time
	LastPollNew         int
	LastPollTotal       int
	LastError           error
	ConsecutiveFailures int // Number of consecutive poll failures

	Events []wall.Event
}

// IsOffline returns true when the list has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store accumulates coordinator events into a snapshot. It implements
// wall.Observer.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
	limit    int
}

var _ wall.Observer = (*Store)(nil)

// NewStore seeds the store with the persisted known count and grid shape.
func NewStore(known, rows, columns int) *Store {
	return &Store{
		snapshot: Snapshot{Known: known, Rows: rows, Columns: columns},
		limit:    DefaultEventLimit,
	}
}

// Observe folds one event into the snapshot.
func (s *Store) Observe(e wall.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := &s.snapshot
	switch e.Kind {
	case wall.EventPoll:
		snap.LastPoll = e.Time
		if e.Err != nil {
			snap.LastError = e.Err
			snap.ConsecutiveFailures++
			break
		}
		snap.LastError = nil
		snap.ConsecutiveFailures = 0
		snap.LastPollNew = e.New
		snap.LastPollTotal = e.Total
	case wall.EventPhase:
		s.applyPhase(e)
	case wall.EventResize:
		snap.Rows = e.Rows
		snap.CellWidth = e.CellWidth
		snap.CellHeight = e.CellHeight
	}

	limit := s.limit
	if limit <= 0 {
		limit = DefaultEventLimit
	}
	snap.Events = append(snap.Events, e)
	if over := len(snap.Events) - limit; over > 0 {
		snap.Events = append(snap.Events[:0:0], snap.Events[over:]...)
	}
}

func (s *Store) applyPhase(e wall.Event) {
	snap := &s.snapshot
	switch e.Phase {
	case wall.PhaseQueued:
		snap.Known++
		snap.Pending++
		return
	case wall.PhaseDownloading:
		if snap.Pending > 0 {
			snap.Pending--
		}
	case wall.PhaseCommitted:
		snap.Committed++
	case wall.PhaseFailed:
		snap.Failed++
	}
	snap.Current = e.Item
	snap.CurrentPhase = e.Phase
	snap.InFlight = !e.Phase.Terminal()
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	if len(s.snapshot.Events) > 0 {
		snap.Events = make([]wall.Event, len(s.snapshot.Events))
		copy(snap.Events, s.snapshot.Events)
	}
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}
