package wall

import (
	"context"
	"time"

	"github.com/five82/photowall/internal/feed"
	"github.com/five82/photowall/internal/surface"
)

// Phase is a position in an item's display state machine.
type Phase string

const (
	PhaseQueued      Phase = "queued"
	PhaseDownloading Phase = "downloading"
	PhaseRevealed    Phase = "revealed"
	PhaseSettling    Phase = "settling"
	PhaseCommitted   Phase = "committed"
	PhaseFailed      Phase = "failed"
)

// Terminal reports whether no further transitions follow p.
func (p Phase) Terminal() bool {
	return p == PhaseCommitted || p == PhaseFailed
}

// Item is a discovered entry waiting in the presentation queue.
type Item struct {
	ID      string
	URL     string
	Caption string
}

// DisplayItem is an item that has been committed into the grid.
type DisplayItem struct {
	Item
	Handle    surface.Handle
	Image     []byte
	GridIndex int
}

// EventKind classifies coordinator events.
type EventKind string

const (
	EventPhase  EventKind = "phase"
	EventPoll   EventKind = "poll"
	EventResize EventKind = "resize"
)

// Event is emitted to the Observer on every poll, phase transition and grid
// resize.
type Event struct {
	Time  time.Time
	Kind  EventKind
	Item  Item
	Phase Phase
	Err   error

	// Poll events.
	New   int
	Total int

	// Resize events.
	Rows       int
	CellWidth  float64
	CellHeight float64
}

// Observer receives coordinator events. Implementations must not block.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) Observe(e Event) { f(e) }

// Fetcher is the transport the coordinator polls and downloads through.
type Fetcher interface {
	FetchList(ctx context.Context) ([]feed.Entry, error)
	FetchImage(ctx context.Context, url string) ([]byte, error)
}

// KnownSet records identifiers that have ever been discovered.
type KnownSet interface {
	Observe(url string) (id string, added bool, err error)
	Len() int
}

// Clock abstracts time for the settle pause.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) Now() time.Time                         { return time.Now() }
func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }
