// Package wall discovers new entries on a remote list and presents them one at
// a time: each image is downloaded, revealed at the center of the viewport,
// held briefly and then moved into the next grid cell. The Coordinator owns
// the poll loop, the presentation queue and the processing gate.
package wall

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/five82/photowall/internal/grid"
	"github.com/five82/photowall/internal/surface"
)

var (
	// ErrRunning is returned by Start when the coordinator is already running.
	ErrRunning = errors.New("coordinator already running")
	// ErrStopped is returned by Start after Stop.
	ErrStopped = errors.New("coordinator stopped")
)

const (
	defaultPollInterval   = 10 * time.Second
	defaultRevealDuration = 600 * time.Millisecond
	defaultMoveDuration   = 600 * time.Millisecond
	defaultRevealSize     = 540.0
)

// Options configure a Coordinator. Fetcher, Known, Surface and Layout are
// required. Zero animation and pause durations complete immediately.
type Options struct {
	Fetcher Fetcher
	Known   KnownSet
	Surface surface.Surface
	Layout  *grid.Layout

	PollInterval   time.Duration
	InitialDelay   time.Duration
	RevealDuration time.Duration
	SettleDuration time.Duration
	MoveDuration   time.Duration
	ResizeDuration time.Duration
	RevealSize     float64

	Clock    Clock
	Observer Observer
	Logger   *slog.Logger
}

// Coordinator runs the poller and the sequential processor.
type Coordinator struct {
	opts   Options
	clock  Clock
	logger *slog.Logger

	mu         sync.Mutex
	queue      *queue
	processing bool
	idle       chan struct{}
	committed  []DisplayItem
	running    bool
	stopped    bool
	cancel     context.CancelFunc

	wg sync.WaitGroup
}

// New validates opts and returns an idle coordinator.
func New(opts Options) (*Coordinator, error) {
	switch {
	case opts.Fetcher == nil:
		return nil, errors.New("wall: fetcher is required")
	case opts.Known == nil:
		return nil, errors.New("wall: known set is required")
	case opts.Surface == nil:
		return nil, errors.New("wall: surface is required")
	case opts.Layout == nil:
		return nil, errors.New("wall: layout is required")
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	if opts.RevealDuration < 0 {
		opts.RevealDuration = defaultRevealDuration
	}
	if opts.MoveDuration < 0 {
		opts.MoveDuration = defaultMoveDuration
	}
	if opts.SettleDuration < 0 {
		opts.SettleDuration = 0
	}
	if opts.ResizeDuration < 0 {
		opts.ResizeDuration = 0
	}
	if opts.RevealSize <= 0 {
		opts.RevealSize = defaultRevealSize
	}

	clock := opts.Clock
	if clock == nil {
		clock = realClock{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	idle := make(chan struct{})
	close(idle)
	return &Coordinator{
		opts:   opts,
		clock:  clock,
		logger: logger,
		queue:  newQueue(),
		idle:   idle,
	}, nil
}

// Start launches the poll loop. Processing started by the loop stops when Stop
// is called or ctx is cancelled.
func (c *Coordinator) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return ErrStopped
	}
	if c.running {
		return ErrRunning
	}
	runCtx, cancel := context.WithCancel(ctx)
	c.running = true
	c.cancel = cancel

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.pollLoop(runCtx)
	}()
	return nil
}

// Stop cancels the poll loop and any in-flight presentation, then waits for
// both to return. It is safe to call more than once.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	c.stopped = true
	cancel := c.cancel
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	c.wg.Wait()
}

// WaitIdle blocks until the processor has drained the queue or ctx is done.
func (c *Coordinator) WaitIdle(ctx context.Context) error {
	c.mu.Lock()
	idle := c.idle
	c.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Committed returns the items placed in the grid, in grid order.
func (c *Coordinator) Committed() []DisplayItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]DisplayItem, len(c.committed))
	copy(out, c.committed)
	return out
}

// Queued returns the items waiting to be presented.
func (c *Coordinator) Queued() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queue.snapshot()
}

// Processing reports whether the sequential processor is active.
func (c *Coordinator) Processing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.processing
}

// kick starts the processor unless it is already running or there is nothing
// to do. The check and the gate update happen under one lock.
func (c *Coordinator) kick(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped || c.processing || c.queue.len() == 0 || ctx.Err() != nil {
		return
	}
	c.processing = true
	c.idle = make(chan struct{})

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.process(ctx)
	}()
}

func (c *Coordinator) emit(e Event) {
	if c.opts.Observer == nil {
		return
	}
	if e.Time.IsZero() {
		e.Time = c.clock.Now()
	}
	c.opts.Observer.Observe(e)
}
