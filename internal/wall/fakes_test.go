package wall

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/five82/photowall/internal/feed"
	"github.com/five82/photowall/internal/grid"
	"github.com/five82/photowall/internal/knownset"
	"github.com/five82/photowall/internal/kvstore"
	"github.com/five82/photowall/internal/surface"
)

// fakeFetcher serves a scripted list and image bytes per URL.
type fakeFetcher struct {
	mu       sync.Mutex
	list     []feed.Entry
	listErr  error
	failing  map[string]bool
	gates    map[string]chan struct{}
	inFlight int
	maxSeen  int
	fetched  []string
}

func newFakeFetcher(urls ...string) *fakeFetcher {
	f := &fakeFetcher{failing: map[string]bool{}, gates: map[string]chan struct{}{}}
	f.setList(urls...)
	return f
}

func (f *fakeFetcher) setList(urls ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.list = nil
	for _, u := range urls {
		f.list = append(f.list, feed.Entry{Name: "name-" + u, URL: u})
	}
}

func (f *fakeFetcher) FetchList(ctx context.Context) ([]feed.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]feed.Entry, len(f.list))
	copy(out, f.list)
	return out, nil
}

func (f *fakeFetcher) FetchImage(ctx context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.maxSeen {
		f.maxSeen = f.inFlight
	}
	f.fetched = append(f.fetched, url)
	gate := f.gates[url]
	fail := f.failing[url]
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if fail {
		return nil, &feed.ImageFetchError{URL: url, Err: errors.New("status 404")}
	}
	return []byte("img:" + url), nil
}

// fakeSurface records every call and completes animations immediately.
type fakeSurface struct {
	mu        sync.Mutex
	next      int
	parents   map[surface.Handle]surface.Handle
	poses     map[surface.Handle]surface.Pose
	captions  map[surface.Handle]string
	tweens    []surface.Tween
	grid      []surface.Handle
	destroyed []surface.Handle
	resizes   []grid.Geometry
	failOn    map[string]bool
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{
		parents:  map[surface.Handle]surface.Handle{},
		poses:    map[surface.Handle]surface.Pose{},
		captions: map[surface.Handle]string{},
		failOn:   map[string]bool{},
	}
}

func (s *fakeSurface) Root() surface.Handle { return "root" }
func (s *fakeSurface) Grid() surface.Handle { return "grid" }

func (s *fakeSurface) CreateElement(parent surface.Handle) (surface.Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failOn["create"] {
		return "", errors.New("no canvas")
	}
	s.next++
	h := surface.Handle(fmt.Sprintf("el-%d", s.next))
	s.parents[h] = parent
	s.poses[h] = surface.Neutral
	return h, nil
}

func (s *fakeSurface) SetImage(h surface.Handle, image []byte) error { return nil }

func (s *fakeSurface) SetCaption(h surface.Handle, caption string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.captions[h] = caption
	return nil
}

func (s *fakeSurface) SetPose(h surface.Handle, pose surface.Pose) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.poses[h] = pose
	return nil
}

func (s *fakeSurface) AnimateTo(h surface.Handle, tw surface.Tween) (surface.Done, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failOn["animate"] {
		return nil, errors.New("animation rejected")
	}
	s.tweens = append(s.tweens, tw)
	pose := s.poses[h]
	if tw.Channels&surface.ChannelPosition != 0 {
		pose.Position = tw.Target.Position
	}
	if tw.Channels&surface.ChannelScale != 0 {
		pose.Scale = tw.Target.Scale
	}
	s.poses[h] = pose
	return surface.Completed(), nil
}

func (s *fakeSurface) Reparent(h surface.Handle, parent surface.Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parents[h] = parent
	if parent == "grid" {
		s.grid = append(s.grid, h)
	}
	return nil
}

func (s *fakeSurface) Destroy(h surface.Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.destroyed = append(s.destroyed, h)
	delete(s.parents, h)
	return nil
}

func (s *fakeSurface) ResizeGrid(g grid.Geometry, d time.Duration) (surface.Done, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resizes = append(s.resizes, g)
	// Never completes: the processor must not wait on it.
	return make(chan struct{}), nil
}

// blockingClock never fires, so the settle pause only ends on cancellation.
type blockingClock struct{}

func (blockingClock) Now() time.Time                         { return time.Unix(0, 0) }
func (blockingClock) After(d time.Duration) <-chan time.Time { return make(chan time.Time) }

// recorder collects events.
type recorder struct {
	mu     sync.Mutex
	events []Event
	notify chan Event
}

func newRecorder() *recorder {
	return &recorder{notify: make(chan Event, 256)}
}

func (r *recorder) Observe(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
	select {
	case r.notify <- e:
	default:
	}
}

func (r *recorder) phases() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, e := range r.events {
		if e.Kind == EventPhase {
			out = append(out, e)
		}
	}
	return out
}

func (r *recorder) kind(kind EventKind) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, e := range r.events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func (r *recorder) waitFor(t *testing.T, match func(Event) bool) {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case e := <-r.notify:
			if match(e) {
				return
			}
		case <-timeout:
			t.Fatalf("timed out waiting for event")
		}
	}
}

type harness struct {
	coord   *Coordinator
	fetcher *fakeFetcher
	surface *fakeSurface
	layout  *grid.Layout
	known   *knownset.Set
	events  *recorder
}

func newHarness(t *testing.T, fetcher *fakeFetcher, mutate func(*Options)) *harness {
	t.Helper()
	known, err := knownset.Load(kvstore.NewMemory(), knownset.Options{})
	if err != nil {
		t.Fatalf("knownset.Load: %v", err)
	}
	h := &harness{
		fetcher: fetcher,
		surface: newFakeSurface(),
		layout:  grid.NewLayout(9, grid.Size{Width: 1920, Height: 1080}, 10),
		known:   known,
		events:  newRecorder(),
	}
	opts := Options{
		Fetcher:    fetcher,
		Known:      known,
		Surface:    h.surface,
		Layout:     h.layout,
		RevealSize: 540,
		Observer:   h.events,
	}
	if mutate != nil {
		mutate(&opts)
	}
	coord, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	h.coord = coord
	return h
}

// pollAndDrain polls once and waits for the processor to go idle.
func (h *harness) pollAndDrain(t *testing.T) PollResult {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res, err := h.coord.Poll(ctx)
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if err := h.coord.WaitIdle(ctx); err != nil {
		t.Fatalf("WaitIdle: %v", err)
	}
	return res
}

func committedURLs(items []DisplayItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.URL
	}
	return out
}
