package scene

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/five82/photowall/internal/grid"
	"github.com/five82/photowall/internal/surface"
)

const (
	rootHandle surface.Handle = "root"
	gridHandle surface.Handle = "grid"

	defaultFPS = 30
)

// Options configure a Scene.
type Options struct {
	Viewport   grid.Size
	Geometry   grid.Geometry
	RevealSize grid.Size
	Now        func() time.Time
	Logger     *slog.Logger
}

type element struct {
	handle  surface.Handle
	parent  surface.Handle
	pose    surface.Pose
	image   []byte
	caption string
	tweens  []*tween
}

type tween struct {
	channels surface.Channel
	from     surface.Pose
	to       surface.Pose
	start    time.Time
	duration time.Duration
	ease     surface.Easing
	done     chan struct{}
}

type gridTween struct {
	from     grid.Geometry
	to       grid.Geometry
	start    time.Time
	duration time.Duration
	done     chan struct{}
}

// Scene is an in-memory render surface. Tweens progress only when Advance is
// called, either by Run's frame ticker or directly from tests.
type Scene struct {
	mu sync.Mutex

	now        func() time.Time
	logger     *slog.Logger
	viewport   grid.Size
	container  grid.Transform
	revealSize grid.Size

	elements map[surface.Handle]*element
	children []surface.Handle

	geometry  grid.Geometry
	resize    *gridTween
	lastFrame time.Time
}

var _ surface.Surface = (*Scene)(nil)

// New builds an empty scene with root and grid containers.
func New(opts Options) *Scene {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Scene{
		now:        now,
		logger:     logger.With("component", "scene"),
		viewport:   opts.Viewport,
		container:  grid.TopLeft(opts.Viewport),
		revealSize: opts.RevealSize,
		elements:   make(map[surface.Handle]*element),
		geometry:   opts.Geometry,
	}
}

// Root is the free-floating canvas centered on the viewport.
func (s *Scene) Root() surface.Handle { return rootHandle }

// Grid is the container committed items live in.
func (s *Scene) Grid() surface.Handle { return gridHandle }

func (s *Scene) CreateElement(parent surface.Handle) (surface.Handle, error) {
	if !isContainer(parent) {
		return "", fmt.Errorf("unknown parent %q", parent)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	h := surface.Handle(uuid.NewString())
	s.elements[h] = &element{handle: h, parent: parent, pose: surface.Neutral}
	if parent == gridHandle {
		s.children = append(s.children, h)
	}
	return h, nil
}

func (s *Scene) SetImage(h surface.Handle, image []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	el, err := s.lookup(h)
	if err != nil {
		return err
	}
	el.image = image
	return nil
}

func (s *Scene) SetCaption(h surface.Handle, caption string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	el, err := s.lookup(h)
	if err != nil {
		return err
	}
	el.caption = caption
	return nil
}

// SetPose jumps to pose. Running tweens on the element complete immediately.
func (s *Scene) SetPose(h surface.Handle, pose surface.Pose) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	el, err := s.lookup(h)
	if err != nil {
		return err
	}
	for _, tw := range el.tweens {
		close(tw.done)
	}
	el.tweens = nil
	el.pose = pose
	return nil
}

// AnimateTo starts a tween from the element's current pose. A running tween
// on an overlapping channel is finished at its target first.
func (s *Scene) AnimateTo(h surface.Handle, tw surface.Tween) (surface.Done, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	el, err := s.lookup(h)
	if err != nil {
		return nil, err
	}
	channels := tw.Channels
	if channels == 0 {
		channels = surface.ChannelAll
	}

	kept := el.tweens[:0]
	for _, running := range el.tweens {
		if running.channels&channels != 0 {
			el.pose = apply(el.pose, running.to, running.channels)
			close(running.done)
			continue
		}
		kept = append(kept, running)
	}
	el.tweens = kept

	if tw.Duration <= 0 {
		el.pose = apply(el.pose, tw.Target, channels)
		return surface.Completed(), nil
	}

	ease := tw.Easing
	if ease == nil {
		ease = surface.Linear
	}
	next := &tween{
		channels: channels,
		from:     el.pose,
		to:       tw.Target,
		start:    s.now(),
		duration: tw.Duration,
		ease:     ease,
		done:     make(chan struct{}),
	}
	el.tweens = append(el.tweens, next)
	return next.done, nil
}

// Reparent moves an element between containers, keeping its pose.
func (s *Scene) Reparent(h surface.Handle, parent surface.Handle) error {
	if !isContainer(parent) {
		return fmt.Errorf("unknown parent %q", parent)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	el, err := s.lookup(h)
	if err != nil {
		return err
	}
	if el.parent == parent {
		return nil
	}
	if el.parent == gridHandle {
		s.removeChild(h)
	}
	el.parent = parent
	if parent == gridHandle {
		s.children = append(s.children, h)
	}
	return nil
}

// Destroy removes an element. Waiters on its tweens are released.
func (s *Scene) Destroy(h surface.Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	el, err := s.lookup(h)
	if err != nil {
		return err
	}
	for _, tw := range el.tweens {
		close(tw.done)
	}
	if el.parent == gridHandle {
		s.removeChild(h)
	}
	delete(s.elements, h)
	return nil
}

// ResizeGrid interpolates cell width/height toward geometry. Columns and
// spacing switch immediately.
func (s *Scene) ResizeGrid(geometry grid.Geometry, d time.Duration) (surface.Done, error) {
	if geometry.Columns < 1 {
		return nil, fmt.Errorf("grid geometry needs at least one column")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.resize != nil {
		s.geometry = s.resize.to
		close(s.resize.done)
		s.resize = nil
	}
	s.geometry.Columns = geometry.Columns
	s.geometry.Spacing = geometry.Spacing
	if d <= 0 {
		s.geometry = geometry
		return surface.Completed(), nil
	}
	s.resize = &gridTween{
		from:     s.geometry,
		to:       geometry,
		start:    s.now(),
		duration: d,
		done:     make(chan struct{}),
	}
	s.logger.Debug("grid resize started",
		"cell_width", geometry.CellWidth,
		"cell_height", geometry.CellHeight,
		"duration", d)
	return s.resize.done, nil
}

// Advance steps every running tween to now and completes finished ones.
func (s *Scene) Advance(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastFrame = now

	for _, el := range s.elements {
		if len(el.tweens) == 0 {
			continue
		}
		kept := el.tweens[:0]
		for _, tw := range el.tweens {
			elapsed := now.Sub(tw.start)
			if elapsed >= tw.duration {
				el.pose = apply(el.pose, tw.to, tw.channels)
				close(tw.done)
				continue
			}
			p := tw.ease(float64(elapsed) / float64(tw.duration))
			el.pose = apply(el.pose, interpolate(tw.from, tw.to, p), tw.channels)
			kept = append(kept, tw)
		}
		el.tweens = kept
	}

	if rs := s.resize; rs != nil {
		elapsed := now.Sub(rs.start)
		if elapsed >= rs.duration {
			s.geometry = rs.to
			close(rs.done)
			s.resize = nil
		} else {
			p := float64(elapsed) / float64(rs.duration)
			s.geometry.CellWidth = surface.Lerp(rs.from.CellWidth, rs.to.CellWidth, p)
			s.geometry.CellHeight = surface.Lerp(rs.from.CellHeight, rs.to.CellHeight, p)
		}
	}
}

// Run advances the scene at fps frames per second until ctx is done.
func (s *Scene) Run(ctx context.Context, fps int) {
	if fps <= 0 {
		fps = defaultFPS
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Advance(s.now())
		}
	}
}

func (s *Scene) lookup(h surface.Handle) (*element, error) {
	el, ok := s.elements[h]
	if !ok {
		return nil, fmt.Errorf("unknown element %q", h)
	}
	return el, nil
}

func (s *Scene) removeChild(h surface.Handle) {
	for i, child := range s.children {
		if child == h {
			s.children = append(s.children[:i], s.children[i+1:]...)
			return
		}
	}
}

func isContainer(h surface.Handle) bool {
	return h == rootHandle || h == gridHandle
}

func apply(current, target surface.Pose, channels surface.Channel) surface.Pose {
	if channels&surface.ChannelPosition != 0 {
		current.Position = target.Position
	}
	if channels&surface.ChannelScale != 0 {
		current.Scale = target.Scale
	}
	return current
}

func interpolate(from, to surface.Pose, p float64) surface.Pose {
	return surface.Pose{
		Position: grid.Point{
			X: surface.Lerp(from.Position.X, to.Position.X, p),
			Y: surface.Lerp(from.Position.Y, to.Position.Y, p),
		},
		Scale: surface.Lerp(from.Scale, to.Scale, p),
	}
}
