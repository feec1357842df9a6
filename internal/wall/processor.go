package wall

import (
	"context"
	"fmt"
	"math"

	"github.com/five82/photowall/internal/grid"
	"github.com/five82/photowall/internal/surface"
)

// process is the single consumer of the queue. It presents one item at a time
// and clears the processing gate when the queue is empty.
func (c *Coordinator) process(ctx context.Context) {
	logger := c.logger.With("component", "processor")
	for {
		c.mu.Lock()
		// Cancellation is checked before pop so an item leaves the queue
		// only when it will be presented.
		if err := ctx.Err(); err != nil {
			pending := c.queue.len()
			c.processing = false
			close(c.idle)
			c.mu.Unlock()
			logger.Debug("processor stopped", "pending", pending, "error", err)
			return
		}
		item, ok := c.queue.pop()
		if !ok {
			c.processing = false
			close(c.idle)
			c.mu.Unlock()
			return
		}
		c.mu.Unlock()

		c.present(ctx, item)
	}
}

// present drives one item through Downloading, Revealed, Settling and
// Committed. Any failure moves it to Failed; it stays known and is not retried.
func (c *Coordinator) present(ctx context.Context, item Item) {
	logger := c.logger.With("component", "processor", "id", item.ID)
	transition := func(phase Phase, err error) {
		logger.Debug("phase", "phase", string(phase))
		c.emit(Event{Kind: EventPhase, Item: item, Phase: phase, Err: err})
	}

	transition(PhaseDownloading, nil)
	image, err := c.opts.Fetcher.FetchImage(ctx, item.URL)
	if err != nil {
		logger.Warn("image fetch failed", "url", item.URL, "error", err)
		transition(PhaseFailed, err)
		return
	}

	handle, err := c.reveal(ctx, item, image)
	if err != nil {
		c.discard(handle)
		logger.Warn("reveal failed", "url", item.URL, "error", err)
		transition(PhaseFailed, err)
		return
	}
	transition(PhaseRevealed, nil)

	transition(PhaseSettling, nil)
	if err := c.settle(ctx); err != nil {
		c.discard(handle)
		transition(PhaseFailed, err)
		return
	}

	if err := c.commit(ctx, item, handle, image); err != nil {
		c.discard(handle)
		logger.Warn("commit failed", "url", item.URL, "error", err)
		transition(PhaseFailed, err)
		return
	}
	transition(PhaseCommitted, nil)
}

// reveal creates the element at the viewport center at zero scale and grows
// it to full size.
func (c *Coordinator) reveal(ctx context.Context, item Item, image []byte) (surface.Handle, error) {
	s := c.opts.Surface
	handle, err := s.CreateElement(s.Root())
	if err != nil {
		return "", fmt.Errorf("create element: %w", err)
	}
	if err := s.SetImage(handle, image); err != nil {
		return handle, fmt.Errorf("set image: %w", err)
	}
	if err := s.SetCaption(handle, item.Caption); err != nil {
		return handle, fmt.Errorf("set caption: %w", err)
	}
	if err := s.SetPose(handle, surface.Pose{Scale: 0}); err != nil {
		return handle, fmt.Errorf("set pose: %w", err)
	}
	done, err := s.AnimateTo(handle, surface.Tween{
		Target:   surface.Pose{Scale: 1},
		Channels: surface.ChannelScale,
		Duration: c.opts.RevealDuration,
		Easing:   surface.OutBack,
	})
	if err != nil {
		return handle, fmt.Errorf("animate reveal: %w", err)
	}
	return handle, wait(ctx, done)
}

func (c *Coordinator) settle(ctx context.Context) error {
	d := c.opts.SettleDuration
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-c.clock.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// commit moves and scales the element into the next cell at the same time,
// then hands it to the grid container and lets the layout decide whether the
// cells must shrink.
func (c *Coordinator) commit(ctx context.Context, item Item, handle surface.Handle, image []byte) error {
	s := c.opts.Surface
	layout := c.opts.Layout

	c.mu.Lock()
	index := len(c.committed)
	c.mu.Unlock()

	target := surface.Pose{
		Position: layout.Target(index),
		Scale:    fitScale(layout.Geometry(), c.opts.RevealSize),
	}
	move, err := s.AnimateTo(handle, surface.Tween{
		Target:   target,
		Channels: surface.ChannelPosition,
		Duration: c.opts.MoveDuration,
		Easing:   surface.InOutQuad,
	})
	if err != nil {
		return fmt.Errorf("animate move: %w", err)
	}
	scale, err := s.AnimateTo(handle, surface.Tween{
		Target:   target,
		Channels: surface.ChannelScale,
		Duration: c.opts.MoveDuration,
		Easing:   surface.OutBack,
	})
	if err != nil {
		return fmt.Errorf("animate scale: %w", err)
	}
	if err := wait(ctx, surface.Join(move, scale)); err != nil {
		return err
	}

	if err := s.Reparent(handle, s.Grid()); err != nil {
		return fmt.Errorf("reparent: %w", err)
	}
	if err := s.SetPose(handle, surface.Neutral); err != nil {
		return fmt.Errorf("reset pose: %w", err)
	}

	c.mu.Lock()
	c.committed = append(c.committed, DisplayItem{
		Item:      item,
		Handle:    handle,
		Image:     image,
		GridIndex: index,
	})
	count := len(c.committed)
	c.mu.Unlock()

	if geometry, changed := layout.Commit(count); changed {
		c.resize(geometry, layout.Rows())
	}
	return nil
}

// resize starts the cell-size tween without waiting for it.
func (c *Coordinator) resize(geometry grid.Geometry, rows int) {
	logger := c.logger.With("component", "processor")
	if _, err := c.opts.Surface.ResizeGrid(geometry, c.opts.ResizeDuration); err != nil {
		logger.Error("grid resize failed", "rows", rows, "error", err)
		return
	}
	logger.Info("grid resized", "rows", rows, "cell_width", geometry.CellWidth, "cell_height", geometry.CellHeight)
	c.emit(Event{Kind: EventResize, Rows: rows, CellWidth: geometry.CellWidth, CellHeight: geometry.CellHeight})
}

func (c *Coordinator) discard(handle surface.Handle) {
	if handle == "" {
		return
	}
	if err := c.opts.Surface.Destroy(handle); err != nil {
		c.logger.Debug("destroy element failed", "component", "processor", "handle", string(handle), "error", err)
	}
}

// fitScale is the scale that fits a square reveal of side size inside the
// cell.
func fitScale(g grid.Geometry, size float64) float64 {
	if size <= 0 {
		return 1
	}
	return math.Min(g.CellWidth/size, g.CellHeight/size)
}

func wait(ctx context.Context, done surface.Done) error {
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
