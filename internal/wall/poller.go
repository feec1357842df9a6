package wall

import (
	"context"
	"errors"
	"time"

	"github.com/five82/photowall/internal/knownset"
)

// PollResult summarizes one poll of the remote list.
type PollResult struct {
	Total int
	New   int
}

func (c *Coordinator) pollLoop(ctx context.Context) {
	logger := c.logger.With("component", "poller")

	if d := c.opts.InitialDelay; d > 0 {
		timer := time.NewTimer(d)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}

	ticker := time.NewTicker(c.opts.PollInterval)
	defer ticker.Stop()

	for {
		if _, err := c.Poll(ctx); err != nil && ctx.Err() == nil {
			logger.Debug("poll tick failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Poll fetches the remote list once, records every unseen entry in the known
// set and appends it to the presentation queue, then starts the processor if
// it is idle. A list fetch error aborts this poll only. Processing started
// here runs under ctx.
func (c *Coordinator) Poll(ctx context.Context) (PollResult, error) {
	logger := c.logger.With("component", "poller")

	entries, err := c.opts.Fetcher.FetchList(ctx)
	if err != nil {
		logger.Warn("list fetch failed", "error", err)
		c.emit(Event{Kind: EventPoll, Err: err})
		return PollResult{}, err
	}

	result := PollResult{Total: len(entries)}
	for _, entry := range entries {
		id, added, err := c.opts.Known.Observe(entry.URL)
		if id == "" {
			logger.Debug("skipping entry without url", "name", entry.Name)
			continue
		}
		if !added {
			continue
		}
		var perr *knownset.PersistenceError
		if errors.As(err, &perr) {
			// Membership is already recorded in memory; presentation proceeds.
			logger.Warn("presenting unpersisted entry", "id", id, "key", perr.Key)
		}

		item := Item{ID: id, URL: entry.URL, Caption: entry.Caption()}
		c.mu.Lock()
		queued := c.queue.push(item)
		c.mu.Unlock()
		if !queued {
			continue
		}
		result.New++
		c.emit(Event{Kind: EventPhase, Item: item, Phase: PhaseQueued})
	}

	if result.New > 0 {
		logger.Info("new entries found", "new", result.New, "total", result.Total, "known", c.opts.Known.Len())
	} else {
		logger.Debug("no new entries", "total", result.Total)
	}
	c.emit(Event{Kind: EventPoll, New: result.New, Total: result.Total})

	c.kick(ctx)
	return result, nil
}
