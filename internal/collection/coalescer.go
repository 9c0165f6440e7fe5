package collection

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// coalescer serializes writes to the gateway for one collection kind. It
// keeps a single pending slot that each enqueue overwrites, so only the
// latest requested state ever reaches the network, and it guarantees at most
// one in-flight save at a time.
//
// Unlike its event-loop ancestors, the slot and the idle/draining state are
// guarded by a mutex: writers and the drain goroutine run preemptively.
type coalescer[T any] struct {
	kind string
	gw   Gateway[T]
	log  *slog.Logger

	// baseRevision supplies the revision a snapshot is derived from, read at
	// send time so an ack landing mid-queue is reflected in the next save.
	baseRevision func() int64
	// settled is invoked after every save attempt, success or failure.
	settled func(Ack, error)

	mu       sync.Mutex
	pending  *[]T
	draining bool
	waiters  []chan struct{}
}

func newCoalescer[T any](kind string, gw Gateway[T], logger *slog.Logger, baseRevision func() int64, settled func(Ack, error)) *coalescer[T] {
	return &coalescer[T]{
		kind:         kind,
		gw:           gw,
		log:          logger,
		baseRevision: baseRevision,
		settled:      settled,
	}
}

// enqueue overwrites the pending slot with the given items and starts the
// drain goroutine if one is not already running. When a drain is in flight,
// the new snapshot is picked up by its next iteration.
func (c *coalescer[T]) enqueue(items []T) {
	c.mu.Lock()
	c.pending = &items
	if c.draining {
		c.mu.Unlock()
		return
	}
	c.draining = true
	c.mu.Unlock()

	go c.drain()
}

// drain sends pending snapshots until the slot is empty, then goes idle.
// Save failures are logged and absorbed: the next write carries the full
// latest state, which repairs the gap on its own.
func (c *coalescer[T]) drain() {
	for {
		c.mu.Lock()
		taken := c.pending
		c.pending = nil
		if taken == nil {
			c.draining = false
			waiters := c.waiters
			c.waiters = nil
			c.mu.Unlock()
			for _, w := range waiters {
				close(w)
			}
			return
		}
		c.mu.Unlock()

		snap := Snapshot[T]{Items: *taken, Revision: c.baseRevision()}
		ack, err := c.gw.Save(context.Background(), c.kind, snap)
		c.settled(ack, err)
		switch {
		case err == nil:
			c.log.Debug("collection saved", "kind", c.kind, "items", len(snap.Items), "revision", ack.Revision)
		case isConflict(err):
			c.log.Warn("collection save rejected, remote has newer revision", "kind", c.kind, "base_revision", snap.Revision, "err", err)
		default:
			c.log.Warn("collection save failed", "kind", c.kind, "items", len(snap.Items), "err", err)
		}
	}
}

// wait blocks until the coalescer is idle with an empty slot, or the context
// expires.
func (c *coalescer[T]) wait(ctx context.Context) error {
	c.mu.Lock()
	if !c.draining && c.pending == nil {
		c.mu.Unlock()
		return nil
	}
	w := make(chan struct{})
	c.waiters = append(c.waiters, w)
	c.mu.Unlock()

	select {
	case <-w:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// takePending atomically removes and returns the pending snapshot, if any.
// An in-flight save is not affected.
func (c *coalescer[T]) takePending() (Snapshot[T], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		return Snapshot[T]{}, false
	}
	snap := Snapshot[T]{Items: *c.pending, Revision: c.baseRevision()}
	c.pending = nil
	return snap, true
}

// discard drops any pending snapshot without sending it.
func (c *coalescer[T]) discard() {
	c.mu.Lock()
	c.pending = nil
	c.mu.Unlock()
}

func isConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}
