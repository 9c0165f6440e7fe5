package collection

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Store owns the in-memory cache for one collection kind. Reads are
// synchronous and never touch the network; writes replace the cache
// synchronously and hand the full snapshot to the coalescer, which persists
// it asynchronously through the gateway.
//
// All methods are safe for concurrent use.
type Store[T Item[T]] struct {
	kind string
	log  *slog.Logger
	now  func() time.Time

	mu       sync.Mutex
	items    []T
	revision int64 // base revision from the last hydrate or acked save
	stale    bool  // set when a save was rejected with ErrConflict

	co *coalescer[T]
}

// New creates a store for the given collection kind bound to the gateway.
// The store starts empty; call Hydrate before relying on Read.
func New[T Item[T]](kind string, gw Gateway[T], logger *slog.Logger) *Store[T] {
	s := &Store[T]{
		kind: kind,
		log:  logger,
		now:  func() time.Time { return time.Now().UTC() },
	}
	s.co = newCoalescer(kind, gw, logger, s.baseRevision, s.saveSettled)
	return s
}

// Kind returns the collection kind this store manages.
func (s *Store[T]) Kind() string { return s.kind }

// Read returns a copy of the current cache. It never blocks on I/O and may
// be empty or stale before the first hydration.
func (s *Store[T]) Read() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Get returns the item with the given id from the cache.
func (s *Store[T]) Get(id string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.ItemID() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Len returns the number of cached items.
func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Revision returns the base revision from the last hydrate or acked save.
func (s *Store[T]) Revision() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

// Stale reports whether a save was rejected because another writer updated
// the collection since the last hydrate. A fresh Hydrate clears it.
func (s *Store[T]) Stale() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stale
}

// Hydrate loads the collection from the gateway and replaces the cache
// wholesale, discarding any unsynced local mutations. Call it only at safe
// points (startup, explicit re-sync). On failure the cache is left untouched
// and the error is returned; there is no internal retry.
func (s *Store[T]) Hydrate(ctx context.Context) error {
	snap, err := s.co.gw.Load(ctx, s.kind)
	if err != nil {
		return fmt.Errorf("hydrate %s: %w", s.kind, err)
	}
	s.mu.Lock()
	s.items = snap.Items
	s.revision = snap.Revision
	s.stale = false
	s.mu.Unlock()
	return nil
}

// Write replaces the cache with the given items and requests asynchronous
// persistence. It always succeeds from the caller's point of view; remote
// durability is not awaited. The store takes its own copy of items.
func (s *Store[T]) Write(items []T) {
	cp := make([]T, len(items))
	copy(cp, items)

	s.mu.Lock()
	s.items = cp
	s.mu.Unlock()

	s.co.enqueue(cp)
}

// Add inserts the item into the collection, replacing any existing item with
// the same id so ids stay unique. It returns the stamped item.
func (s *Store[T]) Add(item T) T {
	s.mu.Lock()
	item = s.stamp(item)
	next := make([]T, 0, len(s.items)+1)
	replaced := false
	for _, it := range s.items {
		if it.ItemID() == item.ItemID() {
			next = append(next, item)
			replaced = true
			continue
		}
		next = append(next, it)
	}
	if !replaced {
		next = append(next, item)
	}
	s.items = next
	s.mu.Unlock()

	s.co.enqueue(next)
	return item
}

// Update applies fn to the item with the given id and writes the resulting
// snapshot. It returns ErrNotFound when no such item exists.
func (s *Store[T]) Update(id string, fn func(T) T) (T, error) {
	var zero T

	s.mu.Lock()
	idx := -1
	for i, it := range s.items {
		if it.ItemID() == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return zero, fmt.Errorf("update %s %q: %w", s.kind, id, ErrNotFound)
	}
	next := make([]T, len(s.items))
	copy(next, s.items)
	next[idx] = s.stamp(fn(next[idx]))
	updated := next[idx]
	s.items = next
	s.mu.Unlock()

	s.co.enqueue(next)
	return updated, nil
}

// Remove deletes the item with the given id. It reports whether the item
// existed; removing an unknown id does not enqueue a save.
func (s *Store[T]) Remove(id string) bool {
	s.mu.Lock()
	next := make([]T, 0, len(s.items))
	found := false
	for _, it := range s.items {
		if it.ItemID() == id {
			found = true
			continue
		}
		next = append(next, it)
	}
	if !found {
		s.mu.Unlock()
		return false
	}
	s.items = next
	s.mu.Unlock()

	s.co.enqueue(next)
	return true
}

// SetMany upserts the given items in one write: existing ids are replaced in
// place, new ids are appended in argument order.
func (s *Store[T]) SetMany(items []T) {
	if len(items) == 0 {
		return
	}

	s.mu.Lock()
	incoming := make(map[string]T, len(items))
	for _, it := range items {
		incoming[it.ItemID()] = s.stamp(it)
	}
	next := make([]T, 0, len(s.items)+len(items))
	for _, it := range s.items {
		if repl, ok := incoming[it.ItemID()]; ok {
			next = append(next, repl)
			delete(incoming, it.ItemID())
			continue
		}
		next = append(next, it)
	}
	for _, it := range items {
		if repl, ok := incoming[it.ItemID()]; ok {
			next = append(next, repl)
			delete(incoming, it.ItemID())
		}
	}
	s.items = next
	s.mu.Unlock()

	s.co.enqueue(next)
}

// Reset clears the cache and discards any pending snapshot. Used on logout.
func (s *Store[T]) Reset() {
	s.mu.Lock()
	s.items = nil
	s.revision = 0
	s.stale = false
	s.mu.Unlock()

	s.co.discard()
}

// Flush blocks until the coalescer has drained every pending snapshot or the
// context expires. It is the bounded-timeout half of teardown delivery.
func (s *Store[T]) Flush(ctx context.Context) error {
	return s.co.wait(ctx)
}

// PendingPayload takes any snapshot still sitting in the pending slot and
// returns it serialized for a best-effort courier delivery. The second
// return is false when nothing is pending.
func (s *Store[T]) PendingPayload() ([]byte, bool) {
	snap, ok := s.co.takePending()
	if !ok {
		return nil, false
	}
	data, err := json.Marshal(snap)
	if err != nil {
		s.log.Warn("failed to serialize pending snapshot", "kind", s.kind, "err", err)
		return nil, false
	}
	return data, true
}

// stamp sets the item's UpdatedAt, never moving it backwards. Callers must
// hold s.mu.
func (s *Store[T]) stamp(item T) T {
	t := s.now()
	if prev := item.ItemUpdatedAt(); prev.After(t) {
		t = prev
	}
	return item.WithUpdatedAt(t)
}

func (s *Store[T]) baseRevision() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

// saveSettled is invoked by the coalescer after each save attempt.
func (s *Store[T]) saveSettled(ack Ack, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case err == nil:
		s.revision = ack.Revision
		s.stale = false
	case isConflict(err):
		s.stale = true
	}
}

// Link attaches ref to the item with the given id. The item type must carry
// links (projects to voices, media items to episodes).
func Link[T interface {
	Item[T]
	Linkable[T]
}](s *Store[T], id, ref string) (T, error) {
	return s.Update(id, func(it T) T { return it.WithLink(ref) })
}

// Unlink removes ref from the item with the given id.
func Unlink[T interface {
	Item[T]
	Linkable[T]
}](s *Store[T], id, ref string) (T, error) {
	return s.Update(id, func(it T) T { return it.WithoutLink(ref) })
}
