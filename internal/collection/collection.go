// Package collection implements the client-side persistence layer for the
// studio's synchronized collections: an in-memory cache per collection kind
// with synchronous reads, write-through to a remote gateway with coalescing,
// and a best-effort flush on process teardown.
package collection

import (
	"context"
	"errors"
	"time"
)

// Item is the constraint for entities managed by a Store. Implementations
// are value types; WithUpdatedAt returns a stamped copy.
type Item[T any] interface {
	ItemID() string
	ItemUpdatedAt() time.Time
	WithUpdatedAt(time.Time) T
}

// Linkable is implemented by items that carry references to entities in
// other collections (a project's voices, a media item's episodes).
type Linkable[T any] interface {
	WithLink(ref string) T
	WithoutLink(ref string) T
}

// Snapshot is the entire collection value at one instant. The gateway always
// receives full replacements, never diffs. Revision is the base revision the
// snapshot was derived from; the backend uses it to detect concurrent writers.
type Snapshot[T any] struct {
	Items    []T   `json:"items"`
	Revision int64 `json:"revision"`
}

// Ack is the gateway's acknowledgment of a successful save.
type Ack struct {
	Revision int64 `json:"revision"`
}

// Gateway is the remote durable store for one or more collection kinds.
// Implementations own their call timeouts; the store imposes none.
type Gateway[T any] interface {
	Load(ctx context.Context, kind string) (Snapshot[T], error)
	Save(ctx context.Context, kind string, snap Snapshot[T]) (Ack, error)
}

// ErrNotFound is returned by mutation helpers referencing an unknown item.
var ErrNotFound = errors.New("item not found")

// ErrConflict is returned by a Gateway.Save when the snapshot's base
// revision no longer matches the backend's current revision, meaning
// another writer saved in between.
var ErrConflict = errors.New("snapshot revision conflict")
