package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/quillcast/reel/internal/model"
)

// ErrRevisionConflict is returned by ReplaceCollection when the caller's base
// revision no longer matches the stored revision.
var ErrRevisionConflict = errors.New("collection revision conflict")

// ConflictError carries the revisions involved in a rejected replace. It
// unwraps to ErrRevisionConflict.
type ConflictError struct {
	Kind    model.Kind
	Base    int64
	Current int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("collection %s: revision conflict: base %d, current %d", e.Kind, e.Base, e.Current)
}

func (e *ConflictError) Unwrap() error { return ErrRevisionConflict }

// Store defines the persistence interface for the reel backend.
type Store interface {
	// Collections. A kind that has never been saved reads back as an empty
	// snapshot at revision 0.
	GetCollection(ctx context.Context, kind model.Kind) (*model.CollectionRecord, error)
	// ReplaceCollection stores the full snapshot when baseRevision matches
	// the current revision, bumping it by one. A stale base yields a
	// ConflictError.
	ReplaceCollection(ctx context.Context, kind model.Kind, items json.RawMessage, baseRevision int64) (*model.CollectionRecord, error)
	// ForceReplaceCollection stores the snapshot regardless of revision.
	// Used by the best-effort teardown flush path.
	ForceReplaceCollection(ctx context.Context, kind model.Kind, items json.RawMessage) (*model.CollectionRecord, error)
	ListCollections(ctx context.Context) ([]*model.CollectionRecord, error)

	// Ticket CRUD
	CreateTicket(ctx context.Context, ticket *model.Ticket) error
	GetTicket(ctx context.Context, id string) (*model.Ticket, error)
	ListTickets(ctx context.Context, status model.TicketStatus) ([]*model.Ticket, error)
	UpdateTicket(ctx context.Context, ticket *model.Ticket) error
	CloseTicket(ctx context.Context, id string) (*model.Ticket, error)
	DeleteTicket(ctx context.Context, id string) error

	// Lifecycle
	Close() error
}
