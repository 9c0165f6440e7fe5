package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"sort"
	"time"

	"github.com/quillcast/reel/internal/model"
	"github.com/quillcast/reel/internal/store"
)

// mockStore is an in-memory store.Store for handler tests.
type mockStore struct {
	collections map[model.Kind]*model.CollectionRecord
	tickets     map[string]*model.Ticket

	// replaceErr, when non-nil, is returned by ReplaceCollection.
	replaceErr error
}

func newMockStore() *mockStore {
	return &mockStore{
		collections: make(map[model.Kind]*model.CollectionRecord),
		tickets:     make(map[string]*model.Ticket),
	}
}

func (m *mockStore) GetCollection(_ context.Context, kind model.Kind) (*model.CollectionRecord, error) {
	rec, ok := m.collections[kind]
	if !ok {
		return &model.CollectionRecord{Kind: kind, Revision: 0, Items: json.RawMessage(`[]`)}, nil
	}
	clone := *rec
	return &clone, nil
}

func (m *mockStore) ReplaceCollection(_ context.Context, kind model.Kind, items json.RawMessage, baseRevision int64) (*model.CollectionRecord, error) {
	if m.replaceErr != nil {
		return nil, m.replaceErr
	}
	var current int64
	if rec, ok := m.collections[kind]; ok {
		current = rec.Revision
	}
	if baseRevision != current {
		return nil, &store.ConflictError{Kind: kind, Base: baseRevision, Current: current}
	}
	rec := &model.CollectionRecord{
		Kind:      kind,
		Revision:  current + 1,
		Items:     items,
		UpdatedAt: time.Now().UTC(),
	}
	m.collections[kind] = rec
	clone := *rec
	return &clone, nil
}

func (m *mockStore) ForceReplaceCollection(_ context.Context, kind model.Kind, items json.RawMessage) (*model.CollectionRecord, error) {
	var current int64
	if rec, ok := m.collections[kind]; ok {
		current = rec.Revision
	}
	rec := &model.CollectionRecord{
		Kind:      kind,
		Revision:  current + 1,
		Items:     items,
		UpdatedAt: time.Now().UTC(),
	}
	m.collections[kind] = rec
	clone := *rec
	return &clone, nil
}

func (m *mockStore) ListCollections(_ context.Context) ([]*model.CollectionRecord, error) {
	var out []*model.CollectionRecord
	for _, rec := range m.collections {
		clone := *rec
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out, nil
}

func (m *mockStore) CreateTicket(_ context.Context, ticket *model.Ticket) error {
	m.tickets[ticket.ID] = ticket
	return nil
}

func (m *mockStore) GetTicket(_ context.Context, id string) (*model.Ticket, error) {
	t, ok := m.tickets[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *t
	return &clone, nil
}

func (m *mockStore) ListTickets(_ context.Context, status model.TicketStatus) ([]*model.Ticket, error) {
	var out []*model.Ticket
	for _, t := range m.tickets {
		if status != "" && t.Status != status {
			continue
		}
		clone := *t
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockStore) UpdateTicket(_ context.Context, ticket *model.Ticket) error {
	if _, ok := m.tickets[ticket.ID]; !ok {
		return sql.ErrNoRows
	}
	m.tickets[ticket.ID] = ticket
	return nil
}

func (m *mockStore) CloseTicket(_ context.Context, id string) (*model.Ticket, error) {
	t, ok := m.tickets[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	now := time.Now().UTC()
	t.Status = model.TicketClosed
	t.ClosedAt = &now
	t.UpdatedAt = now
	clone := *t
	return &clone, nil
}

func (m *mockStore) DeleteTicket(_ context.Context, id string) error {
	if _, ok := m.tickets[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.tickets, id)
	return nil
}

func (m *mockStore) Close() error { return nil }
