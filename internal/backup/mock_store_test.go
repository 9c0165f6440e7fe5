package backup

import (
	"context"
	"database/sql"
	"encoding/json"
	"sort"
	"time"

	"github.com/quillcast/reel/internal/model"
)

// mockStore is a minimal in-memory store for backup tests.
type mockStore struct {
	collections map[model.Kind]*model.CollectionRecord
	tickets     map[string]*model.Ticket

	listErr error
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
		return &model.CollectionRecord{Kind: kind, Items: json.RawMessage(`[]`)}, nil
	}
	return rec, nil
}

func (m *mockStore) ReplaceCollection(_ context.Context, kind model.Kind, items json.RawMessage, baseRevision int64) (*model.CollectionRecord, error) {
	rec := &model.CollectionRecord{Kind: kind, Revision: baseRevision + 1, Items: items, UpdatedAt: time.Now().UTC()}
	m.collections[kind] = rec
	return rec, nil
}

func (m *mockStore) ForceReplaceCollection(_ context.Context, kind model.Kind, items json.RawMessage) (*model.CollectionRecord, error) {
	var current int64
	if rec, ok := m.collections[kind]; ok {
		current = rec.Revision
	}
	rec := &model.CollectionRecord{Kind: kind, Revision: current + 1, Items: items, UpdatedAt: time.Now().UTC()}
	m.collections[kind] = rec
	return rec, nil
}

func (m *mockStore) ListCollections(_ context.Context) ([]*model.CollectionRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*model.CollectionRecord
	for _, rec := range m.collections {
		out = append(out, rec)
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
	return t, nil
}

func (m *mockStore) ListTickets(_ context.Context, status model.TicketStatus) ([]*model.Ticket, error) {
	var out []*model.Ticket
	for _, t := range m.tickets {
		if status != "" && t.Status != status {
			continue
		}
		out = append(out, t)
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
	t.Status = model.TicketClosed
	return t, nil
}

func (m *mockStore) DeleteTicket(_ context.Context, id string) error {
	delete(m.tickets, id)
	return nil
}

func (m *mockStore) Close() error { return nil }
