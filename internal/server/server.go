package server

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/quillcast/reel/internal/events"
	"github.com/quillcast/reel/internal/store"
)

// StudioServer serves the collection sync API and the ticket CRUD API.
type StudioServer struct {
	store     store.Store
	publisher events.Publisher
	sseHub    *sseHub
}

// NewStudioServer returns a new StudioServer backed by the given store and publisher.
func NewStudioServer(s store.Store, p events.Publisher) *StudioServer {
	return &StudioServer{
		store:     s,
		publisher: p,
		sseHub:    newSSEHub(),
	}
}

// publish emits an event to NATS and to connected SSE clients. Both are
// best-effort; failures are logged but do not block the caller.
func (s *StudioServer) publish(ctx context.Context, topic string, event any) {
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		slog.Warn("failed to publish event", "topic", topic, "error", err)
	}
	s.broadcastEvent(topic, event)
}

// broadcastEvent fans an event out to SSE clients.
func (s *StudioServer) broadcastEvent(topic string, event any) {
	if s.sseHub == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		slog.Warn("failed to marshal event for SSE broadcast", "topic", topic, "error", err)
		return
	}
	s.sseHub.broadcast(topic, payload)
}
