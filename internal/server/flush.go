package server

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/quillcast/reel/internal/events"
	"github.com/quillcast/reel/internal/model"
)

// StartFlushSubscriber consumes teardown snapshots published by NATS couriers
// and applies them to the store. It returns a stop function that unsubscribes
// and waits for the consumer goroutine to drain.
//
// Flush application is best effort on the client side, so malformed or
// unappliable envelopes are logged and dropped rather than retried.
func (s *StudioServer) StartFlushSubscriber(sub events.Subscriber) (func(), error) {
	ch, cancel, err := sub.Subscribe(events.FlushSubjectPrefix + ">")
	if err != nil {
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for payload := range ch {
			s.applyFlush(payload)
		}
	}()

	return func() {
		cancel()
		<-done
	}, nil
}

func (s *StudioServer) applyFlush(payload []byte) {
	var env events.FlushEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		slog.Warn("dropping malformed flush envelope", "error", err)
		return
	}

	kind := model.Kind(env.Kind)
	if !kind.IsValid() {
		slog.Warn("dropping flush for unknown collection kind", "kind", env.Kind)
		return
	}

	var snap struct {
		Items json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(env.Snapshot, &snap); err != nil || len(snap.Items) == 0 {
		slog.Warn("dropping flush with unreadable snapshot", "kind", kind, "error", err)
		return
	}

	rec, err := s.store.ForceReplaceCollection(context.Background(), kind, snap.Items)
	if err != nil {
		slog.Warn("failed to apply flush snapshot", "kind", kind, "error", err)
		return
	}

	slog.Info("applied flush snapshot", "kind", kind, "revision", rec.Revision)
	s.publish(context.Background(), events.TopicCollectionFlushed, events.CollectionFlushed{
		Kind:     kind,
		Revision: rec.Revision,
	})
}
