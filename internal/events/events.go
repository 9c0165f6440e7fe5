package events

import (
	"context"
	"encoding/json"

	"github.com/quillcast/reel/internal/model"
)

// Event topic constants
const (
	TopicCollectionSaved    = "reel.collection.saved"
	TopicCollectionFlushed  = "reel.collection.flushed"
	TopicCollectionConflict = "reel.collection.conflict"

	TopicTicketCreated = "reel.ticket.created"
	TopicTicketUpdated = "reel.ticket.updated"
	TopicTicketClosed  = "reel.ticket.closed"
)

// FlushSubjectPrefix is the subject prefix teardown couriers publish to;
// the daemon subscribes to FlushSubjectPrefix + ">".
const FlushSubjectPrefix = "reel.flush."

// FlushSubject returns the courier subject for one collection kind.
func FlushSubject(kind string) string {
	return FlushSubjectPrefix + kind
}

// Event types

type CollectionSaved struct {
	Kind     model.Kind `json:"kind"`
	Revision int64      `json:"revision"`
	Items    int        `json:"items"`
}

type CollectionFlushed struct {
	Kind     model.Kind `json:"kind"`
	Revision int64      `json:"revision"`
}

type CollectionConflict struct {
	Kind         model.Kind `json:"kind"`
	BaseRevision int64      `json:"base_revision"`
	Revision     int64      `json:"revision"`
}

type TicketCreated struct {
	Ticket *model.Ticket `json:"ticket"`
}

type TicketUpdated struct {
	Ticket  *model.Ticket  `json:"ticket"`
	Changes map[string]any `json:"changes"` // field name -> new value
}

type TicketClosed struct {
	Ticket *model.Ticket `json:"ticket"`
}

// FlushEnvelope is the payload a teardown courier publishes: the collection
// kind plus the serialized snapshot exactly as the client held it.
type FlushEnvelope struct {
	Kind     string          `json:"kind"`
	Snapshot json.RawMessage `json:"snapshot"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}

// Subscriber receives events from the event bus.
type Subscriber interface {
	// Subscribe delivers raw event payloads on the returned channel.
	// Call the returned cancel function to unsubscribe and close the channel.
	Subscribe(topic string) (<-chan []byte, func(), error)
	Close() error
}
