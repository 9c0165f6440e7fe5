package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/quillcast/reel/internal/store"
)

// header is the first JSONL record written by ExportJSONL.
type header struct {
	Version         string    `json:"version"`
	Type            string    `json:"type"`
	Timestamp       time.Time `json:"timestamp"`
	CollectionCount int       `json:"collection_count"`
	TicketCount     int       `json:"ticket_count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// ExportJSONL writes every collection snapshot and every ticket from the
// store as JSONL to w. Collections come back from the store in stable kind
// order; each line carries the snapshot payload and its revision, so a
// restore can replay the newest export wholesale.
func ExportJSONL(ctx context.Context, s store.Store, w io.Writer) error {
	collections, err := s.ListCollections(ctx)
	if err != nil {
		return fmt.Errorf("list collections: %w", err)
	}

	tickets, err := s.ListTickets(ctx, "")
	if err != nil {
		return fmt.Errorf("list tickets: %w", err)
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(header{
		Version:         "1",
		Type:            "header",
		Timestamp:       time.Now().UTC(),
		CollectionCount: len(collections),
		TicketCount:     len(tickets),
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	for _, c := range collections {
		if err := enc.Encode(record{Type: "collection", Data: c}); err != nil {
			return fmt.Errorf("encode collection %s: %w", c.Kind, err)
		}
	}

	for _, t := range tickets {
		if err := enc.Encode(record{Type: "ticket", Data: t}); err != nil {
			return fmt.Errorf("encode ticket %s: %w", t.ID, err)
		}
	}

	return nil
}
