package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/quillcast/reel/internal/events"
)

// courierTimeout bounds how long a teardown delivery may hold up process
// exit. Deliveries that miss it are lost, by contract.
const courierTimeout = 2 * time.Second

// HTTPCourier posts a pending snapshot to the server's flush endpoint with a
// short timeout. No acknowledgment is consumed beyond the status code.
type HTTPCourier struct {
	c *HTTPClient
}

// NewHTTPCourier creates a courier over the given base client.
func NewHTTPCourier(c *HTTPClient) *HTTPCourier {
	return &HTTPCourier{c: c}
}

// Deliver posts the serialized snapshot to /v1/collections/{kind}/flush.
func (h *HTTPCourier) Deliver(kind string, payload []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), courierTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		h.c.baseURL+"/v1/collections/"+url.PathEscape(kind)+"/flush",
		bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating flush request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if h.c.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.c.token)
	}

	resp, err := h.c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("flush delivery: %w", err)
	}
	resp.Body.Close()
	if resp.StatusCode >= 400 {
		return &APIError{StatusCode: resp.StatusCode, Message: "flush rejected"}
	}
	return nil
}

// NATSCourier hands a pending snapshot to the NATS client, which queues it
// for delivery; the publish returns before the wire write completes, so the
// only wait is a short flush of the client's buffer.
type NATSCourier struct {
	conn *nats.Conn
}

// NewNATSCourier connects to NATS for teardown deliveries.
func NewNATSCourier(url string) (*NATSCourier, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}
	return &NATSCourier{conn: nc}, nil
}

// Deliver publishes the snapshot wrapped in a flush envelope.
func (n *NATSCourier) Deliver(kind string, payload []byte) error {
	data, err := marshalFlushEnvelope(kind, payload)
	if err != nil {
		return err
	}
	if err := n.conn.Publish(events.FlushSubject(kind), data); err != nil {
		return fmt.Errorf("publishing flush envelope: %w", err)
	}
	// Best-effort: push the client buffer out before the process dies.
	return n.conn.FlushTimeout(courierTimeout)
}

// Close closes the NATS connection.
func (n *NATSCourier) Close() error {
	n.conn.Close()
	return nil
}

func marshalFlushEnvelope(kind string, payload []byte) ([]byte, error) {
	data, err := json.Marshal(events.FlushEnvelope{Kind: kind, Snapshot: payload})
	if err != nil {
		return nil, fmt.Errorf("marshaling flush envelope: %w", err)
	}
	return data, nil
}
