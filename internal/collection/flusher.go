package collection

import (
	"context"
	"log/slog"
	"time"
)

// Courier is a fire-and-forget delivery primitive for teardown flushes:
// implementations queue the payload for delivery and return without any
// acknowledgment (a short-timeout HTTP POST, a NATS publish). Losing a
// payload here is acceptable; the courier is the last line of defense.
type Courier interface {
	Deliver(kind string, payload []byte) error
}

// Flushable is the slice of a Store the Flusher needs at teardown.
type Flushable interface {
	Kind() string
	Flush(ctx context.Context) error
	PendingPayload() ([]byte, bool)
}

// Flusher drains registered stores when the process is shutting down. Each
// store first gets a bounded window to finish its normal drain; whatever is
// still pending after that is serialized and handed to the courier,
// best-effort.
type Flusher struct {
	stores  []Flushable
	courier Courier
	timeout time.Duration
	log     *slog.Logger
}

// NewFlusher creates a flusher that allows each shutdown drain the given
// timeout. courier may be nil, in which case undrained snapshots are dropped.
func NewFlusher(courier Courier, timeout time.Duration, logger *slog.Logger) *Flusher {
	return &Flusher{
		courier: courier,
		timeout: timeout,
		log:     logger,
	}
}

// Register adds a store to the teardown set. Not safe to call concurrently
// with Shutdown.
func (f *Flusher) Register(s Flushable) {
	f.stores = append(f.stores, s)
}

// Shutdown drains every registered store. It never fails: flush delivery is
// best-effort by contract, so errors are logged and swallowed.
func (f *Flusher) Shutdown(ctx context.Context) {
	for _, s := range f.stores {
		drainCtx, cancel := context.WithTimeout(ctx, f.timeout)
		err := s.Flush(drainCtx)
		cancel()
		if err == nil {
			continue
		}

		payload, ok := s.PendingPayload()
		if !ok {
			// The drain timed out mid-save with nothing left in the slot;
			// the in-flight attempt may still land.
			f.log.Debug("shutdown drain incomplete, no pending snapshot", "kind", s.Kind(), "err", err)
			continue
		}
		if f.courier == nil {
			f.log.Warn("dropping pending snapshot at shutdown, no courier configured", "kind", s.Kind())
			continue
		}
		if err := f.courier.Deliver(s.Kind(), payload); err != nil {
			f.log.Debug("best-effort flush delivery failed", "kind", s.Kind(), "err", err)
			continue
		}
		f.log.Debug("pending snapshot handed to courier", "kind", s.Kind(), "bytes", len(payload))
	}
}
