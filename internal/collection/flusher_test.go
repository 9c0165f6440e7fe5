package collection

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"
)

// mockCourier records best-effort deliveries.
type mockCourier struct {
	mu         sync.Mutex
	deliveries map[string][][]byte
	err        error
}

func newMockCourier() *mockCourier {
	return &mockCourier{deliveries: make(map[string][][]byte)}
}

func (c *mockCourier) Deliver(kind string, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	cp := make([]byte, len(payload))
	copy(cp, payload)
	c.deliveries[kind] = append(c.deliveries[kind], cp)
	return nil
}

func (c *mockCourier) count(kind string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.deliveries[kind])
}

func TestFlusherDeliversPendingSnapshot(t *testing.T) {
	gw := newMockGateway()
	s := newTestStore(gw)
	courier := newMockCourier()

	f := NewFlusher(courier, 20*time.Millisecond, testLogger())
	f.Register(s)

	// First save stuck in flight, second write parked in the pending slot.
	release := gw.openGate()
	defer release()
	s.Write([]note{{ID: "a"}})
	if !gw.waitInFlight(time.Second) {
		t.Fatal("save never started")
	}
	s.Write([]note{{ID: "a"}, {ID: "b"}})

	f.Shutdown(context.Background())

	if n := courier.count("notes"); n != 1 {
		t.Fatalf("courier deliveries = %d, want exactly 1", n)
	}

	courier.mu.Lock()
	payload := courier.deliveries["notes"][0]
	courier.mu.Unlock()
	var snap Snapshot[note]
	if err := json.Unmarshal(payload, &snap); err != nil {
		t.Fatalf("courier payload is not a snapshot: %v", err)
	}
	if len(snap.Items) != 2 {
		t.Fatalf("delivered snapshot has %d items, want the pending two-item state", len(snap.Items))
	}
}

func TestFlusherNoPendingNoDelivery(t *testing.T) {
	gw := newMockGateway()
	s := newTestStore(gw)
	courier := newMockCourier()

	f := NewFlusher(courier, time.Second, testLogger())
	f.Register(s)

	s.Write([]note{{ID: "a"}})
	quiesce(t, s)

	f.Shutdown(context.Background())

	if n := courier.count("notes"); n != 0 {
		t.Fatalf("courier deliveries = %d, want 0 when the drain completed", n)
	}
}

func TestFlusherSwallowsCourierError(t *testing.T) {
	gw := newMockGateway()
	s := newTestStore(gw)
	courier := newMockCourier()
	courier.err = errors.New("transport gone")

	f := NewFlusher(courier, 20*time.Millisecond, testLogger())
	f.Register(s)

	release := gw.openGate()
	defer release()
	s.Write([]note{{ID: "a"}})
	if !gw.waitInFlight(time.Second) {
		t.Fatal("save never started")
	}
	s.Write([]note{{ID: "b"}})

	// Must not panic or block; flush failures are silent by contract.
	f.Shutdown(context.Background())
}

func TestFlusherNilCourier(t *testing.T) {
	gw := newMockGateway()
	s := newTestStore(gw)

	f := NewFlusher(nil, 20*time.Millisecond, testLogger())
	f.Register(s)

	release := gw.openGate()
	defer release()
	s.Write([]note{{ID: "a"}})
	if !gw.waitInFlight(time.Second) {
		t.Fatal("save never started")
	}
	s.Write([]note{{ID: "b"}})

	f.Shutdown(context.Background())
}
