package collection

import (
	"context"
	"sync"
	"time"
)

// note is a minimal item type for store tests.
type note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Refs      []string  `json:"refs,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (n note) ItemID() string           { return n.ID }
func (n note) ItemUpdatedAt() time.Time { return n.UpdatedAt }
func (n note) WithUpdatedAt(t time.Time) note {
	n.UpdatedAt = t
	return n
}
func (n note) WithLink(ref string) note {
	for _, r := range n.Refs {
		if r == ref {
			return n
		}
	}
	refs := make([]string, len(n.Refs), len(n.Refs)+1)
	copy(refs, n.Refs)
	n.Refs = append(refs, ref)
	return n
}
func (n note) WithoutLink(ref string) note {
	var refs []string
	for _, r := range n.Refs {
		if r != ref {
			refs = append(refs, r)
		}
	}
	n.Refs = refs
	return n
}

// mockGateway records saves and lets tests block in-flight saves via gate.
type mockGateway struct {
	mu          sync.Mutex
	loadSnap    Snapshot[note]
	loadErr     error
	saveErr     error
	saves       []Snapshot[note]
	revision    int64
	inFlight    int
	maxInFlight int

	// When non-nil, every Save blocks after being counted in-flight until a
	// value is received. Tests use it to pin down scheduling.
	gate chan struct{}
}

func newMockGateway() *mockGateway {
	return &mockGateway{}
}

func (g *mockGateway) Load(_ context.Context, _ string) (Snapshot[note], error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.loadErr != nil {
		return Snapshot[note]{}, g.loadErr
	}
	return g.loadSnap, nil
}

func (g *mockGateway) Save(_ context.Context, _ string, snap Snapshot[note]) (Ack, error) {
	g.mu.Lock()
	g.inFlight++
	if g.inFlight > g.maxInFlight {
		g.maxInFlight = g.inFlight
	}
	gate := g.gate
	g.mu.Unlock()

	if gate != nil {
		<-gate
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.inFlight--
	if g.saveErr != nil {
		return Ack{}, g.saveErr
	}
	g.saves = append(g.saves, snap)
	g.revision++
	return Ack{Revision: g.revision}, nil
}

// saveCount returns the number of successful saves so far.
func (g *mockGateway) saveCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.saves)
}

// lastSave returns the most recent successful save.
func (g *mockGateway) lastSave() (Snapshot[note], bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.saves) == 0 {
		return Snapshot[note]{}, false
	}
	return g.saves[len(g.saves)-1], true
}

func (g *mockGateway) setSaveErr(err error) {
	g.mu.Lock()
	g.saveErr = err
	g.mu.Unlock()
}

// openGate installs a gate so subsequent saves block, and returns a release
// function that unblocks all of them and removes the gate.
func (g *mockGateway) openGate() (release func()) {
	gate := make(chan struct{})
	g.mu.Lock()
	g.gate = gate
	g.mu.Unlock()
	return func() {
		g.mu.Lock()
		g.gate = nil
		g.mu.Unlock()
		close(gate)
	}
}

// waitInFlight blocks until a save is in flight or the deadline passes.
func (g *mockGateway) waitInFlight(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		g.mu.Lock()
		n := g.inFlight
		g.mu.Unlock()
		if n > 0 {
			return true
		}
		time.Sleep(time.Millisecond)
	}
	return false
}
