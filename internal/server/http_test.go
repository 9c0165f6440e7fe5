package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/quillcast/reel/internal/events"
	"github.com/quillcast/reel/internal/model"
)

func newTestServer() (*StudioServer, *mockStore, http.Handler) {
	ms := newMockStore()
	s := NewStudioServer(ms, &events.NoopPublisher{})
	return s, ms, s.NewHTTPHandler("")
}

// doJSON performs an HTTP request with an optional JSON body and returns the recorder.
func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		b, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// requireStatus asserts the recorder has the expected HTTP status code.
func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, code int) {
	t.Helper()
	if rec.Code != code {
		t.Fatalf("expected status %d, got %d; body: %s", code, rec.Code, rec.Body.String())
	}
}

// decodeJSON decodes the recorder's response body into v.
func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

func TestHandleHTTPErrors(t *testing.T) {
	for _, tc := range []struct {
		name      string
		method    string
		path      string
		body      any
		code      int
		wantError string
	}{
		{"GetCollection/UnknownKind", "GET", "/v1/collections/playlists", nil, 404, "unknown collection kind"},
		{"ReplaceCollection/UnknownKind", "PUT", "/v1/collections/playlists", map[string]any{"items": []any{}, "revision": 0}, 404, ""},
		{"ReplaceCollection/MissingItems", "PUT", "/v1/collections/projects", map[string]any{"revision": 0}, 400, "items is required"},
		{"FlushCollection/MissingItems", "POST", "/v1/collections/projects/flush", map[string]any{"revision": 0}, 400, ""},
		{"CreateTicket/MissingSubject", "POST", "/v1/tickets", map[string]any{"body": "halp"}, 400, "subject is required"},
		{"GetTicket/NotFound", "GET", "/v1/tickets/tkt-missing", nil, 404, "ticket not found"},
		{"DeleteTicket/NotFound", "DELETE", "/v1/tickets/tkt-missing", nil, 404, ""},
		{"CloseTicket/NotFound", "POST", "/v1/tickets/tkt-missing/close", nil, 404, ""},
		{"ListTickets/BadStatus", "GET", "/v1/tickets?status=parked", nil, 400, "unknown ticket status"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, _, h := newTestServer()
			rec := doJSON(t, h, tc.method, tc.path, tc.body)
			requireStatus(t, rec, tc.code)
			if tc.wantError != "" {
				var body map[string]string
				decodeJSON(t, rec, &body)
				if body["error"] != tc.wantError {
					t.Fatalf("expected error=%q, got %q", tc.wantError, body["error"])
				}
			}
		})
	}
}

func TestHandleHealth(t *testing.T) {
	_, _, h := newTestServer()
	rec := doJSON(t, h, "GET", "/v1/health", nil)
	requireStatus(t, rec, 200)
	var body map[string]string
	decodeJSON(t, rec, &body)
	if body["status"] != "ok" {
		t.Fatalf("expected status=ok, got %q", body["status"])
	}
}

func TestHandleGetCollection_NeverSaved(t *testing.T) {
	_, _, h := newTestServer()
	rec := doJSON(t, h, "GET", "/v1/collections/projects", nil)
	requireStatus(t, rec, 200)
	var body model.CollectionRecord
	decodeJSON(t, rec, &body)
	if body.Revision != 0 {
		t.Fatalf("expected revision 0, got %d", body.Revision)
	}
	if string(body.Items) != "[]" {
		t.Fatalf("expected empty items, got %s", body.Items)
	}
}

func TestHandleReplaceCollection(t *testing.T) {
	_, ms, h := newTestServer()

	rec := doJSON(t, h, "PUT", "/v1/collections/projects", map[string]any{
		"items":    []map[string]any{{"id": "prj-a", "name": "Field notes"}},
		"revision": 0,
	})
	requireStatus(t, rec, 200)
	var body map[string]int64
	decodeJSON(t, rec, &body)
	if body["revision"] != 1 {
		t.Fatalf("expected revision 1, got %d", body["revision"])
	}

	stored := ms.collections[model.KindProjects]
	if stored == nil || stored.Revision != 1 {
		t.Fatalf("snapshot not stored: %+v", stored)
	}
}

func TestHandleReplaceCollection_Conflict(t *testing.T) {
	_, _, h := newTestServer()

	put := func(rev int64) *httptest.ResponseRecorder {
		return doJSON(t, h, "PUT", "/v1/collections/voices", map[string]any{
			"items":    []map[string]any{{"id": "vox-a"}},
			"revision": rev,
		})
	}

	requireStatus(t, put(0), 200)
	// Same base again is now stale.
	rec := put(0)
	requireStatus(t, rec, 409)
	var body map[string]string
	decodeJSON(t, rec, &body)
	if body["error"] == "" {
		t.Fatal("expected a conflict error message")
	}
}

func TestHandleFlushCollection(t *testing.T) {
	_, ms, h := newTestServer()

	// Flush applies without a matching base revision.
	ms.collections[model.KindMedia] = &model.CollectionRecord{
		Kind: model.KindMedia, Revision: 7, Items: json.RawMessage(`[]`),
	}
	rec := doJSON(t, h, "POST", "/v1/collections/media/flush", map[string]any{
		"items":    []map[string]any{{"id": "med-a"}},
		"revision": 2,
	})
	requireStatus(t, rec, 202)
	var body map[string]int64
	decodeJSON(t, rec, &body)
	if body["revision"] != 8 {
		t.Fatalf("expected revision 8, got %d", body["revision"])
	}
}

func TestHandleListCollections(t *testing.T) {
	_, _, h := newTestServer()

	requireStatus(t, doJSON(t, h, "PUT", "/v1/collections/projects", map[string]any{
		"items": []any{}, "revision": 0,
	}), 200)
	requireStatus(t, doJSON(t, h, "PUT", "/v1/collections/voices", map[string]any{
		"items": []any{}, "revision": 0,
	}), 200)

	rec := doJSON(t, h, "GET", "/v1/collections", nil)
	requireStatus(t, rec, 200)
	var body struct {
		Collections []*model.CollectionRecord `json:"collections"`
	}
	decodeJSON(t, rec, &body)
	if len(body.Collections) != 2 {
		t.Fatalf("expected 2 collections, got %d", len(body.Collections))
	}
}

func TestHandleTicketLifecycle(t *testing.T) {
	_, _, h := newTestServer()

	rec := doJSON(t, h, "POST", "/v1/tickets", map[string]any{
		"subject":   "Export stuck at 99%",
		"body":      "The render never finishes.",
		"requester": "maya",
	})
	requireStatus(t, rec, 201)
	var ticket model.Ticket
	decodeJSON(t, rec, &ticket)
	if ticket.ID == "" || ticket.Status != model.TicketOpen {
		t.Fatalf("unexpected ticket: %+v", ticket)
	}

	rec = doJSON(t, h, "PATCH", "/v1/tickets/"+ticket.ID, map[string]any{
		"body": "The render never finishes. Stuck since Monday.",
	})
	requireStatus(t, rec, 200)

	rec = doJSON(t, h, "POST", "/v1/tickets/"+ticket.ID+"/close", nil)
	requireStatus(t, rec, 200)
	var closed model.Ticket
	decodeJSON(t, rec, &closed)
	if closed.Status != model.TicketClosed || closed.ClosedAt == nil {
		t.Fatalf("expected closed ticket, got %+v", closed)
	}

	rec = doJSON(t, h, "GET", "/v1/tickets?status=closed", nil)
	requireStatus(t, rec, 200)
	var list struct {
		Tickets []*model.Ticket `json:"tickets"`
	}
	decodeJSON(t, rec, &list)
	if len(list.Tickets) != 1 {
		t.Fatalf("expected 1 closed ticket, got %d", len(list.Tickets))
	}

	requireStatus(t, doJSON(t, h, "DELETE", "/v1/tickets/"+ticket.ID, nil), 204)
	requireStatus(t, doJSON(t, h, "GET", "/v1/tickets/"+ticket.ID, nil), 404)
}

func TestHandleUpdateTicket_NoFields(t *testing.T) {
	_, ms, h := newTestServer()
	ms.tickets["tkt-a"] = &model.Ticket{ID: "tkt-a", Subject: "Hi", Status: model.TicketOpen}

	rec := doJSON(t, h, "PATCH", "/v1/tickets/tkt-a", map[string]any{})
	requireStatus(t, rec, 400)
}

func TestAuthMiddleware(t *testing.T) {
	ms := newMockStore()
	s := NewStudioServer(ms, &events.NoopPublisher{})
	h := s.NewHTTPHandler("sekrit")

	// Health is exempt.
	requireStatus(t, doJSON(t, h, "GET", "/v1/health", nil), 200)

	// No token.
	requireStatus(t, doJSON(t, h, "GET", "/v1/collections", nil), 401)

	// Wrong token.
	req := httptest.NewRequest("GET", "/v1/collections", nil)
	req.Header.Set("Authorization", "Bearer nope")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	requireStatus(t, rec, 401)

	// Right token.
	req = httptest.NewRequest("GET", "/v1/collections", nil)
	req.Header.Set("Authorization", "Bearer sekrit")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	requireStatus(t, rec, 200)
}
