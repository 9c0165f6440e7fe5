package client

import (
	"context"
	"net/http"
	"strings"
	"testing"
)

func TestHTTPClient_CreateTicket(t *testing.T) {
	h := &testHandler{
		statusCode: http.StatusCreated,
		responseBody: `{
			"id": "tkt-1",
			"subject": "Export stuck",
			"status": "open",
			"requester": "alice",
			"created_at": "2026-03-01T10:00:00Z",
			"updated_at": "2026-03-01T10:00:00Z"
		}`,
	}
	c, srv := newTestClient(h)
	defer srv.Close()

	ticket, err := c.CreateTicket(context.Background(), &CreateTicketRequest{
		Subject:   "Export stuck",
		Requester: "alice",
	})
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}
	if ticket.ID != "tkt-1" || ticket.Subject != "Export stuck" {
		t.Errorf("ticket = %+v", ticket)
	}
	if h.method != http.MethodPost || h.path != "/v1/tickets" {
		t.Errorf("request = %s %s, want POST /v1/tickets", h.method, h.path)
	}
	if !strings.Contains(h.body, `"subject":"Export stuck"`) {
		t.Errorf("body = %s", h.body)
	}
}

func TestHTTPClient_ListTicketsByStatus(t *testing.T) {
	h := &testHandler{responseBody: `{"tickets": [{"id": "tkt-1", "subject": "A", "status": "open"}]}`}
	c, srv := newTestClient(h)
	defer srv.Close()

	tickets, err := c.ListTickets(context.Background(), "open")
	if err != nil {
		t.Fatalf("ListTickets: %v", err)
	}
	if len(tickets) != 1 || tickets[0].ID != "tkt-1" {
		t.Errorf("tickets = %+v", tickets)
	}
	if h.query != "status=open" {
		t.Errorf("query = %q, want status=open", h.query)
	}
}

func TestHTTPClient_CloseTicket(t *testing.T) {
	h := &testHandler{responseBody: `{"id": "tkt-1", "subject": "A", "status": "closed"}`}
	c, srv := newTestClient(h)
	defer srv.Close()

	ticket, err := c.CloseTicket(context.Background(), "tkt-1")
	if err != nil {
		t.Fatalf("CloseTicket: %v", err)
	}
	if ticket.Status != "closed" {
		t.Errorf("status = %q, want closed", ticket.Status)
	}
	if h.method != http.MethodPost || h.path != "/v1/tickets/tkt-1/close" {
		t.Errorf("request = %s %s", h.method, h.path)
	}
}

func TestHTTPClient_DeleteTicket(t *testing.T) {
	h := &testHandler{statusCode: http.StatusNoContent}
	c, srv := newTestClient(h)
	defer srv.Close()

	if err := c.DeleteTicket(context.Background(), "tkt-9"); err != nil {
		t.Fatalf("DeleteTicket: %v", err)
	}
	if h.method != http.MethodDelete || h.path != "/v1/tickets/tkt-9" {
		t.Errorf("request = %s %s", h.method, h.path)
	}
}
