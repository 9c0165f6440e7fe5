package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/quillcast/reel/internal/model"
)

// CreateTicketRequest holds the fields for opening a support ticket.
type CreateTicketRequest struct {
	Subject   string `json:"subject"`
	Body      string `json:"body,omitempty"`
	Requester string `json:"requester,omitempty"`
}

// UpdateTicketRequest holds optional fields to change on a ticket.
type UpdateTicketRequest struct {
	Subject *string `json:"subject,omitempty"`
	Body    *string `json:"body,omitempty"`
	Status  *string `json:"status,omitempty"`
}

func (c *HTTPClient) CreateTicket(ctx context.Context, req *CreateTicketRequest) (*model.Ticket, error) {
	var ticket model.Ticket
	if err := c.doJSON(ctx, http.MethodPost, "/v1/tickets", req, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (c *HTTPClient) GetTicket(ctx context.Context, id string) (*model.Ticket, error) {
	var ticket model.Ticket
	if err := c.doJSON(ctx, http.MethodGet, "/v1/tickets/"+url.PathEscape(id), nil, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (c *HTTPClient) ListTickets(ctx context.Context, status string) ([]*model.Ticket, error) {
	path := "/v1/tickets"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	var resp struct {
		Tickets []*model.Ticket `json:"tickets"`
	}
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tickets, nil
}

func (c *HTTPClient) UpdateTicket(ctx context.Context, id string, req *UpdateTicketRequest) (*model.Ticket, error) {
	var ticket model.Ticket
	if err := c.doJSON(ctx, http.MethodPatch, "/v1/tickets/"+url.PathEscape(id), req, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (c *HTTPClient) CloseTicket(ctx context.Context, id string) (*model.Ticket, error) {
	var ticket model.Ticket
	if err := c.doJSON(ctx, http.MethodPost, "/v1/tickets/"+url.PathEscape(id)+"/close", nil, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (c *HTTPClient) DeleteTicket(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/tickets/"+url.PathEscape(id), nil, nil)
}
