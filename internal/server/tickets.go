package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/quillcast/reel/internal/events"
	"github.com/quillcast/reel/internal/idgen"
	"github.com/quillcast/reel/internal/model"
)

type createTicketInput struct {
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	Requester string `json:"requester"`
}

type updateTicketInput struct {
	Subject *string `json:"subject"`
	Body    *string `json:"body"`
	Status  *string `json:"status"`
}

// handleCreateTicket handles POST /v1/tickets.
func (s *StudioServer) handleCreateTicket(w http.ResponseWriter, r *http.Request) {
	var in createTicketInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	in.Subject = strings.TrimSpace(in.Subject)
	if in.Subject == "" {
		writeError(w, http.StatusBadRequest, "subject is required")
		return
	}

	id, err := idgen.GenerateWithPrefix(idgen.PrefixTicket)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate ticket id")
		return
	}

	now := time.Now().UTC()
	ticket := &model.Ticket{
		ID:        id,
		Subject:   in.Subject,
		Body:      in.Body,
		Status:    model.TicketOpen,
		Requester: in.Requester,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateTicket(r.Context(), ticket); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create ticket")
		return
	}

	s.publish(r.Context(), events.TopicTicketCreated, events.TicketCreated{Ticket: ticket})
	writeJSON(w, http.StatusCreated, ticket)
}

// handleListTickets handles GET /v1/tickets. An optional ?status= query
// filters by ticket status.
func (s *StudioServer) handleListTickets(w http.ResponseWriter, r *http.Request) {
	var status model.TicketStatus
	if q := r.URL.Query().Get("status"); q != "" {
		status = model.TicketStatus(q)
		if !status.IsValid() {
			writeError(w, http.StatusBadRequest, "unknown ticket status")
			return
		}
	}

	tickets, err := s.store.ListTickets(r.Context(), status)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list tickets")
		return
	}
	if tickets == nil {
		tickets = []*model.Ticket{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"tickets": tickets})
}

// handleGetTicket handles GET /v1/tickets/{id}.
func (s *StudioServer) handleGetTicket(w http.ResponseWriter, r *http.Request) {
	ticket, err := s.store.GetTicket(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "ticket not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load ticket")
		return
	}
	writeJSON(w, http.StatusOK, ticket)
}

// handleUpdateTicket handles PATCH /v1/tickets/{id}. Only fields present in
// the body are changed.
func (s *StudioServer) handleUpdateTicket(w http.ResponseWriter, r *http.Request) {
	var in updateTicketInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ticket, err := s.store.GetTicket(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "ticket not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load ticket")
		return
	}

	changes := map[string]any{}
	if in.Subject != nil {
		subject := strings.TrimSpace(*in.Subject)
		if subject == "" {
			writeError(w, http.StatusBadRequest, "subject cannot be empty")
			return
		}
		ticket.Subject = subject
		changes["subject"] = subject
	}
	if in.Body != nil {
		ticket.Body = *in.Body
		changes["body"] = *in.Body
	}
	if in.Status != nil {
		status := model.TicketStatus(*in.Status)
		if !status.IsValid() {
			writeError(w, http.StatusBadRequest, "unknown ticket status")
			return
		}
		ticket.Status = status
		changes["status"] = status.String()
	}
	if len(changes) == 0 {
		writeError(w, http.StatusBadRequest, "no fields to update")
		return
	}

	ticket.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateTicket(r.Context(), ticket); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "ticket not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update ticket")
		return
	}

	s.publish(r.Context(), events.TopicTicketUpdated, events.TicketUpdated{Ticket: ticket, Changes: changes})
	writeJSON(w, http.StatusOK, ticket)
}

// handleCloseTicket handles POST /v1/tickets/{id}/close.
func (s *StudioServer) handleCloseTicket(w http.ResponseWriter, r *http.Request) {
	ticket, err := s.store.CloseTicket(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "ticket not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to close ticket")
		return
	}

	s.publish(r.Context(), events.TopicTicketClosed, events.TicketClosed{Ticket: ticket})
	writeJSON(w, http.StatusOK, ticket)
}

// handleDeleteTicket handles DELETE /v1/tickets/{id}.
func (s *StudioServer) handleDeleteTicket(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteTicket(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "ticket not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete ticket")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
