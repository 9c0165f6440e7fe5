package server

import (
	"encoding/json"
	"net/http"
)

// NewHTTPHandler returns an http.Handler with all routes registered.
// When authToken is non-empty, requests (except GET /v1/health) must include
// a valid Authorization: Bearer <token> header.
func (s *StudioServer) NewHTTPHandler(authToken string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/collections", s.handleListCollections)
	mux.HandleFunc("GET /v1/collections/{kind}", s.handleGetCollection)
	mux.HandleFunc("PUT /v1/collections/{kind}", s.handleReplaceCollection)
	mux.HandleFunc("POST /v1/collections/{kind}/flush", s.handleFlushCollection)
	mux.HandleFunc("POST /v1/tickets", s.handleCreateTicket)
	mux.HandleFunc("GET /v1/tickets", s.handleListTickets)
	mux.HandleFunc("GET /v1/tickets/{id}", s.handleGetTicket)
	mux.HandleFunc("PATCH /v1/tickets/{id}", s.handleUpdateTicket)
	mux.HandleFunc("POST /v1/tickets/{id}/close", s.handleCloseTicket)
	mux.HandleFunc("DELETE /v1/tickets/{id}", s.handleDeleteTicket)
	mux.HandleFunc("GET /v1/events/stream", s.handleEventStream)
	mux.HandleFunc("GET /v1/health", s.handleHealth)
	return RecoveryMiddleware(LoggingMiddleware(AuthMiddleware(authToken, mux)))
}

// handleHealth handles GET /v1/health.
func (s *StudioServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
