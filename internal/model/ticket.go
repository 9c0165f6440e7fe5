package model

import "time"

// TicketStatus represents the state of a support ticket.
type TicketStatus string

const (
	TicketOpen   TicketStatus = "open"
	TicketClosed TicketStatus = "closed"
)

// String returns the string representation of the status.
func (s TicketStatus) String() string {
	return string(s)
}

// IsValid checks whether the status is a known value.
func (s TicketStatus) IsValid() bool {
	switch s {
	case TicketOpen, TicketClosed:
		return true
	}
	return false
}

// Ticket is a support request. Tickets are server-owned plain CRUD records;
// they do not participate in collection synchronization.
type Ticket struct {
	ID        string       `json:"id"`
	Subject   string       `json:"subject"`
	Body      string       `json:"body,omitempty"`
	Status    TicketStatus `json:"status"`
	Requester string       `json:"requester,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	ClosedAt  *time.Time   `json:"closed_at,omitempty"`
}
