package domain

// EventType defines the type of real-time event.
type EventType string

const (
	EventTicketCreated  EventType = "TICKET_CREATED"
	EventTicketUpdated  EventType = "TICKET_UPDATED"
	EventTicketDeleted  EventType = "TICKET_DELETED"
	EventTicketAssigned EventType = "TICKET_ASSIGNED"
)

// Event is the payload sent over WebSocket.
type Event struct {
	Type     EventType   `json:"type"`
	Payload  interface{} `json:"payload,omitempty"`
	TicketID string      `json:"ticket_id"` // Used for routing to specific ticket "rooms"
}
