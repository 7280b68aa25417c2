package ports

import (
	"context"

	"github.com/lorrc/ticket-tracker-backend/internal/core/domain"
)

// CreateTicketParams defines the required input for creating a new ticket.
type CreateTicketParams struct {
	Title       string
	Description string
	Priority    domain.TicketPriority
	AssignedTo  *string
}

// ListTicketsParams defines the optional filters for listing tickets.
// Values outside the enumerations match nothing.
type ListTicketsParams struct {
	Status   *string
	Priority *string
}

// TicketService defines the core business operations for managing tickets.
type TicketService interface {
	CreateTicket(ctx context.Context, params CreateTicketParams) (*domain.Ticket, error)
	GetTicket(ctx context.Context, ticketID string) (*domain.Ticket, error)
	ListTickets(ctx context.Context, params ListTicketsParams) ([]*domain.Ticket, error)
	UpdateTicket(ctx context.Context, ticketID string, update domain.TicketUpdate) (*domain.Ticket, error)
	DeleteTicket(ctx context.Context, ticketID string) error
}

// StatsService defines the derived reporting operations. Each call
// observes a single snapshot of the store.
type StatsService interface {
	BasicStats(ctx context.Context) (domain.TicketStats, error)
	WorkloadReport(ctx context.Context) (domain.WorkloadReport, error)
	DetailedReport(ctx context.Context, status *string) (domain.DetailedReport, error)
	OverdueTickets(ctx context.Context, maxDays int) ([]*domain.Ticket, error)
}

// AssignmentService defines auto-assignment and bulk mutation.
type AssignmentService interface {
	AutoAssign(ctx context.Context, ticketID string, members []string) (*domain.Ticket, error)
	BulkUpdate(ctx context.Context, ticketIDs []string, updates domain.BulkTicketUpdate) (domain.BulkUpdateResult, error)
}

// EventBroadcaster is the port for pushing real-time ticket events.
type EventBroadcaster interface {
	Broadcast(event domain.Event) error
}
