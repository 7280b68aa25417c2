package ports

import (
	"context"

	"github.com/lorrc/ticket-tracker-backend/internal/core/domain"
)

// TicketRepository is the port for the ticket store. Implementations
// must return apperrors.ErrTicketNotFound for absent ids.
type TicketRepository interface {
	// Create inserts a new ticket and returns the stored record.
	Create(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error)

	// GetByID retrieves a single ticket.
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)

	// List returns a snapshot of all live tickets in insertion order.
	// Callers own the returned records; mutating them does not affect
	// the store.
	List(ctx context.Context) ([]*domain.Ticket, error)

	// Mutate runs fn against the ticket as a single read-modify-write:
	// no other mutation of the same ticket interleaves. If fn returns
	// an error the ticket is left untouched. On success the stored
	// record reflects fn's changes and a copy is returned.
	Mutate(ctx context.Context, id string, fn func(*domain.Ticket) error) (*domain.Ticket, error)

	// Delete removes a ticket permanently.
	Delete(ctx context.Context, id string) error
}
