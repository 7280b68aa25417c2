package memory

import (
	"context"
	"sync"

	"github.com/lorrc/ticket-tracker-backend/internal/core/domain"
	apperrors "github.com/lorrc/ticket-tracker-backend/internal/core/errors"
	"github.com/lorrc/ticket-tracker-backend/internal/core/ports"
)

// TicketRepository is the in-memory ticket store. It exclusively owns
// the ticket collection: a map guarded by a RWMutex plus an
// insertion-ordered id slice, so List can hand out a consistent
// snapshot whose tie-break order is creation order. All records cross
// the boundary as clones; callers never alias stored memory.
type TicketRepository struct {
	mu    sync.RWMutex
	byID  map[string]*domain.Ticket
	order []string
}

var _ ports.TicketRepository = (*TicketRepository)(nil)

// NewTicketRepository creates an empty in-memory store.
func NewTicketRepository() *TicketRepository {
	return &TicketRepository{
		byID: make(map[string]*domain.Ticket),
	}
}

// Create inserts a new ticket and returns a copy of the stored record.
func (r *TicketRepository) Create(_ context.Context, ticket *domain.Ticket) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := ticket.Clone()
	r.byID[stored.ID] = stored
	r.order = append(r.order, stored.ID)
	return stored.Clone(), nil
}

// GetByID retrieves a single ticket by its ID.
func (r *TicketRepository) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ticket, ok := r.byID[id]
	if !ok {
		return nil, apperrors.ErrTicketNotFound
	}
	return ticket.Clone(), nil
}

// List returns all live tickets in insertion order.
func (r *TicketRepository) List(_ context.Context) ([]*domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tickets := make([]*domain.Ticket, 0, len(r.order))
	for _, id := range r.order {
		tickets = append(tickets, r.byID[id].Clone())
	}
	return tickets, nil
}

// Mutate runs fn against the ticket under the store lock, so the whole
// read-modify-write is a single critical section and concurrent
// updates of the same ticket cannot be lost. fn operates on a working
// copy: if it returns an error the stored record is untouched.
func (r *TicketRepository) Mutate(_ context.Context, id string, fn func(*domain.Ticket) error) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ticket, ok := r.byID[id]
	if !ok {
		return nil, apperrors.ErrTicketNotFound
	}

	working := ticket.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}

	r.byID[id] = working
	return working.Clone(), nil
}

// Delete removes a ticket permanently.
func (r *TicketRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return apperrors.ErrTicketNotFound
	}
	delete(r.byID, id)
	for i, orderedID := range r.order {
		if orderedID == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Len returns the number of live tickets.
func (r *TicketRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}
