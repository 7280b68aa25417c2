package services

import (
	"context"

	"github.com/lorrc/ticket-tracker-backend/internal/core/domain"
	"github.com/lorrc/ticket-tracker-backend/internal/core/ports"
)

// TicketService implements business logic for ticket management
type TicketService struct {
	ticketRepo  ports.TicketRepository
	broadcaster ports.EventBroadcaster
}

var _ ports.TicketService = (*TicketService)(nil)

// NewTicketService creates a new ticket service
func NewTicketService(ticketRepo ports.TicketRepository, broadcaster ports.EventBroadcaster) ports.TicketService {
	return &TicketService{
		ticketRepo:  ticketRepo,
		broadcaster: broadcaster,
	}
}

// CreateTicket handles the use case for submitting a new ticket
func (s *TicketService) CreateTicket(ctx context.Context, params ports.CreateTicketParams) (*domain.Ticket, error) {
	// 1. Create domain entity with validation
	ticket, err := domain.NewTicket(domain.TicketParams{
		Title:       params.Title,
		Description: params.Description,
		Priority:    params.Priority,
		AssignedTo:  params.AssignedTo,
	})
	if err != nil {
		return nil, err // Validation errors are returned here
	}

	// 2. Persist the ticket
	created, err := s.ticketRepo.Create(ctx, ticket)
	if err != nil {
		return nil, err
	}

	s.publish(domain.EventTicketCreated, created)
	return created, nil
}

// GetTicket retrieves a specific ticket
func (s *TicketService) GetTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	return s.ticketRepo.GetByID(ctx, ticketID)
}

// ListTickets returns tickets matching the optional status/priority
// filters, sorted most-recent-first.
func (s *TicketService) ListTickets(ctx context.Context, params ports.ListTicketsParams) ([]*domain.Ticket, error) {
	tickets, err := s.ticketRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	var status *domain.TicketStatus
	if params.Status != nil {
		value := domain.TicketStatus(*params.Status)
		status = &value
	}
	var priority *domain.TicketPriority
	if params.Priority != nil {
		value := domain.TicketPriority(*params.Priority)
		priority = &value
	}

	return domain.QueryTickets(tickets, status, priority), nil
}

// UpdateTicket applies a partial update to a ticket. Fields absent
// from the update are left unchanged; the whole update either applies
// or the ticket is untouched.
func (s *TicketService) UpdateTicket(ctx context.Context, ticketID string, update domain.TicketUpdate) (*domain.Ticket, error) {
	if err := update.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.ticketRepo.Mutate(ctx, ticketID, func(t *domain.Ticket) error {
		t.Apply(update)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(domain.EventTicketUpdated, updated)
	return updated, nil
}

// DeleteTicket removes a ticket permanently.
func (s *TicketService) DeleteTicket(ctx context.Context, ticketID string) error {
	if err := s.ticketRepo.Delete(ctx, ticketID); err != nil {
		return err
	}

	s.publish(domain.EventTicketDeleted, &domain.Ticket{ID: ticketID})
	return nil
}

// publish pushes a real-time event. The hub buffers internally, so
// this never blocks request handling.
func (s *TicketService) publish(eventType domain.EventType, ticket *domain.Ticket) {
	if s.broadcaster == nil {
		return
	}
	_ = s.broadcaster.Broadcast(domain.Event{
		Type:     eventType,
		Payload:  ticket,
		TicketID: ticket.ID,
	})
}
