package services

import (
	"context"
	"errors"

	"github.com/lorrc/ticket-tracker-backend/internal/core/domain"
	apperrors "github.com/lorrc/ticket-tracker-backend/internal/core/errors"
	"github.com/lorrc/ticket-tracker-backend/internal/core/ports"
)

// AssignmentService implements least-busy auto-assignment and bulk
// mutation with partial-failure reporting.
type AssignmentService struct {
	ticketRepo  ports.TicketRepository
	broadcaster ports.EventBroadcaster
}

var _ ports.AssignmentService = (*AssignmentService)(nil)

// NewAssignmentService creates a new assignment service.
func NewAssignmentService(ticketRepo ports.TicketRepository, broadcaster ports.EventBroadcaster) *AssignmentService {
	return &AssignmentService{
		ticketRepo:  ticketRepo,
		broadcaster: broadcaster,
	}
}

// AutoAssign assigns the ticket to the candidate member with the
// fewest currently assigned tickets. The tally is recomputed from the
// live ticket set on every call; nothing is memoized between calls.
func (s *AssignmentService) AutoAssign(ctx context.Context, ticketID string, members []string) (*domain.Ticket, error) {
	if len(members) == 0 {
		return nil, apperrors.NewBadRequestError(apperrors.ErrNoCandidates, "candidate member list must not be empty")
	}

	tickets, err := s.ticketRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	selected, err := domain.LeastBusyMember(tickets, members)
	if err != nil {
		return nil, err
	}

	updated, err := s.ticketRepo.Mutate(ctx, ticketID, func(t *domain.Ticket) error {
		t.AssignedTo = &selected
		t.Touch()
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.broadcaster != nil {
		_ = s.broadcaster.Broadcast(domain.Event{
			Type:     domain.EventTicketAssigned,
			Payload:  updated,
			TicketID: updated.ID,
		})
	}
	return updated, nil
}

// BulkUpdate applies the updates to each ticket in input order. Every
// input id lands in exactly one outcome bucket: updated, not_found, or
// failed. A failure on one ticket never aborts processing of the rest.
func (s *AssignmentService) BulkUpdate(ctx context.Context, ticketIDs []string, updates domain.BulkTicketUpdate) (domain.BulkUpdateResult, error) {
	result := domain.NewBulkUpdateResult()

	// A malformed updates payload rejects the whole call before any
	// ticket is touched.
	if err := updates.Validate(); err != nil {
		return result, err
	}

	update := updates.AsTicketUpdate()
	for _, id := range ticketIDs {
		updated, err := s.ticketRepo.Mutate(ctx, id, func(t *domain.Ticket) error {
			t.Apply(update)
			return nil
		})
		switch {
		case err == nil:
			result.Updated = append(result.Updated, id)
			if s.broadcaster != nil {
				_ = s.broadcaster.Broadcast(domain.Event{
					Type:     domain.EventTicketUpdated,
					Payload:  updated,
					TicketID: updated.ID,
				})
			}
		case errors.Is(err, apperrors.ErrTicketNotFound):
			result.NotFound = append(result.NotFound, id)
		default:
			// Unexpected per-item fault (e.g. a storage error):
			// recorded and skipped, never fatal to the batch.
			result.Failed = append(result.Failed, id)
		}
	}

	return result, nil
}
