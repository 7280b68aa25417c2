package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/lorrc/ticket-tracker-backend/internal/core/domain"
	apperrors "github.com/lorrc/ticket-tracker-backend/internal/core/errors"
	"github.com/lorrc/ticket-tracker-backend/internal/core/mocks"
	"github.com/lorrc/ticket-tracker-backend/internal/core/ports"
	"github.com/lorrc/ticket-tracker-backend/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestTicketService_CreateTicket(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mockRepo := mocks.NewMockTicketRepository()
		mockBroadcaster := mocks.NewMockEventBroadcaster()

		svc := services.NewTicketService(mockRepo, mockBroadcaster)

		mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.Ticket")).
			Return(&domain.Ticket{
				ID:          "ticket-1",
				Title:       "Login page broken",
				Description: "The login form returns a 500",
				Status:      domain.StatusOpen,
				Priority:    domain.PriorityHigh,
			}, nil)
		mockBroadcaster.On("Broadcast", mock.AnythingOfType("domain.Event")).Return(nil)

		params := ports.CreateTicketParams{
			Title:       "Login page broken",
			Description: "The login form returns a 500",
			Priority:    domain.PriorityHigh,
		}

		ticket, err := svc.CreateTicket(ctx, params)

		require.NoError(t, err)
		require.NotNil(t, ticket)
		assert.Equal(t, "ticket-1", ticket.ID)
		assert.Equal(t, domain.StatusOpen, ticket.Status)

		mockRepo.AssertExpectations(t)
		mockBroadcaster.AssertExpectations(t)
	})

	t.Run("broadcasts created event", func(t *testing.T) {
		mockRepo := mocks.NewMockTicketRepository()
		mockBroadcaster := mocks.NewMockEventBroadcaster()

		svc := services.NewTicketService(mockRepo, mockBroadcaster)

		created := &domain.Ticket{ID: "ticket-1"}
		mockRepo.On("Create", ctx, mock.Anything).Return(created, nil)
		mockBroadcaster.On("Broadcast", mock.MatchedBy(func(e domain.Event) bool {
			return e.Type == domain.EventTicketCreated && e.TicketID == "ticket-1"
		})).Return(nil)

		_, err := svc.CreateTicket(ctx, ports.CreateTicketParams{
			Title:       "Valid title",
			Description: "A valid description",
		})

		require.NoError(t, err)
		mockBroadcaster.AssertExpectations(t)
	})

	t.Run("validation error skips persistence", func(t *testing.T) {
		mockRepo := mocks.NewMockTicketRepository()
		mockBroadcaster := mocks.NewMockEventBroadcaster()

		svc := services.NewTicketService(mockRepo, mockBroadcaster)

		ticket, err := svc.CreateTicket(ctx, ports.CreateTicketParams{
			Title:       "ab", // Below minimum length
			Description: "A valid description",
		})

		assert.Nil(t, ticket)
		require.Error(t, err)

		var validationErrs *apperrors.ValidationErrors
		assert.ErrorAs(t, err, &validationErrs)
		mockRepo.AssertNotCalled(t, "Create")
		mockBroadcaster.AssertNotCalled(t, "Broadcast")
	})

	t.Run("repository error propagates without broadcast", func(t *testing.T) {
		mockRepo := mocks.NewMockTicketRepository()
		mockBroadcaster := mocks.NewMockEventBroadcaster()

		svc := services.NewTicketService(mockRepo, mockBroadcaster)

		mockRepo.On("Create", ctx, mock.Anything).Return(nil, assert.AnError)

		ticket, err := svc.CreateTicket(ctx, ports.CreateTicketParams{
			Title:       "Valid title",
			Description: "A valid description",
		})

		assert.Nil(t, ticket)
		assert.ErrorIs(t, err, assert.AnError)
		mockBroadcaster.AssertNotCalled(t, "Broadcast")
	})
}

func TestTicketService_GetTicket(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mockRepo := mocks.NewMockTicketRepository()
		svc := services.NewTicketService(mockRepo, nil)

		mockRepo.On("GetByID", ctx, "ticket-1").
			Return(&domain.Ticket{ID: "ticket-1", Title: "Existing"}, nil)

		ticket, err := svc.GetTicket(ctx, "ticket-1")

		require.NoError(t, err)
		assert.Equal(t, "Existing", ticket.Title)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo := mocks.NewMockTicketRepository()
		svc := services.NewTicketService(mockRepo, nil)

		mockRepo.On("GetByID", ctx, "missing").Return(nil, apperrors.ErrTicketNotFound)

		ticket, err := svc.GetTicket(ctx, "missing")

		assert.Nil(t, ticket)
		assert.ErrorIs(t, err, apperrors.ErrTicketNotFound)
	})
}

func TestTicketService_ListTickets(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	stored := []*domain.Ticket{
		{ID: "a", Status: domain.StatusOpen, Priority: domain.PriorityLow, CreatedAt: base},
		{ID: "b", Status: domain.StatusClosed, Priority: domain.PriorityHigh, CreatedAt: base.Add(time.Hour)},
		{ID: "c", Status: domain.StatusOpen, Priority: domain.PriorityHigh, CreatedAt: base.Add(2 * time.Hour)},
	}

	t.Run("no filters returns everything newest first", func(t *testing.T) {
		mockRepo := mocks.NewMockTicketRepository()
		svc := services.NewTicketService(mockRepo, nil)

		mockRepo.On("List", ctx).Return(stored, nil)

		tickets, err := svc.ListTickets(ctx, ports.ListTicketsParams{})

		require.NoError(t, err)
		require.Len(t, tickets, 3)
		assert.Equal(t, "c", tickets[0].ID)
		assert.Equal(t, "a", tickets[2].ID)
	})

	t.Run("status and priority filters combine", func(t *testing.T) {
		mockRepo := mocks.NewMockTicketRepository()
		svc := services.NewTicketService(mockRepo, nil)

		mockRepo.On("List", ctx).Return(stored, nil)

		status := "open"
		priority := "high"
		tickets, err := svc.ListTickets(ctx, ports.ListTicketsParams{Status: &status, Priority: &priority})

		require.NoError(t, err)
		require.Len(t, tickets, 1)
		assert.Equal(t, "c", tickets[0].ID)
	})

	t.Run("unknown filter value returns empty list", func(t *testing.T) {
		mockRepo := mocks.NewMockTicketRepository()
		svc := services.NewTicketService(mockRepo, nil)

		mockRepo.On("List", ctx).Return(stored, nil)

		status := "archived"
		tickets, err := svc.ListTickets(ctx, ports.ListTicketsParams{Status: &status})

		require.NoError(t, err)
		assert.Empty(t, tickets)
	})
}

func TestTicketService_UpdateTicket(t *testing.T) {
	ctx := context.Background()

	t.Run("applies update atomically", func(t *testing.T) {
		mockRepo := mocks.NewMockTicketRepository()
		mockBroadcaster := mocks.NewMockEventBroadcaster()
		svc := services.NewTicketService(mockRepo, mockBroadcaster)

		stored := &domain.Ticket{
			ID:        "ticket-1",
			Title:     "Old title",
			Status:    domain.StatusOpen,
			CreatedAt: time.Now().UTC().Add(-time.Hour),
		}
		mockRepo.On("Mutate", ctx, "ticket-1", mock.AnythingOfType("func(*domain.Ticket) error")).
			Return(stored, nil)
		mockBroadcaster.On("Broadcast", mock.MatchedBy(func(e domain.Event) bool {
			return e.Type == domain.EventTicketUpdated
		})).Return(nil)

		newStatus := domain.StatusInProgress
		updated, err := svc.UpdateTicket(ctx, "ticket-1", domain.TicketUpdate{Status: &newStatus})

		require.NoError(t, err)
		assert.Equal(t, domain.StatusInProgress, updated.Status)
		mockBroadcaster.AssertExpectations(t)
	})

	t.Run("invalid update never reaches the store", func(t *testing.T) {
		mockRepo := mocks.NewMockTicketRepository()
		svc := services.NewTicketService(mockRepo, nil)

		badStatus := domain.TicketStatus("archived")
		updated, err := svc.UpdateTicket(ctx, "ticket-1", domain.TicketUpdate{Status: &badStatus})

		assert.Nil(t, updated)
		require.Error(t, err)
		mockRepo.AssertNotCalled(t, "Mutate")
	})

	t.Run("missing ticket propagates not found", func(t *testing.T) {
		mockRepo := mocks.NewMockTicketRepository()
		mockBroadcaster := mocks.NewMockEventBroadcaster()
		svc := services.NewTicketService(mockRepo, mockBroadcaster)

		mockRepo.On("Mutate", ctx, "missing", mock.Anything).
			Return(nil, apperrors.ErrTicketNotFound)

		updated, err := svc.UpdateTicket(ctx, "missing", domain.TicketUpdate{})

		assert.Nil(t, updated)
		assert.ErrorIs(t, err, apperrors.ErrTicketNotFound)
		mockBroadcaster.AssertNotCalled(t, "Broadcast")
	})
}

func TestTicketService_DeleteTicket(t *testing.T) {
	ctx := context.Background()

	t.Run("success broadcasts deleted event", func(t *testing.T) {
		mockRepo := mocks.NewMockTicketRepository()
		mockBroadcaster := mocks.NewMockEventBroadcaster()
		svc := services.NewTicketService(mockRepo, mockBroadcaster)

		mockRepo.On("Delete", ctx, "ticket-1").Return(nil)
		mockBroadcaster.On("Broadcast", mock.MatchedBy(func(e domain.Event) bool {
			return e.Type == domain.EventTicketDeleted && e.TicketID == "ticket-1"
		})).Return(nil)

		require.NoError(t, svc.DeleteTicket(ctx, "ticket-1"))
		mockBroadcaster.AssertExpectations(t)
	})

	t.Run("not found propagates without broadcast", func(t *testing.T) {
		mockRepo := mocks.NewMockTicketRepository()
		mockBroadcaster := mocks.NewMockEventBroadcaster()
		svc := services.NewTicketService(mockRepo, mockBroadcaster)

		mockRepo.On("Delete", ctx, "missing").Return(apperrors.ErrTicketNotFound)

		err := svc.DeleteTicket(ctx, "missing")

		assert.ErrorIs(t, err, apperrors.ErrTicketNotFound)
		mockBroadcaster.AssertNotCalled(t, "Broadcast")
	})
}
