package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/lorrc/ticket-tracker-backend/internal/core/domain"
	apperrors "github.com/lorrc/ticket-tracker-backend/internal/core/errors"
	"github.com/lorrc/ticket-tracker-backend/internal/core/mocks"
	"github.com/lorrc/ticket-tracker-backend/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAssignmentService_AutoAssign(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns least busy member", func(t *testing.T) {
		mockRepo := mocks.NewMockTicketRepository()
		mockBroadcaster := mocks.NewMockEventBroadcaster()
		svc := services.NewAssignmentService(mockRepo, mockBroadcaster)

		mockRepo.On("List", ctx).Return([]*domain.Ticket{
			{ID: "a", AssignedTo: assignedAs("alice")},
			{ID: "b", AssignedTo: assignedAs("alice")},
		}, nil)
		mockRepo.On("Mutate", ctx, "ticket-1", mock.Anything).
			Return(&domain.Ticket{ID: "ticket-1", CreatedAt: time.Now().UTC()}, nil)
		mockBroadcaster.On("Broadcast", mock.MatchedBy(func(e domain.Event) bool {
			return e.Type == domain.EventTicketAssigned && e.TicketID == "ticket-1"
		})).Return(nil)

		ticket, err := svc.AutoAssign(ctx, "ticket-1", []string{"alice", "bob"})

		require.NoError(t, err)
		require.NotNil(t, ticket.AssignedTo)
		assert.Equal(t, "bob", *ticket.AssignedTo)
		mockBroadcaster.AssertExpectations(t)
	})

	t.Run("tie keeps first candidate", func(t *testing.T) {
		mockRepo := mocks.NewMockTicketRepository()
		svc := services.NewAssignmentService(mockRepo, nil)

		mockRepo.On("List", ctx).Return([]*domain.Ticket{}, nil)
		mockRepo.On("Mutate", ctx, "ticket-1", mock.Anything).
			Return(&domain.Ticket{ID: "ticket-1", CreatedAt: time.Now().UTC()}, nil)

		ticket, err := svc.AutoAssign(ctx, "ticket-1", []string{"carol", "alice", "bob"})

		require.NoError(t, err)
		assert.Equal(t, "carol", *ticket.AssignedTo)
	})

	t.Run("empty member list is rejected before touching the store", func(t *testing.T) {
		mockRepo := mocks.NewMockTicketRepository()
		svc := services.NewAssignmentService(mockRepo, nil)

		ticket, err := svc.AutoAssign(ctx, "ticket-1", nil)

		assert.Nil(t, ticket)
		assert.ErrorIs(t, err, apperrors.ErrNoCandidates)
		mockRepo.AssertNotCalled(t, "List")
		mockRepo.AssertNotCalled(t, "Mutate")
	})

	t.Run("missing ticket propagates not found", func(t *testing.T) {
		mockRepo := mocks.NewMockTicketRepository()
		mockBroadcaster := mocks.NewMockEventBroadcaster()
		svc := services.NewAssignmentService(mockRepo, mockBroadcaster)

		mockRepo.On("List", ctx).Return([]*domain.Ticket{}, nil)
		mockRepo.On("Mutate", ctx, "missing", mock.Anything).
			Return(nil, apperrors.ErrTicketNotFound)

		ticket, err := svc.AutoAssign(ctx, "missing", []string{"alice"})

		assert.Nil(t, ticket)
		assert.ErrorIs(t, err, apperrors.ErrTicketNotFound)
		mockBroadcaster.AssertNotCalled(t, "Broadcast")
	})
}

func TestAssignmentService_BulkUpdate(t *testing.T) {
	ctx := context.Background()
	closed := domain.StatusClosed

	t.Run("every id lands in exactly one bucket", func(t *testing.T) {
		mockRepo := mocks.NewMockTicketRepository()
		mockBroadcaster := mocks.NewMockEventBroadcaster()
		svc := services.NewAssignmentService(mockRepo, mockBroadcaster)

		now := time.Now().UTC()
		mockRepo.On("Mutate", ctx, "ok-1", mock.Anything).
			Return(&domain.Ticket{ID: "ok-1", CreatedAt: now}, nil)
		mockRepo.On("Mutate", ctx, "missing", mock.Anything).
			Return(nil, apperrors.ErrTicketNotFound)
		mockRepo.On("Mutate", ctx, "broken", mock.Anything).
			Return(nil, assert.AnError)
		mockRepo.On("Mutate", ctx, "ok-2", mock.Anything).
			Return(&domain.Ticket{ID: "ok-2", CreatedAt: now}, nil)
		mockBroadcaster.On("Broadcast", mock.Anything).Return(nil)

		result, err := svc.BulkUpdate(ctx, []string{"ok-1", "missing", "broken", "ok-2"},
			domain.BulkTicketUpdate{Status: &closed})

		require.NoError(t, err)
		assert.Equal(t, []string{"ok-1", "ok-2"}, result.Updated)
		assert.Equal(t, []string{"missing"}, result.NotFound)
		assert.Equal(t, []string{"broken"}, result.Failed)
	})

	t.Run("malformed updates abort before any mutation", func(t *testing.T) {
		mockRepo := mocks.NewMockTicketRepository()
		svc := services.NewAssignmentService(mockRepo, nil)

		badStatus := domain.TicketStatus("archived")
		_, err := svc.BulkUpdate(ctx, []string{"ok-1"}, domain.BulkTicketUpdate{Status: &badStatus})

		require.Error(t, err)
		mockRepo.AssertNotCalled(t, "Mutate")
	})

	t.Run("empty id list yields empty buckets", func(t *testing.T) {
		mockRepo := mocks.NewMockTicketRepository()
		svc := services.NewAssignmentService(mockRepo, nil)

		result, err := svc.BulkUpdate(ctx, nil, domain.BulkTicketUpdate{Status: &closed})

		require.NoError(t, err)
		assert.Empty(t, result.Updated)
		assert.Empty(t, result.NotFound)
		assert.Empty(t, result.Failed)
		mockRepo.AssertNotCalled(t, "Mutate")
	})

	t.Run("broadcasts one event per updated ticket", func(t *testing.T) {
		mockRepo := mocks.NewMockTicketRepository()
		mockBroadcaster := mocks.NewMockEventBroadcaster()
		svc := services.NewAssignmentService(mockRepo, mockBroadcaster)

		now := time.Now().UTC()
		mockRepo.On("Mutate", ctx, "ok-1", mock.Anything).
			Return(&domain.Ticket{ID: "ok-1", CreatedAt: now}, nil)
		mockRepo.On("Mutate", ctx, "missing", mock.Anything).
			Return(nil, apperrors.ErrTicketNotFound)
		mockBroadcaster.On("Broadcast", mock.Anything).Return(nil)

		_, err := svc.BulkUpdate(ctx, []string{"ok-1", "missing"}, domain.BulkTicketUpdate{Status: &closed})

		require.NoError(t, err)
		mockBroadcaster.AssertNumberOfCalls(t, "Broadcast", 1)
	})
}
