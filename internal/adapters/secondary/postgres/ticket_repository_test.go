package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/ticket-tracker-backend/internal/core/domain"
	apperrors "github.com/lorrc/ticket-tracker-backend/internal/core/errors"
)

// Helper to build a valid new ticket for repository tests
func newTestTicket(t *testing.T, title string) *domain.Ticket {
	t.Helper()
	ticket, err := domain.NewTicket(domain.TicketParams{
		Title:       title,
		Description: "A description long enough to pass validation",
		Priority:    domain.PriorityMedium,
	})
	require.NoError(t, err)
	return ticket
}

func TestTicketRepository_CreateGet(t *testing.T) {
	ctx := context.Background()
	repo := NewTicketRepository(testPool)

	created, err := repo.Create(ctx, newTestTicket(t, "Test Ticket"))
	require.NoError(t, err, "Failed to create ticket")
	assert.NotEmpty(t, created.ID)

	found, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err, "Failed to get ticket by ID")

	assert.Equal(t, "Test Ticket", found.Title)
	assert.Equal(t, "A description long enough to pass validation", found.Description)
	assert.Equal(t, domain.PriorityMedium, found.Priority)
	assert.Equal(t, domain.StatusOpen, found.Status)
	assert.Nil(t, found.AssignedTo)
	assert.False(t, found.CreatedAt.IsZero())
	assert.Equal(t, found.CreatedAt, found.UpdatedAt)
}

func TestTicketRepository_GetByID_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewTicketRepository(testPool)

	_, err := repo.GetByID(ctx, "does-not-exist")
	assert.ErrorIs(t, err, apperrors.ErrTicketNotFound)
}

func TestTicketRepository_ListInsertionOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewTicketRepository(testPool)

	first, err := repo.Create(ctx, newTestTicket(t, "First Ticket"))
	require.NoError(t, err)
	second, err := repo.Create(ctx, newTestTicket(t, "Second Ticket"))
	require.NoError(t, err)

	tickets, err := repo.List(ctx)
	require.NoError(t, err)

	// The shared database may hold tickets from other tests; only the
	// relative order of ours matters.
	firstIdx, secondIdx := -1, -1
	for i, ticket := range tickets {
		switch ticket.ID {
		case first.ID:
			firstIdx = i
		case second.ID:
			secondIdx = i
		}
	}
	require.NotEqual(t, -1, firstIdx)
	require.NotEqual(t, -1, secondIdx)
	assert.Less(t, firstIdx, secondIdx, "List must preserve insertion order")
}

func TestTicketRepository_Mutate(t *testing.T) {
	ctx := context.Background()
	repo := NewTicketRepository(testPool)

	created, err := repo.Create(ctx, newTestTicket(t, "Mutate Ticket"))
	require.NoError(t, err)

	status := domain.StatusInProgress
	updated, err := repo.Mutate(ctx, created.ID, func(ticket *domain.Ticket) error {
		ticket.Apply(domain.TicketUpdate{Status: &status})
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, updated.Status)
	assert.True(t, !updated.UpdatedAt.Before(created.UpdatedAt))

	found, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, found.Status)
}

func TestTicketRepository_Mutate_FnErrorRollsBack(t *testing.T) {
	ctx := context.Background()
	repo := NewTicketRepository(testPool)

	created, err := repo.Create(ctx, newTestTicket(t, "Rollback Ticket"))
	require.NoError(t, err)

	_, err = repo.Mutate(ctx, created.ID, func(ticket *domain.Ticket) error {
		ticket.Title = "Changed"
		return assert.AnError
	})
	require.Error(t, err)

	found, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rollback Ticket", found.Title)
}

func TestTicketRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewTicketRepository(testPool)

	created, err := repo.Create(ctx, newTestTicket(t, "Delete Ticket"))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created.ID))

	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrTicketNotFound)

	err = repo.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrTicketNotFound)
}
