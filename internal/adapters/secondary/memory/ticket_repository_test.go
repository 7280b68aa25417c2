package memory_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/lorrc/ticket-tracker-backend/internal/adapters/secondary/memory"
	"github.com/lorrc/ticket-tracker-backend/internal/core/domain"
	apperrors "github.com/lorrc/ticket-tracker-backend/internal/core/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStoredTicket(t *testing.T, repo *memory.TicketRepository, title string) *domain.Ticket {
	t.Helper()

	ticket, err := domain.NewTicket(domain.TicketParams{
		Title:       title,
		Description: "A valid description for " + title,
	})
	require.NoError(t, err)

	created, err := repo.Create(context.Background(), ticket)
	require.NoError(t, err)
	return created
}

func TestTicketRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewTicketRepository()

	created := newStoredTicket(t, repo, "First ticket")

	found, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "First ticket", found.Title)
}

func TestTicketRepository_GetByID_NotFound(t *testing.T) {
	repo := memory.NewTicketRepository()

	_, err := repo.GetByID(context.Background(), "does-not-exist")
	assert.ErrorIs(t, err, apperrors.ErrTicketNotFound)
}

func TestTicketRepository_List_InsertionOrder(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewTicketRepository()

	var ids []string
	for i := 0; i < 5; i++ {
		created := newStoredTicket(t, repo, fmt.Sprintf("Ticket %d", i))
		ids = append(ids, created.ID)
	}

	tickets, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, tickets, 5)
	for i, ticket := range tickets {
		assert.Equal(t, ids[i], ticket.ID)
	}
}

func TestTicketRepository_CloneIsolation(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewTicketRepository()

	created := newStoredTicket(t, repo, "Isolated ticket")

	// Mutating the returned record must not leak into the store
	created.Title = "Corrupted"

	found, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Isolated ticket", found.Title)

	// Same for records handed out by List
	tickets, err := repo.List(ctx)
	require.NoError(t, err)
	tickets[0].Title = "Also corrupted"

	found, err = repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Isolated ticket", found.Title)
}

func TestTicketRepository_Mutate(t *testing.T) {
	ctx := context.Background()

	t.Run("applies mutation", func(t *testing.T) {
		repo := memory.NewTicketRepository()
		created := newStoredTicket(t, repo, "Mutable ticket")

		updated, err := repo.Mutate(ctx, created.ID, func(ticket *domain.Ticket) error {
			ticket.Status = domain.StatusInProgress
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, domain.StatusInProgress, updated.Status)

		found, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusInProgress, found.Status)
	})

	t.Run("fn error leaves the record untouched", func(t *testing.T) {
		repo := memory.NewTicketRepository()
		created := newStoredTicket(t, repo, "Guarded ticket")

		_, err := repo.Mutate(ctx, created.ID, func(ticket *domain.Ticket) error {
			ticket.Status = domain.StatusClosed
			return assert.AnError
		})
		assert.ErrorIs(t, err, assert.AnError)

		found, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusOpen, found.Status)
	})

	t.Run("missing ticket", func(t *testing.T) {
		repo := memory.NewTicketRepository()

		_, err := repo.Mutate(ctx, "does-not-exist", func(*domain.Ticket) error { return nil })
		assert.ErrorIs(t, err, apperrors.ErrTicketNotFound)
	})

	t.Run("concurrent mutations are not lost", func(t *testing.T) {
		repo := memory.NewTicketRepository()
		created := newStoredTicket(t, repo, "Contended ticket")

		const workers = 20
		var wg sync.WaitGroup
		wg.Add(workers)
		for i := 0; i < workers; i++ {
			go func(n int) {
				defer wg.Done()
				assignee := fmt.Sprintf("member-%d", n)
				_, err := repo.Mutate(ctx, created.ID, func(ticket *domain.Ticket) error {
					ticket.AssignedTo = &assignee
					return nil
				})
				assert.NoError(t, err)
			}(i)
		}
		wg.Wait()

		found, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.NotNil(t, found.AssignedTo)
	})
}

func TestTicketRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewTicketRepository()

	created := newStoredTicket(t, repo, "Doomed ticket")
	keeper := newStoredTicket(t, repo, "Surviving ticket")

	require.NoError(t, repo.Delete(ctx, created.ID))

	_, err := repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrTicketNotFound)

	// Second delete reports not found
	assert.ErrorIs(t, repo.Delete(ctx, created.ID), apperrors.ErrTicketNotFound)

	// Insertion order survives deletion
	tickets, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, keeper.ID, tickets[0].ID)
}

func TestSeedDemoTickets(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewTicketRepository()

	require.NoError(t, memory.SeedDemoTickets(ctx, repo))

	tickets, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, tickets, 4)

	for _, ticket := range tickets {
		assert.True(t, ticket.Status.IsValid())
		assert.True(t, ticket.Priority.IsValid())
		assert.NotEmpty(t, ticket.ID)
	}
}
