package domain_test

import (
	"testing"
	"time"

	"github.com/lorrc/ticket-tracker-backend/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeTicket(id string, status domain.TicketStatus, priority domain.TicketPriority, createdAt time.Time) *domain.Ticket {
	return &domain.Ticket{
		ID:        id,
		Title:     "Ticket " + id,
		Status:    status,
		Priority:  priority,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestFilterTickets(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tickets := []*domain.Ticket{
		makeTicket("a", domain.StatusOpen, domain.PriorityLow, base),
		makeTicket("b", domain.StatusClosed, domain.PriorityHigh, base),
		makeTicket("c", domain.StatusOpen, domain.PriorityHigh, base),
	}

	t.Run("nil filters match everything", func(t *testing.T) {
		result := domain.FilterTickets(tickets, nil, nil)
		assert.Len(t, result, 3)
	})

	t.Run("status filter", func(t *testing.T) {
		status := domain.StatusOpen
		result := domain.FilterTickets(tickets, &status, nil)
		require.Len(t, result, 2)
		assert.Equal(t, "a", result[0].ID)
		assert.Equal(t, "c", result[1].ID)
	})

	t.Run("combined filters are conjunctive", func(t *testing.T) {
		status := domain.StatusOpen
		priority := domain.PriorityHigh
		result := domain.FilterTickets(tickets, &status, &priority)
		require.Len(t, result, 1)
		assert.Equal(t, "c", result[0].ID)
	})

	t.Run("unknown value matches nothing", func(t *testing.T) {
		status := domain.TicketStatus("archived")
		result := domain.FilterTickets(tickets, &status, nil)
		assert.Empty(t, result)
	})

	t.Run("empty input yields empty output", func(t *testing.T) {
		result := domain.FilterTickets(nil, nil, nil)
		assert.Empty(t, result)
	})
}

func TestSortByCreatedDesc(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("newest first", func(t *testing.T) {
		tickets := []*domain.Ticket{
			makeTicket("oldest", domain.StatusOpen, domain.PriorityLow, base),
			makeTicket("newest", domain.StatusOpen, domain.PriorityLow, base.Add(2*time.Hour)),
			makeTicket("middle", domain.StatusOpen, domain.PriorityLow, base.Add(time.Hour)),
		}

		result := domain.SortByCreatedDesc(tickets)

		require.Len(t, result, 3)
		assert.Equal(t, "newest", result[0].ID)
		assert.Equal(t, "middle", result[1].ID)
		assert.Equal(t, "oldest", result[2].ID)
	})

	t.Run("equal timestamps keep insertion order", func(t *testing.T) {
		tickets := []*domain.Ticket{
			makeTicket("first", domain.StatusOpen, domain.PriorityLow, base),
			makeTicket("second", domain.StatusOpen, domain.PriorityLow, base),
			makeTicket("third", domain.StatusOpen, domain.PriorityLow, base),
		}

		result := domain.SortByCreatedDesc(tickets)

		require.Len(t, result, 3)
		assert.Equal(t, "first", result[0].ID)
		assert.Equal(t, "second", result[1].ID)
		assert.Equal(t, "third", result[2].ID)
	})

	t.Run("input slice is untouched", func(t *testing.T) {
		tickets := []*domain.Ticket{
			makeTicket("old", domain.StatusOpen, domain.PriorityLow, base),
			makeTicket("new", domain.StatusOpen, domain.PriorityLow, base.Add(time.Hour)),
		}

		_ = domain.SortByCreatedDesc(tickets)

		assert.Equal(t, "old", tickets[0].ID)
		assert.Equal(t, "new", tickets[1].ID)
	})
}

func TestQueryTickets(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tickets := []*domain.Ticket{
		makeTicket("a", domain.StatusOpen, domain.PriorityLow, base),
		makeTicket("b", domain.StatusOpen, domain.PriorityLow, base.Add(time.Hour)),
		makeTicket("c", domain.StatusClosed, domain.PriorityLow, base.Add(2*time.Hour)),
	}

	status := domain.StatusOpen
	result := domain.QueryTickets(tickets, &status, nil)

	require.Len(t, result, 2)
	assert.Equal(t, "b", result[0].ID)
	assert.Equal(t, "a", result[1].ID)
}
