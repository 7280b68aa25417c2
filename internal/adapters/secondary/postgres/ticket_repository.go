package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lorrc/ticket-tracker-backend/internal/core/domain"
	apperrors "github.com/lorrc/ticket-tracker-backend/internal/core/errors"
	"github.com/lorrc/ticket-tracker-backend/internal/core/ports"
)

// TicketRepository is the secondary adapter for durable ticket
// persistence. Rows carry a serial seq column so List preserves
// insertion order, matching the in-memory store's snapshot semantics.
type TicketRepository struct {
	pool *pgxpool.Pool
}

// Ensure TicketRepository implements the ports.TicketRepository interface.
var _ ports.TicketRepository = (*TicketRepository)(nil)

// NewTicketRepository creates a new ticket repository.
func NewTicketRepository(pool *pgxpool.Pool) *TicketRepository {
	return &TicketRepository{pool: pool}
}

const ticketColumns = `id, title, description, status, priority, assigned_to, created_at, updated_at`

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var (
		ticket     domain.Ticket
		assignedTo pgtype.Text
		status     string
		priority   string
	)
	err := row.Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&status,
		&priority,
		&assignedTo,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, err
	}

	ticket.Status = domain.TicketStatus(status)
	ticket.Priority = domain.TicketPriority(priority)
	if assignedTo.Valid {
		value := assignedTo.String
		ticket.AssignedTo = &value
	}
	return &ticket, nil
}

func assignedToText(ticket *domain.Ticket) pgtype.Text {
	if ticket.AssignedTo == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *ticket.AssignedTo, Valid: true}
}

// Create persists a new ticket entity.
func (r *TicketRepository) Create(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error) {
	const query = `
INSERT INTO tickets (id, title, description, status, priority, assigned_to, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + ticketColumns

	row := r.pool.QueryRow(ctx, query,
		ticket.ID,
		ticket.Title,
		ticket.Description,
		string(ticket.Status),
		string(ticket.Priority),
		assignedToText(ticket),
		ticket.CreatedAt,
		ticket.UpdatedAt,
	)
	return scanTicket(row)
}

// GetByID retrieves a single ticket by its ID.
func (r *TicketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	const query = `SELECT ` + ticketColumns + ` FROM tickets WHERE id = $1`
	return scanTicket(r.pool.QueryRow(ctx, query, id))
}

// List returns all live tickets in insertion order.
func (r *TicketRepository) List(ctx context.Context) ([]*domain.Ticket, error) {
	const query = `SELECT ` + ticketColumns + ` FROM tickets ORDER BY seq`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make([]*domain.Ticket, 0)
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tickets, nil
}

// Mutate runs fn against the ticket inside a transaction holding a row
// lock, so the read-modify-write cannot interleave with another
// mutation of the same ticket. If fn fails the transaction rolls back
// and the row is untouched.
func (r *TicketRepository) Mutate(ctx context.Context, id string, fn func(*domain.Ticket) error) (*domain.Ticket, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const selectQuery = `SELECT ` + ticketColumns + ` FROM tickets WHERE id = $1 FOR UPDATE`
	ticket, err := scanTicket(tx.QueryRow(ctx, selectQuery, id))
	if err != nil {
		return nil, err
	}

	if err := fn(ticket); err != nil {
		return nil, err
	}

	const updateQuery = `
UPDATE tickets
SET title = $2, description = $3, status = $4, priority = $5, assigned_to = $6, updated_at = $7
WHERE id = $1
RETURNING ` + ticketColumns

	updated, err := scanTicket(tx.QueryRow(ctx, updateQuery,
		ticket.ID,
		ticket.Title,
		ticket.Description,
		string(ticket.Status),
		string(ticket.Priority),
		assignedToText(ticket),
		ticket.UpdatedAt,
	))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a ticket permanently.
func (r *TicketRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tickets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrTicketNotFound
	}
	return nil
}
