package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lorrc/ticket-tracker-backend/internal/core/domain"
	"github.com/lorrc/ticket-tracker-backend/internal/core/ports"
)

func strPtr(s string) *string { return &s }

// SeedDemoTickets inserts a small set of sample tickets for demo
// environments. It works against any ticket store.
func SeedDemoTickets(ctx context.Context, repo ports.TicketRepository) error {
	samples := []*domain.Ticket{
		{
			ID:          uuid.NewString(),
			Title:       "Login page not responsive on mobile",
			Description: "Users report login form not displaying correctly on mobile devices. Buttons are cut off on iPhone 12.",
			Status:      domain.StatusOpen,
			Priority:    domain.PriorityHigh,
			AssignedTo:  strPtr("Sarah Johnson"),
			CreatedAt:   time.Date(2024, 1, 28, 10, 30, 0, 0, time.UTC),
			UpdatedAt:   time.Date(2024, 1, 28, 10, 30, 0, 0, time.UTC),
		},
		{
			ID:          uuid.NewString(),
			Title:       "Add dark mode support",
			Description: "Implement dark mode theme across the application for better user experience during night-time.",
			Status:      domain.StatusInProgress,
			Priority:    domain.PriorityMedium,
			AssignedTo:  strPtr("Mike Chen"),
			CreatedAt:   time.Date(2024, 1, 27, 14, 20, 0, 0, time.UTC),
			UpdatedAt:   time.Date(2024, 1, 30, 9, 15, 0, 0, time.UTC),
		},
		{
			ID:          uuid.NewString(),
			Title:       "Database backup automation",
			Description: "Setup automated daily backups for production database with 30-day retention policy.",
			Status:      domain.StatusResolved,
			Priority:    domain.PriorityCritical,
			AssignedTo:  strPtr("Alex Martinez"),
			CreatedAt:   time.Date(2024, 1, 25, 8, 0, 0, 0, time.UTC),
			UpdatedAt:   time.Date(2024, 1, 29, 16, 45, 0, 0, time.UTC),
		},
		{
			ID:          uuid.NewString(),
			Title:       "Update user profile API",
			Description: "Add ability to upload profile pictures and update bio information.",
			Status:      domain.StatusOpen,
			Priority:    domain.PriorityLow,
			AssignedTo:  nil,
			CreatedAt:   time.Date(2024, 1, 26, 11, 0, 0, 0, time.UTC),
			UpdatedAt:   time.Date(2024, 1, 26, 11, 0, 0, 0, time.UTC),
		},
	}

	for _, ticket := range samples {
		if _, err := repo.Create(ctx, ticket); err != nil {
			return err
		}
	}
	return nil
}
