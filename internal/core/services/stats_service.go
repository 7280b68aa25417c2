package services

import (
	"context"
	"time"

	"github.com/lorrc/ticket-tracker-backend/internal/core/domain"
	"github.com/lorrc/ticket-tracker-backend/internal/core/ports"
)

// StatsService computes reporting views over a snapshot of the store.
// All computation is delegated to stateless domain functions; each
// call reads the store exactly once.
type StatsService struct {
	ticketRepo ports.TicketRepository
	now        func() time.Time
}

var _ ports.StatsService = (*StatsService)(nil)

// NewStatsService creates a new stats service.
func NewStatsService(ticketRepo ports.TicketRepository) *StatsService {
	return &StatsService{
		ticketRepo: ticketRepo,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// BasicStats returns the dashboard distributions.
func (s *StatsService) BasicStats(ctx context.Context) (domain.TicketStats, error) {
	tickets, err := s.ticketRepo.List(ctx)
	if err != nil {
		return domain.TicketStats{}, err
	}
	return domain.ComputeStats(tickets), nil
}

// WorkloadReport returns completion rate, average resolution time,
// per-assignee counts, and the high-priority open count.
func (s *StatsService) WorkloadReport(ctx context.Context) (domain.WorkloadReport, error) {
	tickets, err := s.ticketRepo.List(ctx)
	if err != nil {
		return domain.WorkloadReport{}, err
	}
	return domain.WorkloadReport{
		CompletionRate:        domain.CompletionRate(tickets),
		AverageResolutionDays: domain.AverageResolutionDays(tickets),
		ByAssignee:            domain.TicketsByAssignee(tickets),
		HighPriorityOpen:      domain.HighPriorityOpenCount(tickets),
	}, nil
}

// DetailedReport returns the full analytics view, optionally filtered
// by status.
func (s *StatsService) DetailedReport(ctx context.Context, status *string) (domain.DetailedReport, error) {
	tickets, err := s.ticketRepo.List(ctx)
	if err != nil {
		return domain.DetailedReport{}, err
	}

	var statusFilter *domain.TicketStatus
	if status != nil {
		value := domain.TicketStatus(*status)
		statusFilter = &value
	}

	return domain.BuildDetailedReport(tickets, statusFilter, s.now()), nil
}

// OverdueTickets returns open tickets older than maxDays.
func (s *StatsService) OverdueTickets(ctx context.Context, maxDays int) ([]*domain.Ticket, error) {
	tickets, err := s.ticketRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return domain.OverdueTickets(tickets, maxDays, s.now()), nil
}
