package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lorrc/ticket-tracker-backend/internal/adapters/primary/validation"
	"github.com/lorrc/ticket-tracker-backend/internal/core/domain"
	"github.com/lorrc/ticket-tracker-backend/internal/core/ports"
)

// StatsHandler handles HTTP requests for statistics and reports
type StatsHandler struct {
	statsService ports.StatsService
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(statsService ports.StatsService, errorHandler *ErrorHandler, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "stats"),
	}
}

// Router sets up a new chi Router for the stats routes.
func (h *StatsHandler) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.HandleBasicStats)
	r.Get("/workload", h.HandleWorkloadReport)
	return r
}

// --- Response DTOs ---

// StatsDTO defines the JSON response for basic stats
type StatsDTO struct {
	Total      int            `json:"total"`
	ByStatus   map[string]int `json:"by_status"`
	ByPriority map[string]int `json:"by_priority"`
}

// WorkloadDTO defines the JSON response for the workload report
type WorkloadDTO struct {
	CompletionRate        float64        `json:"completion_rate"`
	AverageResolutionDays float64        `json:"average_resolution_days"`
	ByAssignee            map[string]int `json:"by_assignee"`
	HighPriorityOpen      int            `json:"high_priority_open"`
}

// DetailedReportDTO defines the JSON response for the detailed report
type DetailedReportDTO struct {
	Total            int            `json:"total"`
	AverageAgeDays   int            `json:"average_age_days"`
	OldestTicketDays int            `json:"oldest_ticket_days"`
	UnassignedCount  int            `json:"unassigned_count"`
	ByStatus         map[string]int `json:"by_status"`
	ByPriority       map[string]int `json:"by_priority"`
}

func statusCountsDTO(counts map[domain.TicketStatus]int) map[string]int {
	out := make(map[string]int, len(counts))
	for status, count := range counts {
		out[string(status)] = count
	}
	return out
}

func priorityCountsDTO(counts map[domain.TicketPriority]int) map[string]int {
	out := make(map[string]int, len(counts))
	for priority, count := range counts {
		out[string(priority)] = count
	}
	return out
}

func toStatsDTO(stats domain.TicketStats) StatsDTO {
	return StatsDTO{
		Total:      stats.Total,
		ByStatus:   statusCountsDTO(stats.ByStatus),
		ByPriority: priorityCountsDTO(stats.ByPriority),
	}
}

func toWorkloadDTO(report domain.WorkloadReport) WorkloadDTO {
	return WorkloadDTO{
		CompletionRate:        report.CompletionRate,
		AverageResolutionDays: report.AverageResolutionDays,
		ByAssignee:            report.ByAssignee,
		HighPriorityOpen:      report.HighPriorityOpen,
	}
}

func toDetailedReportDTO(report domain.DetailedReport) DetailedReportDTO {
	return DetailedReportDTO{
		Total:            report.Total,
		AverageAgeDays:   report.AverageAgeDays,
		OldestTicketDays: report.OldestTicketDays,
		UnassignedCount:  report.UnassignedCount,
		ByStatus:         statusCountsDTO(report.ByStatus),
		ByPriority:       priorityCountsDTO(report.ByPriority),
	}
}

// --- Handlers ---

// HandleBasicStats handles GET /stats
func (h *StatsHandler) HandleBasicStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsService.BasicStats(r.Context())
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, toStatsDTO(stats))
}

// HandleWorkloadReport handles GET /stats/workload
func (h *StatsHandler) HandleWorkloadReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.statsService.WorkloadReport(r.Context())
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, toWorkloadDTO(report))
}

// HandleDetailedReport handles GET /reports/detailed
func (h *StatsHandler) HandleDetailedReport(w http.ResponseWriter, r *http.Request) {
	// An unknown status value matches nothing and yields a zero report,
	// mirroring the list filter semantics.
	status := validation.ParseStringQueryParam(r, "status")

	report, err := h.statsService.DetailedReport(r.Context(), status)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, toDetailedReportDTO(report))
}

// RegisterReportRoutes mounts the report endpoints on the given router.
func (h *StatsHandler) RegisterReportRoutes(r chi.Router) {
	r.Get("/detailed", h.HandleDetailedReport)
}
