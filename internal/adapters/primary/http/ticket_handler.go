package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lorrc/ticket-tracker-backend/internal/adapters/primary/validation"
	"github.com/lorrc/ticket-tracker-backend/internal/core/domain"
	"github.com/lorrc/ticket-tracker-backend/internal/core/ports"
)

const defaultOverdueDays = 7

// TicketHandler handles HTTP requests for tickets
type TicketHandler struct {
	ticketService     ports.TicketService
	statsService      ports.StatsService
	assignmentService ports.AssignmentService
	errorHandler      *ErrorHandler
	logger            *slog.Logger
}

// NewTicketHandler creates a new ticket handler
func NewTicketHandler(
	ticketService ports.TicketService,
	statsService ports.StatsService,
	assignmentService ports.AssignmentService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *TicketHandler {
	return &TicketHandler{
		ticketService:     ticketService,
		statsService:      statsService,
		assignmentService: assignmentService,
		errorHandler:      errorHandler,
		logger:            logger.With("handler", "ticket"),
	}
}

// Router sets up a new chi Router for all ticket-related routes.
func (h *TicketHandler) Router() http.Handler {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes sets up the routing for all ticket endpoints.
func (h *TicketHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleListTickets)
	r.Post("/", h.HandleCreateTicket)
	r.Get("/overdue", h.HandleListOverdueTickets)
	r.Post("/bulk-update", h.HandleBulkUpdate)

	// Routes for a specific ticket
	r.Route("/{ticketID}", func(r chi.Router) {
		r.Get("/", h.HandleGetTicket)
		r.Put("/", h.HandleUpdateTicket)
		r.Delete("/", h.HandleDeleteTicket)
		r.Post("/auto-assign", h.HandleAutoAssign)
	})
}

// --- Request/Response DTOs ---

// CreateTicketRequest defines the expected JSON body for creating a ticket
type CreateTicketRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Priority    string  `json:"priority"`
	AssignedTo  *string `json:"assigned_to"`
}

// Validate validates the create ticket request
func (r *CreateTicketRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("title", r.Title).
		MinLength("title", r.Title, domain.MinTitleLength).
		MaxLength("title", r.Title, domain.MaxTitleLength)

	v.Required("description", r.Description).
		MinLength("description", r.Description, domain.MinDescriptionLength).
		MaxLength("description", r.Description, domain.MaxDescriptionLength)

	// Priority is optional; the domain defaults it to medium
	v.OneOf("priority", r.Priority, priorityValues())

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// UpdateTicketRequest defines the expected JSON body for a partial
// ticket update. Absent fields are left unchanged.
type UpdateTicketRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	AssignedTo  *string `json:"assigned_to"`
}

// Validate validates the update ticket request
func (r *UpdateTicketRequest) Validate() error {
	v := validation.NewValidator()

	if r.Title != nil {
		v.Required("title", *r.Title).
			MinLength("title", *r.Title, domain.MinTitleLength).
			MaxLength("title", *r.Title, domain.MaxTitleLength)
	}

	if r.Description != nil {
		v.Required("description", *r.Description).
			MinLength("description", *r.Description, domain.MinDescriptionLength).
			MaxLength("description", *r.Description, domain.MaxDescriptionLength)
	}

	if r.Status != nil {
		v.Required("status", *r.Status).
			OneOf("status", *r.Status, statusValues())
	}

	if r.Priority != nil {
		v.Required("priority", *r.Priority).
			OneOf("priority", *r.Priority, priorityValues())
	}

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

func (r *UpdateTicketRequest) toTicketUpdate() domain.TicketUpdate {
	update := domain.TicketUpdate{
		Title:       r.Title,
		Description: r.Description,
		AssignedTo:  r.AssignedTo,
	}
	if r.Status != nil {
		status := domain.TicketStatus(*r.Status)
		update.Status = &status
	}
	if r.Priority != nil {
		priority := domain.TicketPriority(*r.Priority)
		update.Priority = &priority
	}
	return update
}

// AutoAssignRequest defines the expected JSON body for auto-assignment
type AutoAssignRequest struct {
	Members []string `json:"members"`
}

// Validate validates the auto-assign request
func (r *AutoAssignRequest) Validate() error {
	v := validation.NewValidator()

	v.Custom("members", len(r.Members) > 0, "At least one team member is required")
	for _, member := range r.Members {
		if member == "" {
			v.Custom("members", false, "Member names must not be empty")
			break
		}
	}

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// BulkUpdateRequest defines the expected JSON body for bulk updates
type BulkUpdateRequest struct {
	TicketIDs []string `json:"ticket_ids"`
	Updates   struct {
		Status     *string `json:"status"`
		Priority   *string `json:"priority"`
		AssignedTo *string `json:"assigned_to"`
	} `json:"updates"`
}

// Validate validates the bulk update request
func (r *BulkUpdateRequest) Validate() error {
	v := validation.NewValidator()

	v.Custom("ticket_ids", len(r.TicketIDs) > 0, "At least one ticket ID is required")

	if r.Updates.Status != nil {
		v.OneOf("status", *r.Updates.Status, statusValues())
	}
	if r.Updates.Priority != nil {
		v.OneOf("priority", *r.Updates.Priority, priorityValues())
	}

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

func (r *BulkUpdateRequest) toBulkUpdate() domain.BulkTicketUpdate {
	update := domain.BulkTicketUpdate{
		AssignedTo: r.Updates.AssignedTo,
	}
	if r.Updates.Status != nil {
		status := domain.TicketStatus(*r.Updates.Status)
		update.Status = &status
	}
	if r.Updates.Priority != nil {
		priority := domain.TicketPriority(*r.Updates.Priority)
		update.Priority = &priority
	}
	return update
}

// TicketDTO defines the JSON response for tickets.
type TicketDTO struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	Priority    string  `json:"priority"`
	AssignedTo  *string `json:"assigned_to"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

func toTicketDTO(ticket *domain.Ticket) TicketDTO {
	return TicketDTO{
		ID:          ticket.ID,
		Title:       ticket.Title,
		Description: ticket.Description,
		Status:      string(ticket.Status),
		Priority:    string(ticket.Priority),
		AssignedTo:  ticket.AssignedTo,
		CreatedAt:   ticket.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   ticket.UpdatedAt.Format(time.RFC3339),
	}
}

func toTicketDTOs(tickets []*domain.Ticket) []TicketDTO {
	response := make([]TicketDTO, 0, len(tickets))
	for _, ticket := range tickets {
		response = append(response, toTicketDTO(ticket))
	}
	return response
}

func statusValues() []string {
	statuses := domain.AllStatuses()
	values := make([]string, 0, len(statuses))
	for _, s := range statuses {
		values = append(values, string(s))
	}
	return values
}

func priorityValues() []string {
	priorities := domain.AllPriorities()
	values := make([]string, 0, len(priorities))
	for _, p := range priorities {
		values = append(values, string(p))
	}
	return values
}

// --- Handlers ---

// HandleListTickets handles GET /tickets
func (h *TicketHandler) HandleListTickets(w http.ResponseWriter, r *http.Request) {
	status := validation.ParseStringQueryParam(r, "status")
	priority := validation.ParseStringQueryParam(r, "priority")

	params := ports.ListTicketsParams{
		Status:   status,
		Priority: priority,
	}

	tickets, err := h.ticketService.ListTickets(r.Context(), params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteList(w, toTicketDTOs(tickets))
}

// HandleCreateTicket handles POST /tickets
func (h *TicketHandler) HandleCreateTicket(w http.ResponseWriter, r *http.Request) {
	req, err := validation.DecodeAndValidate[CreateTicketRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	params := ports.CreateTicketParams{
		Title:       req.Title,
		Description: req.Description,
		Priority:    domain.TicketPriority(req.Priority),
		AssignedTo:  req.AssignedTo,
	}

	ticket, err := h.ticketService.CreateTicket(r.Context(), params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("ticket created", "ticket_id", ticket.ID)

	WriteCreated(w, toTicketDTO(ticket))
}

// HandleGetTicket handles GET /tickets/{ticketID}
func (h *TicketHandler) HandleGetTicket(w http.ResponseWriter, r *http.Request) {
	ticketID := chi.URLParam(r, "ticketID")

	ticket, err := h.ticketService.GetTicket(r.Context(), ticketID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, toTicketDTO(ticket))
}

// HandleUpdateTicket handles PUT /tickets/{ticketID}
func (h *TicketHandler) HandleUpdateTicket(w http.ResponseWriter, r *http.Request) {
	ticketID := chi.URLParam(r, "ticketID")

	req, err := validation.DecodeAndValidate[UpdateTicketRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	ticket, err := h.ticketService.UpdateTicket(r.Context(), ticketID, req.toTicketUpdate())
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("ticket updated", "ticket_id", ticketID)

	WriteJSON(w, http.StatusOK, toTicketDTO(ticket))
}

// HandleDeleteTicket handles DELETE /tickets/{ticketID}
func (h *TicketHandler) HandleDeleteTicket(w http.ResponseWriter, r *http.Request) {
	ticketID := chi.URLParam(r, "ticketID")

	if err := h.ticketService.DeleteTicket(r.Context(), ticketID); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("ticket deleted", "ticket_id", ticketID)

	WriteNoContent(w)
}

// HandleListOverdueTickets handles GET /tickets/overdue
func (h *TicketHandler) HandleListOverdueTickets(w http.ResponseWriter, r *http.Request) {
	maxDays := validation.ParseIntQueryParam(r, "maxDays", defaultOverdueDays)

	tickets, err := h.statsService.OverdueTickets(r.Context(), maxDays)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteList(w, toTicketDTOs(tickets))
}

// HandleAutoAssign handles POST /tickets/{ticketID}/auto-assign
func (h *TicketHandler) HandleAutoAssign(w http.ResponseWriter, r *http.Request) {
	ticketID := chi.URLParam(r, "ticketID")

	req, err := validation.DecodeAndValidate[AutoAssignRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	ticket, err := h.assignmentService.AutoAssign(r.Context(), ticketID, req.Members)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("ticket auto-assigned",
		"ticket_id", ticketID,
		"assigned_to", ticket.AssignedTo,
	)

	WriteJSON(w, http.StatusOK, toTicketDTO(ticket))
}

// HandleBulkUpdate handles POST /tickets/bulk-update
func (h *TicketHandler) HandleBulkUpdate(w http.ResponseWriter, r *http.Request) {
	req, err := validation.DecodeAndValidate[BulkUpdateRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	result, err := h.assignmentService.BulkUpdate(r.Context(), req.TicketIDs, req.toBulkUpdate())
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("bulk update completed",
		"requested", len(req.TicketIDs),
		"updated", len(result.Updated),
		"not_found", len(result.NotFound),
		"failed", len(result.Failed),
	)

	WriteJSON(w, http.StatusOK, result)
}
