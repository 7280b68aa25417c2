package domain

import (
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	apperrors "github.com/lorrc/ticket-tracker-backend/internal/core/errors"
)

// Field length constraints enforced at creation and on update.
// Lengths are counted in characters, not bytes.
const (
	MinTitleLength       = 3
	MaxTitleLength       = 200
	MinDescriptionLength = 10
	MaxDescriptionLength = 2000
)

// TicketStatus represents the possible states of a ticket.
type TicketStatus string

const (
	StatusOpen       TicketStatus = "open"
	StatusInProgress TicketStatus = "in_progress"
	StatusResolved   TicketStatus = "resolved"
	StatusClosed     TicketStatus = "closed"
)

// AllStatuses returns every status in a fixed order. Aggregations rely
// on this to emit zero counts for absent categories.
func AllStatuses() []TicketStatus {
	return []TicketStatus{StatusOpen, StatusInProgress, StatusResolved, StatusClosed}
}

// IsValid reports whether the status is a member of the enumeration.
func (s TicketStatus) IsValid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// IsTerminal reports whether the ticket counts as completed.
func (s TicketStatus) IsTerminal() bool {
	return s == StatusResolved || s == StatusClosed
}

// TicketPriority represents the urgency of a ticket.
type TicketPriority string

const (
	PriorityLow      TicketPriority = "low"
	PriorityMedium   TicketPriority = "medium"
	PriorityHigh     TicketPriority = "high"
	PriorityCritical TicketPriority = "critical"
)

// AllPriorities returns every priority in a fixed order.
func AllPriorities() []TicketPriority {
	return []TicketPriority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}
}

// IsValid reports whether the priority is a member of the enumeration.
func (p TicketPriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Ticket is the core domain entity.
type Ticket struct {
	ID          string
	Title       string
	Description string
	Status      TicketStatus
	Priority    TicketPriority
	AssignedTo  *string // nil means unassigned
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Clone returns a deep copy of the ticket. The store hands out clones
// so callers never share memory with the stored record.
func (t *Ticket) Clone() *Ticket {
	clone := *t
	if t.AssignedTo != nil {
		assignee := *t.AssignedTo
		clone.AssignedTo = &assignee
	}
	return &clone
}

// IsAssigned reports whether the ticket has an assignee.
func (t *Ticket) IsAssigned() bool {
	return t.AssignedTo != nil && *t.AssignedTo != ""
}

// TicketParams defines the caller-supplied input for creating a ticket.
type TicketParams struct {
	Title       string
	Description string
	Priority    TicketPriority // empty defaults to medium
	AssignedTo  *string
}

// NewTicket is a factory function to create a valid new ticket.
// The returned ticket has a fresh ID, status open, and
// CreatedAt == UpdatedAt.
func NewTicket(params TicketParams) (*Ticket, error) {
	priority := params.Priority
	if priority == "" {
		priority = PriorityMedium
	}

	v := apperrors.NewValidationErrors()
	validateTitle(v, params.Title)
	validateDescription(v, params.Description)
	if !priority.IsValid() {
		v.Add("priority", apperrors.ErrInvalidPriority.Error())
	}
	if v.HasErrors() {
		return nil, v
	}

	now := time.Now().UTC()

	var assignedTo *string
	if params.AssignedTo != nil {
		assignee := *params.AssignedTo
		assignedTo = &assignee
	}

	return &Ticket{
		ID:          uuid.NewString(),
		Title:       params.Title,
		Description: params.Description,
		Status:      StatusOpen, // Default status
		Priority:    priority,
		AssignedTo:  assignedTo,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// TicketUpdate is a partial update. A nil field means "leave
// unchanged"; an explicit empty string is a real new value.
type TicketUpdate struct {
	Title       *string
	Description *string
	Status      *TicketStatus
	Priority    *TicketPriority
	AssignedTo  *string
}

// IsEmpty reports whether no field is set.
func (u TicketUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Status == nil &&
		u.Priority == nil && u.AssignedTo == nil
}

// Validate checks the fields that are present against the same
// constraints enforced at creation. Absent fields are skipped.
func (u TicketUpdate) Validate() error {
	v := apperrors.NewValidationErrors()
	if u.Title != nil {
		validateTitle(v, *u.Title)
	}
	if u.Description != nil {
		validateDescription(v, *u.Description)
	}
	if u.Status != nil && !u.Status.IsValid() {
		v.Add("status", apperrors.ErrInvalidStatus.Error())
	}
	if u.Priority != nil && !u.Priority.IsValid() {
		v.Add("priority", apperrors.ErrInvalidPriority.Error())
	}
	if v.HasErrors() {
		return v
	}
	return nil
}

// Apply writes the update's set fields onto the ticket and refreshes
// UpdatedAt. Callers are expected to Validate first; Apply itself
// never fails so a validated update is all-or-nothing.
func (t *Ticket) Apply(u TicketUpdate) {
	if u.Title != nil {
		t.Title = *u.Title
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.Status != nil {
		t.Status = *u.Status
	}
	if u.Priority != nil {
		t.Priority = *u.Priority
	}
	if u.AssignedTo != nil {
		assignee := *u.AssignedTo
		t.AssignedTo = &assignee
	}
	t.Touch()
}

// Touch refreshes UpdatedAt, keeping CreatedAt <= UpdatedAt even if
// the wall clock stepped backwards between operations.
func (t *Ticket) Touch() {
	now := time.Now().UTC()
	if now.Before(t.CreatedAt) {
		now = t.CreatedAt
	}
	t.UpdatedAt = now
}

func validateTitle(v *apperrors.ValidationErrors, title string) {
	switch {
	case title == "":
		v.Add("title", apperrors.ErrTitleRequired.Error())
	case utf8.RuneCountInString(title) < MinTitleLength:
		v.Add("title", apperrors.ErrTitleTooShort.Error())
	case utf8.RuneCountInString(title) > MaxTitleLength:
		v.Add("title", apperrors.ErrTitleTooLong.Error())
	}
}

func validateDescription(v *apperrors.ValidationErrors, description string) {
	switch {
	case utf8.RuneCountInString(description) < MinDescriptionLength:
		v.Add("description", apperrors.ErrDescriptionTooShort.Error())
	case utf8.RuneCountInString(description) > MaxDescriptionLength:
		v.Add("description", apperrors.ErrDescriptionTooLong.Error())
	}
}
