package domain

import (
	apperrors "github.com/lorrc/ticket-tracker-backend/internal/core/errors"
)

// BulkTicketUpdate is the allow-list of fields a bulk update may
// touch. Same nil-means-unchanged semantics as TicketUpdate.
type BulkTicketUpdate struct {
	Status     *TicketStatus
	Priority   *TicketPriority
	AssignedTo *string
}

// IsEmpty reports whether no field is set.
func (u BulkTicketUpdate) IsEmpty() bool {
	return u.Status == nil && u.Priority == nil && u.AssignedTo == nil
}

// Validate checks the set fields for enumeration membership.
func (u BulkTicketUpdate) Validate() error {
	v := apperrors.NewValidationErrors()
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

// AsTicketUpdate widens the bulk update to a full partial update.
func (u BulkTicketUpdate) AsTicketUpdate() TicketUpdate {
	return TicketUpdate{
		Status:     u.Status,
		Priority:   u.Priority,
		AssignedTo: u.AssignedTo,
	}
}

// BulkUpdateResult reports the per-ticket outcome of a bulk update.
// The three buckets are disjoint and together cover every input id
// exactly once, in input order.
type BulkUpdateResult struct {
	Updated  []string `json:"updated"`
	Failed   []string `json:"failed"`
	NotFound []string `json:"not_found"`
}

// NewBulkUpdateResult returns a result with empty (non-nil) buckets so
// the JSON shape is stable even when a bucket stays empty.
func NewBulkUpdateResult() BulkUpdateResult {
	return BulkUpdateResult{
		Updated:  []string{},
		Failed:   []string{},
		NotFound: []string{},
	}
}

// LeastBusyMember selects the candidate with the fewest currently
// assigned tickets. Candidates with no tickets count as zero. Ties go
// to the earliest candidate in the input order, so selection is
// deterministic regardless of map iteration order.
func LeastBusyMember(tickets []*Ticket, members []string) (string, error) {
	if len(members) == 0 {
		return "", apperrors.ErrNoCandidates
	}

	counts := make(map[string]int, len(members))
	for _, m := range members {
		counts[m] = 0
	}
	for _, t := range tickets {
		if !t.IsAssigned() {
			continue
		}
		if _, ok := counts[*t.AssignedTo]; ok {
			counts[*t.AssignedTo]++
		}
	}

	selected := members[0]
	for _, m := range members[1:] {
		if counts[m] < counts[selected] {
			selected = m
		}
	}
	return selected, nil
}
