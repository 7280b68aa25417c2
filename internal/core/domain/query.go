package domain

import "sort"

// FilterTickets applies equality filters on status and priority. A nil
// filter matches everything. A value outside the enumeration simply
// matches nothing - equality semantics, not an error.
func FilterTickets(tickets []*Ticket, status *TicketStatus, priority *TicketPriority) []*Ticket {
	filtered := make([]*Ticket, 0, len(tickets))
	for _, t := range tickets {
		if status != nil && t.Status != *status {
			continue
		}
		if priority != nil && t.Priority != *priority {
			continue
		}
		filtered = append(filtered, t)
	}
	return filtered
}

// SortByCreatedDesc returns the tickets sorted most-recent-first.
// The sort is stable: tickets created at the same instant keep their
// insertion order. The input slice is not modified.
func SortByCreatedDesc(tickets []*Ticket) []*Ticket {
	sorted := make([]*Ticket, len(tickets))
	copy(sorted, tickets)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	return sorted
}

// QueryTickets filters then sorts in one step. The input must be in
// insertion order for the tie-break guarantee to hold.
func QueryTickets(tickets []*Ticket, status *TicketStatus, priority *TicketPriority) []*Ticket {
	return SortByCreatedDesc(FilterTickets(tickets, status, priority))
}
