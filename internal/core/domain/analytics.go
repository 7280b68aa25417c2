package domain

import "time"

// UnassignedLabel is the grouping key used for tickets with no
// assignee in per-assignee aggregations.
const UnassignedLabel = "Unassigned"

// TicketStats is the dashboard summary: distributions over the full
// enumerations, with absent categories present at zero.
type TicketStats struct {
	Total      int
	ByStatus   map[TicketStatus]int
	ByPriority map[TicketPriority]int
}

// WorkloadReport bundles the derived workload metrics.
type WorkloadReport struct {
	CompletionRate        float64
	AverageResolutionDays float64
	ByAssignee            map[string]int
	HighPriorityOpen      int
}

// DetailedReport is the full analytics view over an optionally
// status-filtered ticket set.
type DetailedReport struct {
	Total            int
	AverageAgeDays   int
	OldestTicketDays int
	UnassignedCount  int
	ByStatus         map[TicketStatus]int
	ByPriority       map[TicketPriority]int
}

func zeroStatusCounts() map[TicketStatus]int {
	counts := make(map[TicketStatus]int, len(AllStatuses()))
	for _, s := range AllStatuses() {
		counts[s] = 0
	}
	return counts
}

func zeroPriorityCounts() map[TicketPriority]int {
	counts := make(map[TicketPriority]int, len(AllPriorities()))
	for _, p := range AllPriorities() {
		counts[p] = 0
	}
	return counts
}

// ComputeStats counts tickets by status and priority. Every
// enumeration member appears in the result, including at zero.
func ComputeStats(tickets []*Ticket) TicketStats {
	stats := TicketStats{
		Total:      len(tickets),
		ByStatus:   zeroStatusCounts(),
		ByPriority: zeroPriorityCounts(),
	}
	for _, t := range tickets {
		stats.ByStatus[t.Status]++
		stats.ByPriority[t.Priority]++
	}
	return stats
}

// CompletionRate returns the percentage of tickets that are resolved
// or closed. Returns 0 for an empty set.
func CompletionRate(tickets []*Ticket) float64 {
	if len(tickets) == 0 {
		return 0
	}
	completed := 0
	for _, t := range tickets {
		if t.Status.IsTerminal() {
			completed++
		}
	}
	return float64(completed) / float64(len(tickets)) * 100
}

// AverageResolutionDays returns the mean of updated_at - created_at in
// whole days over resolved and closed tickets, 0 when there are none.
// This measures time since the last edit, not the resolution
// transition itself; the imprecision is deliberate.
func AverageResolutionDays(tickets []*Ticket) float64 {
	totalDays := 0
	resolved := 0
	for _, t := range tickets {
		if !t.Status.IsTerminal() {
			continue
		}
		totalDays += wholeDays(t.CreatedAt, t.UpdatedAt)
		resolved++
	}
	if resolved == 0 {
		return 0
	}
	return float64(totalDays) / float64(resolved)
}

// TicketsByAssignee groups ticket counts by assignee, substituting
// UnassignedLabel for tickets with no assignee.
func TicketsByAssignee(tickets []*Ticket) map[string]int {
	counts := make(map[string]int)
	for _, t := range tickets {
		label := UnassignedLabel
		if t.IsAssigned() {
			label = *t.AssignedTo
		}
		counts[label]++
	}
	return counts
}

// HighPriorityOpenCount counts open tickets with high or critical
// priority.
func HighPriorityOpenCount(tickets []*Ticket) int {
	count := 0
	for _, t := range tickets {
		if t.Status == StatusOpen && (t.Priority == PriorityHigh || t.Priority == PriorityCritical) {
			count++
		}
	}
	return count
}

// TicketAgeDays returns now - created_at in whole days. It fails
// closed: a zero or future created_at yields 0, never an error.
func TicketAgeDays(t *Ticket, now time.Time) int {
	if t.CreatedAt.IsZero() || t.CreatedAt.After(now) {
		return 0
	}
	return wholeDays(t.CreatedAt, now)
}

// OverdueTickets returns open tickets older than maxDays.
func OverdueTickets(tickets []*Ticket, maxDays int, now time.Time) []*Ticket {
	overdue := make([]*Ticket, 0)
	for _, t := range tickets {
		if t.Status == StatusOpen && TicketAgeDays(t, now) > maxDays {
			overdue = append(overdue, t)
		}
	}
	return overdue
}

// BuildDetailedReport computes the full analytics view, optionally
// filtered by status first. An empty filtered set yields a zero-valued
// report with zero-filled distributions, not an error.
func BuildDetailedReport(tickets []*Ticket, status *TicketStatus, now time.Time) DetailedReport {
	if status != nil {
		tickets = FilterTickets(tickets, status, nil)
	}

	report := DetailedReport{
		Total:      len(tickets),
		ByStatus:   zeroStatusCounts(),
		ByPriority: zeroPriorityCounts(),
	}
	if len(tickets) == 0 {
		return report
	}

	totalAge := 0
	for _, t := range tickets {
		age := TicketAgeDays(t, now)
		totalAge += age
		if age > report.OldestTicketDays {
			report.OldestTicketDays = age
		}
		if !t.IsAssigned() {
			report.UnassignedCount++
		}
		report.ByStatus[t.Status]++
		report.ByPriority[t.Priority]++
	}
	report.AverageAgeDays = totalAge / len(tickets)

	return report
}

// wholeDays floors the elapsed time between two instants to days.
func wholeDays(from, to time.Time) int {
	if to.Before(from) {
		return 0
	}
	return int(to.Sub(from).Hours() / 24)
}
