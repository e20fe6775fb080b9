package model

import "strings"

// Filter narrows the visible task list.
type Filter struct {
	SearchQuery string   `json:"searchQuery"`
	Status      Status   `json:"statusFilter"`
	Priority    Priority `json:"priorityFilter"`
}

// DefaultFilter matches every task.
func DefaultFilter() Filter {
	return Filter{Status: StatusAll, Priority: PriorityAll}
}

// Matches reports whether task passes the search, status and priority predicates.
func (f Filter) Matches(task Task) bool {
	if f.SearchQuery != "" {
		query := strings.ToLower(f.SearchQuery)
		if !strings.Contains(strings.ToLower(task.Title), query) &&
			!strings.Contains(strings.ToLower(task.Description), query) {
			return false
		}
	}

	if f.Status != StatusAll && f.Status != "" && task.Status != f.Status {
		return false
	}

	if f.Priority != PriorityAll && f.Priority != "" && task.Priority != f.Priority {
		return false
	}

	return true
}
