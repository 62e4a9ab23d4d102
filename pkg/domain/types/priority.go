package types

import "fmt"

// Priority represents the urgency label of a task or instance
type Priority string

const (
	PriorityOverdue      Priority = "Overdue"
	PriorityUrgent       Priority = "Urgent"
	PriorityImportant    Priority = "Important"
	PriorityCanDoLater   Priority = "Can do Later"
	PriorityNotImportant Priority = "Not important"
)

// AllPriorities returns all valid priorities
func AllPriorities() []Priority {
	return []Priority{
		PriorityOverdue,
		PriorityUrgent,
		PriorityImportant,
		PriorityCanDoLater,
		PriorityNotImportant,
	}
}

// IsValid checks if the priority is valid
func (p Priority) IsValid() bool {
	switch p {
	case PriorityOverdue,
		PriorityUrgent,
		PriorityImportant,
		PriorityCanDoLater,
		PriorityNotImportant:
		return true
	default:
		return false
	}
}

// Rank returns the ordinal rank used for sorting. Lower rank sorts first.
// Unknown priorities rank with the least important tier.
func (p Priority) Rank() int {
	switch p {
	case PriorityOverdue:
		return 1
	case PriorityUrgent:
		return 2
	case PriorityImportant:
		return 3
	case PriorityCanDoLater:
		return 4
	default:
		return 5
	}
}

// String returns the string representation of the priority
func (p Priority) String() string {
	return string(p)
}

// ParsePriority parses a string into a Priority
func ParsePriority(s string) (Priority, error) {
	p := Priority(s)
	if !p.IsValid() {
		return "", fmt.Errorf("invalid priority: %s", s)
	}
	return p, nil
}
