package types

import (
	"fmt"
	"strings"
)

// InstanceStatus represents the status of a workflow instance
type InstanceStatus string

const (
	InstanceStatusPending    InstanceStatus = "Pending"
	InstanceStatusInProgress InstanceStatus = "InProgress"
	InstanceStatusCompleted  InstanceStatus = "Completed"
	InstanceStatusStashed    InstanceStatus = "Stashed"
	InstanceStatusDelayed    InstanceStatus = "Delayed"
	InstanceStatusOverdue    InstanceStatus = "Overdue"
)

// AllInstanceStatuses returns all valid instance statuses
func AllInstanceStatuses() []InstanceStatus {
	return []InstanceStatus{
		InstanceStatusPending,
		InstanceStatusInProgress,
		InstanceStatusCompleted,
		InstanceStatusStashed,
		InstanceStatusDelayed,
		InstanceStatusOverdue,
	}
}

// IsValid checks if the instance status is valid
func (s InstanceStatus) IsValid() bool {
	switch s {
	case InstanceStatusPending,
		InstanceStatusInProgress,
		InstanceStatusCompleted,
		InstanceStatusStashed,
		InstanceStatusDelayed,
		InstanceStatusOverdue:
		return true
	default:
		return false
	}
}

// String returns the string representation of the instance status
func (s InstanceStatus) String() string {
	return string(s)
}

// ParseInstanceStatus parses a string into an InstanceStatus, accepting the
// legacy "In Progress" spelling.
func ParseInstanceStatus(s string) (InstanceStatus, error) {
	status := InstanceStatus(s)
	if status.IsValid() {
		return status, nil
	}
	if strings.EqualFold(strings.ReplaceAll(s, " ", ""), "inprogress") {
		return InstanceStatusInProgress, nil
	}
	return "", fmt.Errorf("invalid instance status: %s", s)
}
