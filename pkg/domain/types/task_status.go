package types

import (
	"fmt"
	"strings"
)

// TaskStatus represents the workflow status of a task
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "Pending"
	TaskStatusInProgress TaskStatus = "InProgress"
	TaskStatusStashed    TaskStatus = "Stashed"
	TaskStatusCompleted  TaskStatus = "Completed"
)

// AllTaskStatuses returns all valid task statuses
func AllTaskStatuses() []TaskStatus {
	return []TaskStatus{
		TaskStatusPending,
		TaskStatusInProgress,
		TaskStatusStashed,
		TaskStatusCompleted,
	}
}

// IsValid checks if the task status is valid
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending,
		TaskStatusInProgress,
		TaskStatusStashed,
		TaskStatusCompleted:
		return true
	default:
		return false
	}
}

// String returns the string representation of the task status
func (s TaskStatus) String() string {
	return string(s)
}

// ParseTaskStatus parses a string into a TaskStatus. Legacy spellings
// ("In Progress", lowercase variants) normalize to the canonical literal set.
func ParseTaskStatus(s string) (TaskStatus, error) {
	status := TaskStatus(s)
	if status.IsValid() {
		return status, nil
	}

	switch strings.ToLower(strings.ReplaceAll(s, " ", "")) {
	case "pending":
		return TaskStatusPending, nil
	case "inprogress":
		return TaskStatusInProgress, nil
	case "stashed":
		return TaskStatusStashed, nil
	case "completed":
		return TaskStatusCompleted, nil
	}

	return "", fmt.Errorf("invalid task status: %s", s)
}
