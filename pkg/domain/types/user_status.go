package types

import "fmt"

// UserStatus tracks the assignee's personal interaction state with a task,
// independent of the workflow status.
type UserStatus string

const (
	UserStatusNew       UserStatus = "New"
	UserStatusOpened    UserStatus = "Opened"
	UserStatusStashed   UserStatus = "Stashed"
	UserStatusCompleted UserStatus = "Completed"
)

// AllUserStatuses returns all valid user statuses
func AllUserStatuses() []UserStatus {
	return []UserStatus{
		UserStatusNew,
		UserStatusOpened,
		UserStatusStashed,
		UserStatusCompleted,
	}
}

// IsValid checks if the user status is valid
func (s UserStatus) IsValid() bool {
	switch s {
	case UserStatusNew,
		UserStatusOpened,
		UserStatusStashed,
		UserStatusCompleted:
		return true
	default:
		return false
	}
}

// String returns the string representation of the user status
func (s UserStatus) String() string {
	return string(s)
}

// ParseUserStatus parses a string into a UserStatus
func ParseUserStatus(s string) (UserStatus, error) {
	status := UserStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid user status: %s", s)
	}
	return status, nil
}
