package usecase

import "errors"

// Sentinel errors for the use case layer. Missing entities surface as these
// rather than as repository errors so that callers can map them to
// absent-result semantics.
var (
	ErrTaskNotFound        = errors.New("task not found")
	ErrInstanceNotFound    = errors.New("instance not found")
	ErrProcessNotFound     = errors.New("process not found")
	ErrApplicationNotFound = errors.New("application not found")

	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Context keys for error values
const (
	TaskIDKey     = "task_id"
	InstanceIDKey = "instance_id"
)
