package interfaces

import (
	"context"

	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

// TaskRepository defines the interface for Task data access.
// Mutations return the updated task; a missing id yields a NotFound error
// that callers translate into absent-result semantics.
type TaskRepository interface {
	// Create stores a new task
	Create(ctx context.Context, task *model.Task) (*model.Task, error)

	// Get retrieves a task by ID
	Get(ctx context.Context, id types.TaskID) (*model.Task, error)

	// List retrieves all tasks in insertion order
	List(ctx context.Context) ([]*model.Task, error)

	// ListByInstance retrieves tasks owned by an instance
	ListByInstance(ctx context.Context, instanceID types.InstanceID) ([]*model.Task, error)

	// ListByAssignee retrieves tasks assigned to a user
	ListByAssignee(ctx context.Context, userID types.UserID) ([]*model.Task, error)

	// ListByStatus retrieves tasks with the given workflow status
	ListByStatus(ctx context.Context, status types.TaskStatus) ([]*model.Task, error)

	// UpdateStatus sets the workflow status and refreshes UpdatedAt. A change
	// to Completed sets CompletedAt and UserStatus=Completed; a change away
	// from Completed clears CompletedAt. Notifications is incremented by one
	// iff the status actually changed.
	UpdateStatus(ctx context.Context, id types.TaskID, status types.TaskStatus) (*model.Task, error)

	// UpdateUserStatus sets the assignee's personal interaction state
	UpdateUserStatus(ctx context.Context, id types.TaskID, userStatus types.UserStatus) (*model.Task, error)

	// UpdateAction records the free-text action taken
	UpdateAction(ctx context.Context, id types.TaskID, action string) (*model.Task, error)

	// ResetNotifications sets the notification counter to zero
	ResetNotifications(ctx context.Context, id types.TaskID) (*model.Task, error)

	// EscalateOverdue force-sets priority to Overdue. One-way: it never
	// downgrades and is idempotent on already-overdue tasks.
	EscalateOverdue(ctx context.Context, id types.TaskID) (*model.Task, error)

	// IncrementNotifications adds one to the notification counter without
	// touching any other field. Used by comment appends.
	IncrementNotifications(ctx context.Context, id types.TaskID) (*model.Task, error)
}
