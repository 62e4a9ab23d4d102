package interfaces

import (
	"context"
	"time"

	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

// CommentRepository defines the interface for task comment persistence.
// Comments are append-only.
type CommentRepository interface {
	// Add appends a comment
	Add(ctx context.Context, comment *model.Comment) error

	// ListByTask retrieves comments for a task in creation order
	ListByTask(ctx context.Context, taskID types.TaskID) ([]*model.Comment, error)

	// CountByTaskSince counts comments on a task created after the given time
	CountByTaskSince(ctx context.Context, taskID types.TaskID, since time.Time) (int, error)
}

// MessageRepository defines the interface for chat message persistence.
// Messages are append-only and never mutated.
type MessageRepository interface {
	// Add appends a message
	Add(ctx context.Context, msg *model.Message) error

	// List retrieves all messages in creation order
	List(ctx context.Context) ([]*model.Message, error)
}

// LogRepository defines the interface for workflow audit log persistence
type LogRepository interface {
	// Add appends a log entry
	Add(ctx context.Context, entry *model.WorkflowLog) error

	// ListByTask retrieves log entries scoped to a task
	ListByTask(ctx context.Context, taskID types.TaskID) ([]*model.WorkflowLog, error)

	// ListByInstance retrieves log entries for an instance
	ListByInstance(ctx context.Context, instanceID types.InstanceID) ([]*model.WorkflowLog, error)
}
