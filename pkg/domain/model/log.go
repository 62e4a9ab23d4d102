package model

import (
	"strings"
	"time"

	"github.com/secmon-lab/themis/pkg/domain/types"
)

// Log action markers that denote a state-changing event. Notification
// derivation counts log entries whose action contains one of these.
const (
	LogActionStatusChanged = "Status Changed"
	LogActionTaskCompleted = "Task Completed"
	LogActionTaskCreated   = "Task Created"
)

// WorkflowLog is one audit entry for an instance, optionally scoped to a task.
type WorkflowLog struct {
	ID         types.LogID      `firestore:"id" json:"id"`
	InstanceID types.InstanceID `firestore:"instance_id" json:"instanceId"`
	TaskID     types.TaskID     `firestore:"task_id,omitempty" json:"taskId,omitempty"`
	UserID     types.UserID     `firestore:"user_id" json:"userId"`
	Action     string           `firestore:"action" json:"action"`
	Details    string           `firestore:"details,omitempty" json:"details,omitempty"`
	CreatedAt  time.Time        `firestore:"created_at" json:"createdAt"`
}

// IsStateChange reports whether the log entry records a state-changing event
func (l *WorkflowLog) IsStateChange() bool {
	return strings.Contains(l.Action, LogActionStatusChanged) ||
		strings.Contains(l.Action, LogActionTaskCompleted) ||
		strings.Contains(l.Action, LogActionTaskCreated)
}
