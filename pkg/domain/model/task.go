package model

import (
	"time"

	"github.com/secmon-lab/themis/pkg/domain/types"
)

// Task is the realized, actionable unit of work for one step within one
// instance. Invariants: CompletedAt is set iff Status is Completed;
// Notifications never goes below zero; every mutation refreshes UpdatedAt.
type Task struct {
	ID            types.TaskID     `firestore:"id" json:"id"`
	InstanceID    types.InstanceID `firestore:"instance_id" json:"instanceId"`
	StepID        types.StepID     `firestore:"step_id,omitempty" json:"stepId,omitempty"`
	Title         string           `firestore:"title" json:"title"`
	Description   string           `firestore:"description,omitempty" json:"description,omitempty"`
	Status        types.TaskStatus `firestore:"status" json:"status"`
	Priority      types.Priority   `firestore:"priority" json:"priority"`
	AssignedTo    types.UserID     `firestore:"assigned_to,omitempty" json:"assignedTo,omitempty"`
	DueBy         *time.Time       `firestore:"due_by,omitempty" json:"dueBy,omitempty"`
	ActionTaken   string           `firestore:"action_taken,omitempty" json:"actionTaken,omitempty"`
	CreatedAt     time.Time        `firestore:"created_at" json:"createdAt"`
	UpdatedAt     time.Time        `firestore:"updated_at" json:"updatedAt"`
	CompletedAt   *time.Time       `firestore:"completed_at,omitempty" json:"completedAt,omitempty"`
	UserStatus    types.UserStatus `firestore:"user_status" json:"userStatus"`
	Notifications int              `firestore:"notifications" json:"notifications"`
}

// Clone returns a deep copy of the task
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	clone := *t
	if t.DueBy != nil {
		dueBy := *t.DueBy
		clone.DueBy = &dueBy
	}
	if t.CompletedAt != nil {
		completedAt := *t.CompletedAt
		clone.CompletedAt = &completedAt
	}
	return &clone
}
