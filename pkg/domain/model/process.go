package model

import (
	"time"

	"github.com/secmon-lab/themis/pkg/domain/types"
)

// Process is an immutable workflow template composed of ordered steps.
// Processes are created by configuration and never mutated by the engine.
type Process struct {
	ID          types.ProcessID `firestore:"id" json:"id"`
	Name        string          `firestore:"name" json:"name"`
	Type        string          `firestore:"type" json:"type"`
	Description string          `firestore:"description,omitempty" json:"description,omitempty"`
	CreatedAt   time.Time       `firestore:"created_at" json:"createdAt"`
	UpdatedAt   time.Time       `firestore:"updated_at" json:"updatedAt"`
}

// StepAction is one action a user may take on a task at a step.
type StepAction struct {
	ID         string       `firestore:"id" json:"id"`
	Name       string       `firestore:"name" json:"name"`
	Type       string       `firestore:"type" json:"type"`
	NextStepID types.StepID `firestore:"next_step_id,omitempty" json:"nextStepId,omitempty"`
}

// StepRole gates which roles may execute a step.
type StepRole struct {
	Role       types.UserRole `firestore:"role" json:"role"`
	CanExecute bool           `firestore:"can_execute" json:"canExecute"`
}

// Step is one ordered stage of a process template. Order is a unique
// ascending integer within the owning process and defines the canonical
// sequence used to build timelines. SLA is the time budget in days.
type Step struct {
	ID          types.StepID    `firestore:"id" json:"id"`
	ProcessID   types.ProcessID `firestore:"process_id" json:"processId"`
	Name        string          `firestore:"name" json:"name"`
	Order       int             `firestore:"order" json:"order"`
	Description string          `firestore:"description,omitempty" json:"description,omitempty"`
	Actions     []StepAction    `firestore:"actions,omitempty" json:"actions,omitempty"`
	Roles       []StepRole      `firestore:"roles,omitempty" json:"roles,omitempty"`
	NextStepID  types.StepID    `firestore:"next_step_id,omitempty" json:"nextStepId,omitempty"`
	SLA         int             `firestore:"sla" json:"sla"`
}
