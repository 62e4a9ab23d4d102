package model

import (
	"time"

	"github.com/secmon-lab/themis/pkg/domain/types"
)

// Instance is one running execution of a process against a business entity.
// Invariant: CompletedAt is set if and only if Status is Completed.
type Instance struct {
	ID            types.InstanceID     `firestore:"id" json:"id"`
	ProcessID     types.ProcessID      `firestore:"process_id" json:"processId"`
	EntityType    string               `firestore:"entity_type" json:"entityType"`
	EntityID      string               `firestore:"entity_id" json:"entityId"`
	Status        types.InstanceStatus `firestore:"status" json:"status"`
	Priority      types.Priority       `firestore:"priority" json:"priority"`
	CurrentStepID types.StepID         `firestore:"current_step_id,omitempty" json:"currentStepId,omitempty"`
	StartedAt     time.Time            `firestore:"started_at" json:"startedAt"`
	CompletedAt   *time.Time           `firestore:"completed_at,omitempty" json:"completedAt,omitempty"`
	CreatedBy     types.UserID         `firestore:"created_by" json:"createdBy"`
}
