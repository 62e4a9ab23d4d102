package interfaces

import (
	"context"

	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

// InstanceRepository defines the interface for workflow instance data access
type InstanceRepository interface {
	// Create stores a new instance
	Create(ctx context.Context, instance *model.Instance) (*model.Instance, error)

	// Get retrieves an instance by ID
	Get(ctx context.Context, id types.InstanceID) (*model.Instance, error)

	// List retrieves all instances in insertion order
	List(ctx context.Context) ([]*model.Instance, error)

	// UpdateStatus sets the status. A change to Completed sets CompletedAt if
	// unset; any other status clears it, preserving the invariant that
	// CompletedAt is present iff status is Completed.
	UpdateStatus(ctx context.Context, id types.InstanceID, status types.InstanceStatus) (*model.Instance, error)

	// UpdatePriority sets the priority directly, no side effects
	UpdatePriority(ctx context.Context, id types.InstanceID, priority types.Priority) (*model.Instance, error)
}
