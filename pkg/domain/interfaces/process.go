package interfaces

import (
	"context"

	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

// ProcessRepository defines the interface for process template data access.
// Processes and steps are immutable once stored; Put exists for seeding.
type ProcessRepository interface {
	// Put stores a process template
	Put(ctx context.Context, process *model.Process) error

	// Get retrieves a process by ID
	Get(ctx context.Context, id types.ProcessID) (*model.Process, error)

	// List retrieves all processes
	List(ctx context.Context) ([]*model.Process, error)

	// PutStep stores a step template
	PutStep(ctx context.Context, step *model.Step) error

	// ListSteps retrieves the steps of a process ordered by Step.Order
	ListSteps(ctx context.Context, processID types.ProcessID) ([]*model.Step, error)
}
