package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

type instanceRepository struct {
	mu        sync.RWMutex
	instances map[types.InstanceID]*model.Instance
	order     []types.InstanceID
}

func newInstanceRepository() *instanceRepository {
	return &instanceRepository{
		instances: make(map[types.InstanceID]*model.Instance),
	}
}

func copyInstance(i *model.Instance) *model.Instance {
	copied := *i
	if i.CompletedAt != nil {
		completedAt := *i.CompletedAt
		copied.CompletedAt = &completedAt
	}
	return &copied
}

func (r *instanceRepository) Create(ctx context.Context, instance *model.Instance) (*model.Instance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if instance.ID == "" {
		return nil, goerr.New("instance ID is required")
	}
	if _, exists := r.instances[instance.ID]; exists {
		return nil, goerr.New("instance already exists", goerr.V("id", instance.ID))
	}

	created := copyInstance(instance)
	if created.StartedAt.IsZero() {
		created.StartedAt = time.Now().UTC()
	}

	r.instances[created.ID] = created
	r.order = append(r.order, created.ID)
	return copyInstance(created), nil
}

func (r *instanceRepository) Get(ctx context.Context, id types.InstanceID) (*model.Instance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	instance, exists := r.instances[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "instance not found", goerr.V("id", id))
	}
	return copyInstance(instance), nil
}

func (r *instanceRepository) List(ctx context.Context) ([]*model.Instance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	instances := make([]*model.Instance, 0, len(r.order))
	for _, id := range r.order {
		instances = append(instances, copyInstance(r.instances[id]))
	}
	return instances, nil
}

func (r *instanceRepository) UpdateStatus(ctx context.Context, id types.InstanceID, status types.InstanceStatus) (*model.Instance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	instance, exists := r.instances[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "instance not found", goerr.V("id", id))
	}

	instance.Status = status
	if status == types.InstanceStatusCompleted {
		if instance.CompletedAt == nil {
			completedAt := time.Now().UTC()
			instance.CompletedAt = &completedAt
		}
	} else {
		instance.CompletedAt = nil
	}

	return copyInstance(instance), nil
}

func (r *instanceRepository) UpdatePriority(ctx context.Context, id types.InstanceID, priority types.Priority) (*model.Instance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	instance, exists := r.instances[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "instance not found", goerr.V("id", id))
	}

	instance.Priority = priority
	return copyInstance(instance), nil
}
