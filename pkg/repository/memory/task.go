package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

type taskRepository struct {
	mu    sync.RWMutex
	tasks map[types.TaskID]*model.Task
	order []types.TaskID
}

func newTaskRepository() *taskRepository {
	return &taskRepository{
		tasks: make(map[types.TaskID]*model.Task),
	}
}

func (r *taskRepository) Create(ctx context.Context, task *model.Task) (*model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if task.ID == "" {
		return nil, goerr.New("task ID is required")
	}
	if _, exists := r.tasks[task.ID]; exists {
		return nil, goerr.New("task already exists", goerr.V("id", task.ID))
	}

	created := task.Clone()
	if created.CreatedAt.IsZero() {
		now := time.Now().UTC()
		created.CreatedAt = now
		created.UpdatedAt = now
	}
	if created.UserStatus == "" {
		created.UserStatus = types.UserStatusNew
	}

	r.tasks[created.ID] = created
	r.order = append(r.order, created.ID)
	return created.Clone(), nil
}

func (r *taskRepository) Get(ctx context.Context, id types.TaskID) (*model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, exists := r.tasks[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "task not found", goerr.V("id", id))
	}
	return task.Clone(), nil
}

func (r *taskRepository) List(ctx context.Context) ([]*model.Task, error) {
	return r.listWhere(func(t *model.Task) bool { return true })
}

func (r *taskRepository) ListByInstance(ctx context.Context, instanceID types.InstanceID) ([]*model.Task, error) {
	return r.listWhere(func(t *model.Task) bool { return t.InstanceID == instanceID })
}

func (r *taskRepository) ListByAssignee(ctx context.Context, userID types.UserID) ([]*model.Task, error) {
	return r.listWhere(func(t *model.Task) bool { return t.AssignedTo == userID })
}

func (r *taskRepository) ListByStatus(ctx context.Context, status types.TaskStatus) ([]*model.Task, error) {
	return r.listWhere(func(t *model.Task) bool { return t.Status == status })
}

func (r *taskRepository) listWhere(match func(*model.Task) bool) ([]*model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks := make([]*model.Task, 0, len(r.order))
	for _, id := range r.order {
		if t := r.tasks[id]; match(t) {
			tasks = append(tasks, t.Clone())
		}
	}
	return tasks, nil
}

// mutate applies fn to the stored task under the write lock and returns a
// copy of the result. fn is responsible for refreshing UpdatedAt.
func (r *taskRepository) mutate(id types.TaskID, fn func(*model.Task)) (*model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, exists := r.tasks[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "task not found", goerr.V("id", id))
	}

	fn(task)
	return task.Clone(), nil
}

func (r *taskRepository) UpdateStatus(ctx context.Context, id types.TaskID, status types.TaskStatus) (*model.Task, error) {
	return r.mutate(id, func(task *model.Task) {
		now := time.Now().UTC()
		previous := task.Status
		task.Status = status
		task.UpdatedAt = now

		if status == types.TaskStatusCompleted {
			completedAt := now
			task.CompletedAt = &completedAt
			task.UserStatus = types.UserStatusCompleted
		} else {
			task.CompletedAt = nil
		}

		// A no-op status "change" to the same value must not increment.
		if previous != status {
			task.Notifications++
		}
	})
}

func (r *taskRepository) UpdateUserStatus(ctx context.Context, id types.TaskID, userStatus types.UserStatus) (*model.Task, error) {
	return r.mutate(id, func(task *model.Task) {
		task.UserStatus = userStatus
		task.UpdatedAt = time.Now().UTC()
	})
}

func (r *taskRepository) UpdateAction(ctx context.Context, id types.TaskID, action string) (*model.Task, error) {
	return r.mutate(id, func(task *model.Task) {
		task.ActionTaken = action
		task.UpdatedAt = time.Now().UTC()
	})
}

func (r *taskRepository) ResetNotifications(ctx context.Context, id types.TaskID) (*model.Task, error) {
	return r.mutate(id, func(task *model.Task) {
		task.Notifications = 0
		task.UpdatedAt = time.Now().UTC()
	})
}

func (r *taskRepository) EscalateOverdue(ctx context.Context, id types.TaskID) (*model.Task, error) {
	return r.mutate(id, func(task *model.Task) {
		task.Priority = types.PriorityOverdue
	})
}

func (r *taskRepository) IncrementNotifications(ctx context.Context, id types.TaskID) (*model.Task, error) {
	return r.mutate(id, func(task *model.Task) {
		task.Notifications++
	})
}
