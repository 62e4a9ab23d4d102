package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type taskRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newTaskRepository(client *firestore.Client) *taskRepository {
	return &taskRepository{client: client}
}

func (r *taskRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_tasks"
	}
	return "tasks"
}

func (r *taskRepository) Create(ctx context.Context, task *model.Task) (*model.Task, error) {
	if task.ID == "" {
		return nil, goerr.New("task ID is required")
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

	if _, err := r.client.Collection(r.collection()).Doc(string(created.ID)).Set(ctx, created); err != nil {
		return nil, goerr.Wrap(err, "failed to create task", goerr.V("id", created.ID))
	}
	return created, nil
}

func (r *taskRepository) Get(ctx context.Context, id types.TaskID) (*model.Task, error) {
	docSnap, err := r.client.Collection(r.collection()).Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "task not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get task", goerr.V("id", id))
	}

	var task model.Task
	if err := docSnap.DataTo(&task); err != nil {
		return nil, goerr.Wrap(err, "failed to decode task", goerr.V("id", id))
	}
	return &task, nil
}

func (r *taskRepository) list(ctx context.Context, q firestore.Query) ([]*model.Task, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	var tasks []*model.Task
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate tasks")
		}

		var task model.Task
		if err := docSnap.DataTo(&task); err != nil {
			return nil, goerr.Wrap(err, "failed to decode task")
		}
		tasks = append(tasks, &task)
	}
	return tasks, nil
}

func (r *taskRepository) List(ctx context.Context) ([]*model.Task, error) {
	return r.list(ctx, r.client.Collection(r.collection()).OrderBy("created_at", firestore.Asc))
}

func (r *taskRepository) ListByInstance(ctx context.Context, instanceID types.InstanceID) ([]*model.Task, error) {
	return r.list(ctx, r.client.Collection(r.collection()).
		Where("instance_id", "==", string(instanceID)).
		OrderBy("created_at", firestore.Asc))
}

func (r *taskRepository) ListByAssignee(ctx context.Context, userID types.UserID) ([]*model.Task, error) {
	return r.list(ctx, r.client.Collection(r.collection()).
		Where("assigned_to", "==", string(userID)).
		OrderBy("created_at", firestore.Asc))
}

func (r *taskRepository) ListByStatus(ctx context.Context, taskStatus types.TaskStatus) ([]*model.Task, error) {
	return r.list(ctx, r.client.Collection(r.collection()).
		Where("status", "==", string(taskStatus)).
		OrderBy("created_at", firestore.Asc))
}

// mutate applies fn to the stored task inside a transaction. The read and
// write happen atomically, which keeps the increment-once notification
// accounting correct under concurrent writers.
func (r *taskRepository) mutate(ctx context.Context, id types.TaskID, fn func(*model.Task)) (*model.Task, error) {
	docRef := r.client.Collection(r.collection()).Doc(string(id))

	var updated model.Task
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docSnap, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(ErrNotFound, "task not found", goerr.V("id", id))
			}
			return goerr.Wrap(err, "failed to get task", goerr.V("id", id))
		}

		var task model.Task
		if err := docSnap.DataTo(&task); err != nil {
			return goerr.Wrap(err, "failed to decode task", goerr.V("id", id))
		}

		fn(&task)
		updated = task
		return tx.Set(docRef, &task)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *taskRepository) UpdateStatus(ctx context.Context, id types.TaskID, taskStatus types.TaskStatus) (*model.Task, error) {
	return r.mutate(ctx, id, func(task *model.Task) {
		now := time.Now().UTC()
		previous := task.Status
		task.Status = taskStatus
		task.UpdatedAt = now

		if taskStatus == types.TaskStatusCompleted {
			completedAt := now
			task.CompletedAt = &completedAt
			task.UserStatus = types.UserStatusCompleted
		} else {
			task.CompletedAt = nil
		}

		if previous != taskStatus {
			task.Notifications++
		}
	})
}

func (r *taskRepository) UpdateUserStatus(ctx context.Context, id types.TaskID, userStatus types.UserStatus) (*model.Task, error) {
	return r.mutate(ctx, id, func(task *model.Task) {
		task.UserStatus = userStatus
		task.UpdatedAt = time.Now().UTC()
	})
}

func (r *taskRepository) UpdateAction(ctx context.Context, id types.TaskID, action string) (*model.Task, error) {
	return r.mutate(ctx, id, func(task *model.Task) {
		task.ActionTaken = action
		task.UpdatedAt = time.Now().UTC()
	})
}

func (r *taskRepository) ResetNotifications(ctx context.Context, id types.TaskID) (*model.Task, error) {
	return r.mutate(ctx, id, func(task *model.Task) {
		task.Notifications = 0
		task.UpdatedAt = time.Now().UTC()
	})
}

func (r *taskRepository) EscalateOverdue(ctx context.Context, id types.TaskID) (*model.Task, error) {
	return r.mutate(ctx, id, func(task *model.Task) {
		task.Priority = types.PriorityOverdue
	})
}

func (r *taskRepository) IncrementNotifications(ctx context.Context, id types.TaskID) (*model.Task, error) {
	return r.mutate(ctx, id, func(task *model.Task) {
		task.Notifications++
	})
}
