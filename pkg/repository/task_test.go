package repository_test

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/themis/pkg/domain/interfaces"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/repository/memory"
)

func runTaskRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create fills defaults and Get round-trips", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		dueBy := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
		created, err := repo.Task().Create(ctx, &model.Task{
			ID:         "task-1",
			InstanceID: "inst-1",
			Title:      "Verify registration documents",
			Status:     types.TaskStatusPending,
			Priority:   types.PriorityImportant,
			AssignedTo: "user-1",
			DueBy:      &dueBy,
		})
		gt.NoError(t, err).Required()
		gt.V(t, created.UserStatus).Equal(types.UserStatusNew)
		gt.Bool(t, created.CreatedAt.IsZero()).False()
		gt.Bool(t, created.UpdatedAt.IsZero()).False()

		retrieved, err := repo.Task().Get(ctx, "task-1")
		gt.NoError(t, err).Required()
		gt.V(t, retrieved.Title).Equal("Verify registration documents")
		gt.V(t, retrieved.DueBy).NotNil()
		gt.V(t, retrieved.DueBy.Unix()).Equal(dueBy.Unix())
	})

	t.Run("Create without ID fails", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Task().Create(context.Background(), &model.Task{InstanceID: "inst-1"})
		gt.Error(t, err)
	})

	t.Run("Get missing task yields error", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Task().Get(context.Background(), "task-404")
		gt.Error(t, err)
	})

	t.Run("list accessors filter correctly", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		seed := []*model.Task{
			{ID: "task-1", InstanceID: "inst-1", AssignedTo: "user-1", Status: types.TaskStatusPending},
			{ID: "task-2", InstanceID: "inst-1", AssignedTo: "user-2", Status: types.TaskStatusInProgress},
			{ID: "task-3", InstanceID: "inst-2", AssignedTo: "user-1", Status: types.TaskStatusPending},
		}
		for _, task := range seed {
			_, err := repo.Task().Create(ctx, task)
			gt.NoError(t, err).Required()
		}

		all, err := repo.Task().List(ctx)
		gt.NoError(t, err).Required()
		gt.A(t, all).Length(3)

		byInstance, err := repo.Task().ListByInstance(ctx, "inst-1")
		gt.NoError(t, err).Required()
		gt.A(t, byInstance).Length(2)

		byAssignee, err := repo.Task().ListByAssignee(ctx, "user-1")
		gt.NoError(t, err).Required()
		gt.A(t, byAssignee).Length(2)

		byStatus, err := repo.Task().ListByStatus(ctx, types.TaskStatusPending)
		gt.NoError(t, err).Required()
		gt.A(t, byStatus).Length(2)
	})

	t.Run("UpdateStatus increments notifications once per real change", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Task().Create(ctx, &model.Task{
			ID: "task-1", InstanceID: "inst-1", Status: types.TaskStatusPending,
		})
		gt.NoError(t, err).Required()

		updated, err := repo.Task().UpdateStatus(ctx, "task-1", types.TaskStatusInProgress)
		gt.NoError(t, err).Required()
		gt.V(t, updated.Notifications).Equal(1)

		// Same status again: no increment.
		updated, err = repo.Task().UpdateStatus(ctx, "task-1", types.TaskStatusInProgress)
		gt.NoError(t, err).Required()
		gt.V(t, updated.Notifications).Equal(1)

		updated, err = repo.Task().UpdateStatus(ctx, "task-1", types.TaskStatusStashed)
		gt.NoError(t, err).Required()
		gt.V(t, updated.Notifications).Equal(2)
	})

	t.Run("UpdateStatus maintains completion fields both ways", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Task().Create(ctx, &model.Task{
			ID: "task-1", InstanceID: "inst-1", Status: types.TaskStatusInProgress,
		})
		gt.NoError(t, err).Required()

		completed, err := repo.Task().UpdateStatus(ctx, "task-1", types.TaskStatusCompleted)
		gt.NoError(t, err).Required()
		gt.V(t, completed.CompletedAt).NotNil()
		gt.V(t, completed.UserStatus).Equal(types.UserStatusCompleted)

		reopened, err := repo.Task().UpdateStatus(ctx, "task-1", types.TaskStatusInProgress)
		gt.NoError(t, err).Required()
		gt.V(t, reopened.CompletedAt).Nil()
	})

	t.Run("UpdateUserStatus and UpdateAction refresh UpdatedAt", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Task().Create(ctx, &model.Task{
			ID: "task-1", InstanceID: "inst-1", Status: types.TaskStatusPending,
		})
		gt.NoError(t, err).Required()

		time.Sleep(10 * time.Millisecond)
		updated, err := repo.Task().UpdateUserStatus(ctx, "task-1", types.UserStatusOpened)
		gt.NoError(t, err).Required()
		gt.V(t, updated.UserStatus).Equal(types.UserStatusOpened)
		gt.Bool(t, updated.UpdatedAt.After(created.UpdatedAt)).True()

		updated, err = repo.Task().UpdateAction(ctx, "task-1", "escalated to overseer")
		gt.NoError(t, err).Required()
		gt.V(t, updated.ActionTaken).Equal("escalated to overseer")
	})

	t.Run("notification counter reset and increment", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Task().Create(ctx, &model.Task{
			ID: "task-1", InstanceID: "inst-1", Status: types.TaskStatusPending, Notifications: 4,
		})
		gt.NoError(t, err).Required()

		updated, err := repo.Task().ResetNotifications(ctx, "task-1")
		gt.NoError(t, err).Required()
		gt.V(t, updated.Notifications).Equal(0)

		updated, err = repo.Task().IncrementNotifications(ctx, "task-1")
		gt.NoError(t, err).Required()
		gt.V(t, updated.Notifications).Equal(1)
	})

	t.Run("EscalateOverdue is one-way and idempotent", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Task().Create(ctx, &model.Task{
			ID: "task-1", InstanceID: "inst-1", Status: types.TaskStatusPending,
			Priority: types.PriorityCanDoLater,
		})
		gt.NoError(t, err).Required()

		updated, err := repo.Task().EscalateOverdue(ctx, "task-1")
		gt.NoError(t, err).Required()
		gt.V(t, updated.Priority).Equal(types.PriorityOverdue)

		updated, err = repo.Task().EscalateOverdue(ctx, "task-1")
		gt.NoError(t, err).Required()
		gt.V(t, updated.Priority).Equal(types.PriorityOverdue)
	})

	t.Run("mutations on a missing task yield error", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Task().UpdateStatus(ctx, "task-404", types.TaskStatusCompleted)
		gt.Error(t, err)
		_, err = repo.Task().ResetNotifications(ctx, "task-404")
		gt.Error(t, err)
	})
}

func TestTaskRepository_Memory(t *testing.T) {
	runTaskRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestTaskRepository_Firestore(t *testing.T) {
	runTaskRepositoryTest(t, newFirestoreRepository)
}

func TestTaskRepository_Memory_NotFoundSentinel(t *testing.T) {
	repo := memory.New()
	_, err := repo.Task().Get(context.Background(), "task-404")
	gt.Error(t, err)
	gt.Bool(t, errors.Is(err, memory.ErrNotFound)).True()
}

// Property: after any sequence of status updates, CompletedAt is present
// iff the status is Completed.
func TestTaskRepository_CompletionInvariant(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	_, err := repo.Task().Create(ctx, &model.Task{
		ID: "task-1", InstanceID: "inst-1", Status: types.TaskStatusPending,
	})
	gt.NoError(t, err).Required()

	statuses := types.AllTaskStatuses()
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		next := statuses[rng.Intn(len(statuses))]
		updated, err := repo.Task().UpdateStatus(ctx, "task-1", next)
		gt.NoError(t, err).Required()

		if updated.Status == types.TaskStatusCompleted {
			gt.V(t, updated.CompletedAt).NotNil()
		} else {
			gt.V(t, updated.CompletedAt).Nil()
		}
	}
}
