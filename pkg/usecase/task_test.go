package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/repository/memory"
	"github.com/secmon-lab/themis/pkg/usecase"
)

func seedTask(t *testing.T, repo *memory.Memory, task *model.Task) *model.Task {
	t.Helper()
	created, err := repo.Task().Create(context.Background(), task)
	gt.NoError(t, err).Required()
	return created
}

func TestTaskUseCase_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("real change increments notifications and logs", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.New(repo)
		seedTask(t, repo, &model.Task{
			ID:         "task-1",
			InstanceID: "inst-1",
			Status:     types.TaskStatusPending,
		})

		updated, err := uc.Task.UpdateStatus(ctx, "task-1", types.TaskStatusInProgress)
		gt.NoError(t, err).Required()
		gt.V(t, updated.Status).Equal(types.TaskStatusInProgress)
		gt.V(t, updated.Notifications).Equal(1)

		logs, err := repo.Log().ListByTask(ctx, "task-1")
		gt.NoError(t, err).Required()
		gt.A(t, logs).Length(1)
		gt.V(t, logs[0].Action).Equal(model.LogActionStatusChanged)
		gt.V(t, logs[0].InstanceID).Equal(types.InstanceID("inst-1"))
	})

	t.Run("same-status call is a no-op on the counter and the log", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.New(repo)
		seedTask(t, repo, &model.Task{
			ID:         "task-1",
			InstanceID: "inst-1",
			Status:     types.TaskStatusInProgress,
		})

		updated, err := uc.Task.UpdateStatus(ctx, "task-1", types.TaskStatusInProgress)
		gt.NoError(t, err).Required()
		gt.V(t, updated.Notifications).Equal(0)

		logs, err := repo.Log().ListByTask(ctx, "task-1")
		gt.NoError(t, err).Required()
		gt.A(t, logs).Length(0)
	})

	t.Run("completion sets completedAt and logs Task Completed", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.New(repo)
		seedTask(t, repo, &model.Task{
			ID:         "task-1",
			InstanceID: "inst-1",
			Status:     types.TaskStatusInProgress,
		})

		updated, err := uc.Task.UpdateStatus(ctx, "task-1", types.TaskStatusCompleted)
		gt.NoError(t, err).Required()
		gt.V(t, updated.CompletedAt).NotNil()
		gt.V(t, updated.UserStatus).Equal(types.UserStatusCompleted)

		logs, err := repo.Log().ListByTask(ctx, "task-1")
		gt.NoError(t, err).Required()
		gt.A(t, logs).Length(1)
		gt.V(t, logs[0].Action).Equal(model.LogActionTaskCompleted)
	})

	t.Run("missing task yields not found", func(t *testing.T) {
		uc := usecase.New(memory.New())
		_, err := uc.Task.UpdateStatus(ctx, "task-999", types.TaskStatusCompleted)
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, usecase.ErrTaskNotFound)).True()
	})
}

func TestTaskUseCase_OpenTask(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	uc := usecase.New(repo)

	seedTask(t, repo, &model.Task{
		ID:            "task-1",
		InstanceID:    "inst-1",
		Status:        types.TaskStatusPending,
		UserStatus:    types.UserStatusNew,
		Notifications: 3,
	})
	_, err := uc.Chat.AddComment(ctx, "task-1", "user-1", "first look")
	gt.NoError(t, err).Required()

	detail, err := uc.Task.OpenTask(ctx, "task-1")
	gt.NoError(t, err).Required()
	gt.V(t, detail.Task.Notifications).Equal(0)
	gt.V(t, detail.Task.UserStatus).Equal(types.UserStatusOpened)
	gt.A(t, detail.Comments).Length(1)
	gt.V(t, detail.Application).Nil()
}

func TestTaskUseCase_CloseTaskView(t *testing.T) {
	ctx := context.Background()

	t.Run("incomplete task is stashed", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.New(repo)
		seedTask(t, repo, &model.Task{
			ID:         "task-1",
			InstanceID: "inst-1",
			Status:     types.TaskStatusInProgress,
			UserStatus: types.UserStatusNew,
		})

		updated, err := uc.Task.CloseTaskView(ctx, "task-1")
		gt.NoError(t, err).Required()
		gt.V(t, updated.UserStatus).Equal(types.UserStatusStashed)
	})

	t.Run("completed task stays completed", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.New(repo)
		seedTask(t, repo, &model.Task{
			ID:         "task-1",
			InstanceID: "inst-1",
			Status:     types.TaskStatusInProgress,
			UserStatus: types.UserStatusNew,
		})
		_, err := uc.Task.UpdateStatus(ctx, "task-1", types.TaskStatusCompleted)
		gt.NoError(t, err).Required()

		updated, err := uc.Task.CloseTaskView(ctx, "task-1")
		gt.NoError(t, err).Required()
		gt.V(t, updated.UserStatus).Equal(types.UserStatusCompleted)
	})
}

func TestTaskUseCase_CompleteTask(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	uc := usecase.New(repo)
	seedTask(t, repo, &model.Task{
		ID:         "task-1",
		InstanceID: "inst-1",
		Status:     types.TaskStatusInProgress,
	})

	updated, err := uc.Task.CompleteTask(ctx, "task-1", "approved with conditions")
	gt.NoError(t, err).Required()
	gt.V(t, updated.Status).Equal(types.TaskStatusCompleted)
	gt.V(t, updated.ActionTaken).Equal("approved with conditions")
	gt.V(t, updated.CompletedAt).NotNil()
}

func TestTaskUseCase_SweepOverdue(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := memory.New()
	uc := usecase.New(repo, usecase.WithClock(func() time.Time { return now }))

	past := now.Add(-2 * time.Hour)
	future := now.Add(5 * time.Hour)

	seedTask(t, repo, &model.Task{
		ID: "task-1", InstanceID: "inst-1",
		Status: types.TaskStatusInProgress, Priority: types.PriorityImportant, DueBy: &past,
	})
	seedTask(t, repo, &model.Task{
		ID: "task-2", InstanceID: "inst-1",
		Status: types.TaskStatusInProgress, Priority: types.PriorityUrgent, DueBy: &future,
	})
	seedTask(t, repo, &model.Task{
		ID: "task-3", InstanceID: "inst-1",
		Status: types.TaskStatusCompleted, Priority: types.PriorityImportant, DueBy: &past,
	})
	seedTask(t, repo, &model.Task{
		ID: "task-4", InstanceID: "inst-1",
		Status: types.TaskStatusInProgress, Priority: types.PriorityImportant,
	})

	escalated, err := uc.Task.SweepOverdue(ctx)
	gt.NoError(t, err).Required()
	gt.V(t, escalated).Equal(1)

	task1, err := repo.Task().Get(ctx, "task-1")
	gt.NoError(t, err).Required()
	gt.V(t, task1.Priority).Equal(types.PriorityOverdue)

	task2, err := repo.Task().Get(ctx, "task-2")
	gt.NoError(t, err).Required()
	gt.V(t, task2.Priority).Equal(types.PriorityUrgent)

	// Second sweep finds nothing left to escalate.
	escalated, err = uc.Task.SweepOverdue(ctx)
	gt.NoError(t, err).Required()
	gt.V(t, escalated).Equal(0)
}
