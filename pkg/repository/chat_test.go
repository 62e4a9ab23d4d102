package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/themis/pkg/domain/interfaces"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/repository/memory"
)

func runChatRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("comments list per task in creation order", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		base := time.Now().UTC().Truncate(time.Second)

		comments := []*model.Comment{
			{ID: "comment-1", TaskID: "task-1", UserID: "user-1", Content: "first", CreatedAt: base},
			{ID: "comment-2", TaskID: "task-2", UserID: "user-1", Content: "other task", CreatedAt: base.Add(time.Second)},
			{ID: "comment-3", TaskID: "task-1", UserID: "user-2", Content: "second", CreatedAt: base.Add(2 * time.Second)},
		}
		for _, comment := range comments {
			gt.NoError(t, repo.Comment().Add(ctx, comment)).Required()
		}

		got, err := repo.Comment().ListByTask(ctx, "task-1")
		gt.NoError(t, err).Required()
		gt.A(t, got).Length(2)
		gt.V(t, got[0].Content).Equal("first")
		gt.V(t, got[1].Content).Equal("second")
	})

	t.Run("CountByTaskSince counts strictly-after comments", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		base := time.Now().UTC().Truncate(time.Second)

		gt.NoError(t, repo.Comment().Add(ctx, &model.Comment{
			ID: "comment-1", TaskID: "task-1", Content: "before", CreatedAt: base.Add(-time.Hour),
		})).Required()
		gt.NoError(t, repo.Comment().Add(ctx, &model.Comment{
			ID: "comment-2", TaskID: "task-1", Content: "after", CreatedAt: base.Add(time.Hour),
		})).Required()

		count, err := repo.Comment().CountByTaskSince(ctx, "task-1", base)
		gt.NoError(t, err).Required()
		gt.V(t, count).Equal(1)
	})

	t.Run("messages round-trip with reference metadata", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		gt.NoError(t, repo.Message().Add(ctx, &model.Message{
			ID:      "msg-1",
			UserID:  "user-1",
			Content: "see TASK-1",
			Refs: model.MessageRefs{
				TaskIDs: []string{"1"},
			},
			CreatedAt: time.Now().UTC(),
		})).Required()

		messages, err := repo.Message().List(ctx)
		gt.NoError(t, err).Required()
		gt.A(t, messages).Length(1)
		gt.A(t, messages[0].Refs.TaskIDs).Length(1)
		gt.V(t, messages[0].Refs.TaskIDs[0]).Equal("1")
	})

	t.Run("logs list by task and by instance", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		base := time.Now().UTC().Truncate(time.Second)

		entries := []*model.WorkflowLog{
			{ID: "log-1", InstanceID: "inst-1", TaskID: "task-1", Action: model.LogActionTaskCreated, CreatedAt: base},
			{ID: "log-2", InstanceID: "inst-1", TaskID: "task-2", Action: model.LogActionStatusChanged, CreatedAt: base.Add(time.Second)},
			{ID: "log-3", InstanceID: "inst-2", TaskID: "task-3", Action: model.LogActionTaskCompleted, CreatedAt: base.Add(2 * time.Second)},
		}
		for _, entry := range entries {
			gt.NoError(t, repo.Log().Add(ctx, entry)).Required()
		}

		byTask, err := repo.Log().ListByTask(ctx, "task-1")
		gt.NoError(t, err).Required()
		gt.A(t, byTask).Length(1)
		gt.V(t, byTask[0].ID).Equal(types.LogID("log-1"))

		byInstance, err := repo.Log().ListByInstance(ctx, "inst-1")
		gt.NoError(t, err).Required()
		gt.A(t, byInstance).Length(2)
	})
}

func TestChatRepository_Memory(t *testing.T) {
	runChatRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestChatRepository_Firestore(t *testing.T) {
	runChatRepositoryTest(t, newFirestoreRepository)
}
