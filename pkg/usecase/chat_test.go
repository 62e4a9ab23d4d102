package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/repository/memory"
	"github.com/secmon-lab/themis/pkg/usecase"
)

func TestChatUseCase_AddComment(t *testing.T) {
	ctx := context.Background()

	t.Run("comment appends and bumps the task counter", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.New(repo)
		seedTask(t, repo, &model.Task{ID: "task-1", InstanceID: "inst-1"})

		comment, err := uc.Chat.AddComment(ctx, "task-1", "user-1", "looks good")
		gt.NoError(t, err).Required()
		gt.V(t, comment.TaskID).Equal(types.TaskID("task-1"))
		gt.V(t, comment.UserID).Equal(types.UserID("user-1"))

		comments, err := uc.Chat.CommentsByTask(ctx, "task-1")
		gt.NoError(t, err).Required()
		gt.A(t, comments).Length(1)
		gt.V(t, comments[0].Content).Equal("looks good")

		task, err := repo.Task().Get(ctx, "task-1")
		gt.NoError(t, err).Required()
		gt.V(t, task.Notifications).Equal(1)
	})

	t.Run("missing task still stores the comment", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.New(repo)

		_, err := uc.Chat.AddComment(ctx, "task-404", "user-1", "orphaned note")
		gt.NoError(t, err).Required()

		comments, err := uc.Chat.CommentsByTask(ctx, "task-404")
		gt.NoError(t, err).Required()
		gt.A(t, comments).Length(1)
	})

	t.Run("blank content is rejected", func(t *testing.T) {
		uc := usecase.New(memory.New())
		_, err := uc.Chat.AddComment(ctx, "task-1", "user-1", "   ")
		gt.Error(t, err)
	})
}

func TestChatUseCase_AddMessage(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	uc := usecase.New(repo)

	msg, err := uc.Chat.AddMessage(ctx, "user-1", "blocked on TASK-1 and TASK-2, see INST-3")
	gt.NoError(t, err).Required()
	gt.A(t, msg.Refs.TaskIDs).Length(2)
	gt.V(t, msg.Refs.TaskIDs[0]).Equal("1")
	gt.V(t, msg.Refs.TaskIDs[1]).Equal("2")
	gt.A(t, msg.Refs.InstanceIDs).Length(1)
	gt.V(t, msg.Refs.InstanceIDs[0]).Equal("3")

	messages, err := uc.Chat.Messages(ctx)
	gt.NoError(t, err).Required()
	gt.A(t, messages).Length(1)
	gt.V(t, messages[0].ID).Equal(msg.ID)
}
