package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/interfaces"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/service/refs"
	"github.com/secmon-lab/themis/pkg/utils/logging"
)

// ChatUseCase implements task comments and the free-form message stream.
type ChatUseCase struct {
	repo interfaces.Repository
	now  func() time.Time
}

func NewChatUseCase(repo interfaces.Repository, now func() time.Time) *ChatUseCase {
	return &ChatUseCase{repo: repo, now: now}
}

// AddComment appends a comment to a task and bumps the task's notification
// counter. The comment is stored even when the task does not exist; the
// counter bump is simply skipped in that case.
func (uc *ChatUseCase) AddComment(ctx context.Context, taskID types.TaskID, userID types.UserID, content string) (*model.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, goerr.New("comment content is empty")
	}

	comment := &model.Comment{
		ID:        types.NewCommentID(),
		TaskID:    taskID,
		UserID:    userID,
		Content:   content,
		CreatedAt: uc.now().UTC(),
	}
	if err := uc.repo.Comment().Add(ctx, comment); err != nil {
		return nil, goerr.Wrap(err, "failed to add comment", goerr.V(TaskIDKey, taskID))
	}

	if _, err := uc.repo.Task().IncrementNotifications(ctx, taskID); err != nil {
		logging.From(ctx).Debug("comment added without notification bump",
			"task_id", taskID, "error", err)
	}

	return comment, nil
}

func (uc *ChatUseCase) CommentsByTask(ctx context.Context, taskID types.TaskID) ([]*model.Comment, error) {
	return uc.repo.Comment().ListByTask(ctx, taskID)
}

// AddMessage appends a message with its reference lists computed at
// creation time, not at display time.
func (uc *ChatUseCase) AddMessage(ctx context.Context, userID types.UserID, content string) (*model.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, goerr.New("message content is empty")
	}

	msg := &model.Message{
		ID:      types.NewMessageID(),
		UserID:  userID,
		Content: content,
		Refs: model.MessageRefs{
			TaskIDs:     refs.TaskIDs(content),
			InstanceIDs: refs.InstanceIDs(content),
		},
		CreatedAt: uc.now().UTC(),
	}
	if err := uc.repo.Message().Add(ctx, msg); err != nil {
		return nil, goerr.Wrap(err, "failed to add message")
	}
	return msg, nil
}

func (uc *ChatUseCase) Messages(ctx context.Context) ([]*model.Message, error) {
	return uc.repo.Message().List(ctx)
}
