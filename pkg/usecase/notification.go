package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/interfaces"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

// NotificationUseCase reconciles task notification counts. The stored
// counter on the task is the primary source of truth; Calculate rebuilds
// the count from history for when the stored value is unavailable.
type NotificationUseCase struct {
	repo interfaces.Repository
}

func NewNotificationUseCase(repo interfaces.Repository) *NotificationUseCase {
	return &NotificationUseCase{repo: repo}
}

// Calculate derives the notification count from history: comments created
// after since plus state-changing log entries after since.
func (uc *NotificationUseCase) Calculate(ctx context.Context, taskID types.TaskID, since time.Time) (int, error) {
	count, err := uc.repo.Comment().CountByTaskSince(ctx, taskID, since)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to count comments", goerr.V(TaskIDKey, taskID))
	}

	logs, err := uc.repo.Log().ListByTask(ctx, taskID)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to list logs", goerr.V(TaskIDKey, taskID))
	}
	for _, entry := range logs {
		if entry.CreatedAt.After(since) && entry.IsStateChange() {
			count++
		}
	}
	return count, nil
}

// Count returns the stored notification counter, falling back to full
// derivation when the task record cannot be read.
func (uc *NotificationUseCase) Count(ctx context.Context, taskID types.TaskID) (int, error) {
	task, err := uc.repo.Task().Get(ctx, taskID)
	if err == nil {
		return task.Notifications, nil
	}
	return uc.Calculate(ctx, taskID, time.Time{})
}
