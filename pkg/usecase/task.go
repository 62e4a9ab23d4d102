package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/interfaces"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/model/auth"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/service/deadline"
	"github.com/secmon-lab/themis/pkg/utils/logging"
)

// TaskUseCase implements the task lifecycle: status transitions with audit
// logging, the open/close interaction flow, and deadline escalation.
type TaskUseCase struct {
	repo interfaces.Repository
	now  func() time.Time
}

func NewTaskUseCase(repo interfaces.Repository, now func() time.Time) *TaskUseCase {
	return &TaskUseCase{repo: repo, now: now}
}

// TaskDetail is the payload for a task detail view: the task itself, its
// comment thread, and the application it ultimately concerns (nil when the
// owning instance does not target an application).
type TaskDetail struct {
	Task        *model.Task        `json:"task"`
	Comments    []*model.Comment   `json:"comments"`
	Application *model.Application `json:"application,omitempty"`
}

func (uc *TaskUseCase) Get(ctx context.Context, id types.TaskID) (*model.Task, error) {
	task, err := uc.repo.Task().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(ErrTaskNotFound, "task not found", goerr.V(TaskIDKey, id))
	}
	return task, nil
}

func (uc *TaskUseCase) List(ctx context.Context) ([]*model.Task, error) {
	return uc.repo.Task().List(ctx)
}

func (uc *TaskUseCase) ListByInstance(ctx context.Context, instanceID types.InstanceID) ([]*model.Task, error) {
	return uc.repo.Task().ListByInstance(ctx, instanceID)
}

func (uc *TaskUseCase) ListByAssignee(ctx context.Context, userID types.UserID) ([]*model.Task, error) {
	return uc.repo.Task().ListByAssignee(ctx, userID)
}

func (uc *TaskUseCase) ListByStatus(ctx context.Context, status types.TaskStatus) ([]*model.Task, error) {
	return uc.repo.Task().ListByStatus(ctx, status)
}

// UpdateStatus transitions the task's workflow status and appends an audit
// log entry when the status actually changed. Log append failures do not
// fail the transition.
func (uc *TaskUseCase) UpdateStatus(ctx context.Context, id types.TaskID, status types.TaskStatus) (*model.Task, error) {
	current, err := uc.repo.Task().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(ErrTaskNotFound, "task not found", goerr.V(TaskIDKey, id))
	}

	updated, err := uc.repo.Task().UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update task status", goerr.V(TaskIDKey, id))
	}

	if current.Status != status {
		uc.appendStatusLog(ctx, updated, current.Status, status)
	}

	return updated, nil
}

func (uc *TaskUseCase) appendStatusLog(ctx context.Context, task *model.Task, from, to types.TaskStatus) {
	action := model.LogActionStatusChanged
	if to == types.TaskStatusCompleted {
		action = model.LogActionTaskCompleted
	}

	var userID types.UserID
	if token, err := auth.TokenFromContext(ctx); err == nil {
		userID = token.Sub
	}

	entry := &model.WorkflowLog{
		ID:         types.NewLogID(),
		InstanceID: task.InstanceID,
		TaskID:     task.ID,
		UserID:     userID,
		Action:     action,
		Details:    fmt.Sprintf("%s -> %s", from, to),
		CreatedAt:  uc.now().UTC(),
	}
	if err := uc.repo.Log().Add(ctx, entry); err != nil {
		logging.From(ctx).Warn("failed to append workflow log",
			"task_id", task.ID, "error", err)
	}
}

func (uc *TaskUseCase) UpdateUserStatus(ctx context.Context, id types.TaskID, userStatus types.UserStatus) (*model.Task, error) {
	task, err := uc.repo.Task().UpdateUserStatus(ctx, id, userStatus)
	if err != nil {
		return nil, goerr.Wrap(ErrTaskNotFound, "task not found", goerr.V(TaskIDKey, id))
	}
	return task, nil
}

func (uc *TaskUseCase) UpdateAction(ctx context.Context, id types.TaskID, action string) (*model.Task, error) {
	task, err := uc.repo.Task().UpdateAction(ctx, id, action)
	if err != nil {
		return nil, goerr.Wrap(ErrTaskNotFound, "task not found", goerr.V(TaskIDKey, id))
	}
	return task, nil
}

// OpenTask marks the task as opened by its assignee: the notification
// counter resets, the personal state becomes Opened, and the full detail
// payload is returned.
func (uc *TaskUseCase) OpenTask(ctx context.Context, id types.TaskID) (*TaskDetail, error) {
	if _, err := uc.repo.Task().ResetNotifications(ctx, id); err != nil {
		return nil, goerr.Wrap(ErrTaskNotFound, "task not found", goerr.V(TaskIDKey, id))
	}

	task, err := uc.repo.Task().UpdateUserStatus(ctx, id, types.UserStatusOpened)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to mark task opened", goerr.V(TaskIDKey, id))
	}

	comments, err := uc.repo.Comment().ListByTask(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list comments", goerr.V(TaskIDKey, id))
	}

	detail := &TaskDetail{Task: task, Comments: comments}
	if app, err := uc.applicationFor(ctx, task); err == nil {
		detail.Application = app
	}

	return detail, nil
}

func (uc *TaskUseCase) applicationFor(ctx context.Context, task *model.Task) (*model.Application, error) {
	instance, err := uc.repo.Instance().Get(ctx, task.InstanceID)
	if err != nil {
		return nil, err
	}
	return uc.repo.Application().Get(ctx, types.ApplicationID(instance.EntityID))
}

// CloseTaskView records that the user closed the detail view without acting
// further: a completed task stays Completed, anything else is Stashed.
func (uc *TaskUseCase) CloseTaskView(ctx context.Context, id types.TaskID) (*model.Task, error) {
	task, err := uc.repo.Task().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(ErrTaskNotFound, "task not found", goerr.V(TaskIDKey, id))
	}

	userStatus := types.UserStatusStashed
	if task.Status == types.TaskStatusCompleted {
		userStatus = types.UserStatusCompleted
	}

	updated, err := uc.repo.Task().UpdateUserStatus(ctx, id, userStatus)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to close task view", goerr.V(TaskIDKey, id))
	}
	return updated, nil
}

// CompleteTask records the action taken and transitions the task to
// Completed in one call.
func (uc *TaskUseCase) CompleteTask(ctx context.Context, id types.TaskID, actionText string) (*model.Task, error) {
	if _, err := uc.UpdateAction(ctx, id, actionText); err != nil {
		return nil, err
	}
	return uc.UpdateStatus(ctx, id, types.TaskStatusCompleted)
}

// SweepOverdue walks all tasks and escalates the stored priority of those
// whose deadline has passed. Returns the number of escalated tasks. The
// read paths derive overdue state on the fly; this sweep only catches the
// stored records up so list queries filtered by priority stay truthful.
func (uc *TaskUseCase) SweepOverdue(ctx context.Context) (int, error) {
	tasks, err := uc.repo.Task().List(ctx)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to list tasks for overdue sweep")
	}

	now := uc.now()
	escalated := 0
	for _, task := range tasks {
		if task.Status == types.TaskStatusCompleted || task.Priority == types.PriorityOverdue {
			continue
		}
		if !deadline.Assess(task.DueBy, task.Priority, now).Overdue() {
			continue
		}
		if _, err := uc.repo.Task().EscalateOverdue(ctx, task.ID); err != nil {
			logging.From(ctx).Warn("failed to escalate overdue task",
				"task_id", task.ID, "error", err)
			continue
		}
		escalated++
	}
	return escalated, nil
}
