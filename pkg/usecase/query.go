package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/interfaces"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/service/deadline"
)

// QueryUseCase implements the read-side projections: filtering, search,
// priority ordering, the kanban board, and instance timelines. Filters are
// permissive: input that matches nothing yields an empty result, never an
// error.
type QueryUseCase struct {
	repo interfaces.Repository
	now  func() time.Time
}

func NewQueryUseCase(repo interfaces.Repository, now func() time.Time) *QueryUseCase {
	return &QueryUseCase{repo: repo, now: now}
}

// FilterCriteria are conjunctive optional predicates over instances. Zero
// values mean "no constraint". Date bounds are inclusive on StartedAt.
type FilterCriteria struct {
	ProcessType string     `json:"processType,omitempty"`
	Status      string     `json:"status,omitempty"`
	EntityType  string     `json:"entityType,omitempty"`
	DateFrom    *time.Time `json:"dateFrom,omitempty"`
	DateTo      *time.Time `json:"dateTo,omitempty"`
}

func (uc *QueryUseCase) FilterInstances(ctx context.Context, criteria FilterCriteria) ([]*model.Instance, error) {
	instances, err := uc.repo.Instance().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list instances")
	}

	var processTypes map[types.ProcessID]string
	if criteria.ProcessType != "" {
		processes, err := uc.repo.Process().List(ctx)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list processes")
		}
		processTypes = make(map[types.ProcessID]string, len(processes))
		for _, p := range processes {
			processTypes[p.ID] = p.Type
		}
	}

	matched := []*model.Instance{}
	for _, instance := range instances {
		if criteria.ProcessType != "" && processTypes[instance.ProcessID] != criteria.ProcessType {
			continue
		}
		if criteria.Status != "" && instance.Status.String() != criteria.Status {
			continue
		}
		if criteria.EntityType != "" && instance.EntityType != criteria.EntityType {
			continue
		}
		if criteria.DateFrom != nil && instance.StartedAt.Before(*criteria.DateFrom) {
			continue
		}
		if criteria.DateTo != nil && instance.StartedAt.After(*criteria.DateTo) {
			continue
		}
		matched = append(matched, instance)
	}
	return matched, nil
}

// SearchInstances matches query as a case-insensitive substring over the
// process name, entity type, entity id, instance id and status. An empty
// query matches everything.
func (uc *QueryUseCase) SearchInstances(ctx context.Context, query string) ([]*model.Instance, error) {
	instances, err := uc.repo.Instance().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list instances")
	}
	if query == "" {
		return instances, nil
	}

	processes, err := uc.repo.Process().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list processes")
	}
	processNames := make(map[types.ProcessID]string, len(processes))
	for _, p := range processes {
		processNames[p.ID] = p.Name
	}

	q := strings.ToLower(query)
	matched := []*model.Instance{}
	for _, instance := range instances {
		fields := []string{
			processNames[instance.ProcessID],
			instance.EntityType,
			instance.EntityID,
			instance.ID.String(),
			instance.Status.String(),
		}
		for _, field := range fields {
			if strings.Contains(strings.ToLower(field), q) {
				matched = append(matched, instance)
				break
			}
		}
	}
	return matched, nil
}

// TaskViews lists all tasks with their deadline assessment.
func (uc *QueryUseCase) TaskViews(ctx context.Context) ([]deadline.TaskView, error) {
	tasks, err := uc.repo.Task().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list tasks")
	}
	return deadline.AssessTasks(tasks, uc.now()), nil
}

// TaskViewsByAssignee lists a user's tasks with their deadline assessment.
func (uc *QueryUseCase) TaskViewsByAssignee(ctx context.Context, userID types.UserID) ([]deadline.TaskView, error) {
	tasks, err := uc.repo.Task().ListByAssignee(ctx, userID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list tasks", goerr.V("user_id", userID))
	}
	return deadline.AssessTasks(tasks, uc.now()), nil
}

// SortTasksByPriority orders views by effective priority rank, then by
// time left ascending (no deadline sorts last), then by due date ascending
// (no due date sorts last). The sort is stable, so equal keys keep their
// input order.
func (uc *QueryUseCase) SortTasksByPriority(views []deadline.TaskView) []deadline.TaskView {
	sorted := make([]deadline.TaskView, len(views))
	copy(sorted, views)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]

		if ra, rb := a.Assessment.Priority.Rank(), b.Assessment.Priority.Rank(); ra != rb {
			return ra < rb
		}

		switch {
		case a.Assessment.TimeLeft != nil && b.Assessment.TimeLeft != nil:
			if *a.Assessment.TimeLeft != *b.Assessment.TimeLeft {
				return *a.Assessment.TimeLeft < *b.Assessment.TimeLeft
			}
		case a.Assessment.TimeLeft != nil:
			return true
		case b.Assessment.TimeLeft != nil:
			return false
		}

		switch {
		case a.Task.DueBy != nil && b.Task.DueBy != nil:
			return a.Task.DueBy.Before(*b.Task.DueBy)
		case a.Task.DueBy != nil:
			return true
		default:
			return false
		}
	})
	return sorted
}

// CompletedTasks filters views down to completed tasks ordered by
// completion time, most recent first. A missing CompletedAt sorts as the
// zero time.
func (uc *QueryUseCase) CompletedTasks(views []deadline.TaskView) []deadline.TaskView {
	completed := []deadline.TaskView{}
	for _, view := range views {
		if view.Task.Status == types.TaskStatusCompleted {
			completed = append(completed, view)
		}
	}

	completedAt := func(v deadline.TaskView) time.Time {
		if v.Task.CompletedAt == nil {
			return time.Time{}
		}
		return *v.Task.CompletedAt
	}
	sort.SliceStable(completed, func(i, j int) bool {
		return completedAt(completed[i]).After(completedAt(completed[j]))
	})
	return completed
}

// KanbanBoard groups tasks into the four drawer lanes by personal state.
type KanbanBoard struct {
	InTray     []deadline.TaskView `json:"inTray"`
	InProgress []deadline.TaskView `json:"inProgress"`
	Stashed    []deadline.TaskView `json:"stashed"`
	OutTray    []deadline.TaskView `json:"outTray"`
}

// Kanban assigns each view to a lane by UserStatus, preserving input order
// within lanes.
func (uc *QueryUseCase) Kanban(views []deadline.TaskView) KanbanBoard {
	board := KanbanBoard{
		InTray:     []deadline.TaskView{},
		InProgress: []deadline.TaskView{},
		Stashed:    []deadline.TaskView{},
		OutTray:    []deadline.TaskView{},
	}
	for _, view := range views {
		switch view.Task.UserStatus {
		case types.UserStatusOpened:
			board.InProgress = append(board.InProgress, view)
		case types.UserStatusStashed:
			board.Stashed = append(board.Stashed, view)
		case types.UserStatusCompleted:
			board.OutTray = append(board.OutTray, view)
		default:
			board.InTray = append(board.InTray, view)
		}
	}
	return board
}

// TimelineEntry is one stage of an instance's progression. Kind is "task"
// when the step has been realized as a task, "step" when it is still only
// a template stage.
type TimelineEntry struct {
	Kind string      `json:"kind"`
	Step *model.Step `json:"step"`
	Task *model.Task `json:"task,omitempty"`
}

// Timeline builds the step-by-step progression of an instance: one entry
// per process step in step order, carrying the realized task where one
// exists.
func (uc *QueryUseCase) Timeline(ctx context.Context, instanceID types.InstanceID) ([]TimelineEntry, error) {
	instance, err := uc.repo.Instance().Get(ctx, instanceID)
	if err != nil {
		return nil, goerr.Wrap(ErrInstanceNotFound, "instance not found", goerr.V(InstanceIDKey, instanceID))
	}

	steps, err := uc.repo.Process().ListSteps(ctx, instance.ProcessID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list steps", goerr.V("process_id", instance.ProcessID))
	}

	tasks, err := uc.repo.Task().ListByInstance(ctx, instanceID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list tasks", goerr.V(InstanceIDKey, instanceID))
	}
	taskByStep := make(map[types.StepID]*model.Task, len(tasks))
	for _, task := range tasks {
		taskByStep[task.StepID] = task
	}

	entries := make([]TimelineEntry, 0, len(steps))
	for _, step := range steps {
		if task, ok := taskByStep[step.ID]; ok {
			entries = append(entries, TimelineEntry{Kind: "task", Step: step, Task: task})
		} else {
			entries = append(entries, TimelineEntry{Kind: "step", Step: step})
		}
	}
	return entries, nil
}

// ApplicationForTask resolves the application a task ultimately concerns by
// walking task to instance to entity.
func (uc *QueryUseCase) ApplicationForTask(ctx context.Context, taskID types.TaskID) (*model.Application, error) {
	task, err := uc.repo.Task().Get(ctx, taskID)
	if err != nil {
		return nil, goerr.Wrap(ErrTaskNotFound, "task not found", goerr.V(TaskIDKey, taskID))
	}

	instance, err := uc.repo.Instance().Get(ctx, task.InstanceID)
	if err != nil {
		return nil, goerr.Wrap(ErrInstanceNotFound, "instance not found", goerr.V(InstanceIDKey, task.InstanceID))
	}

	app, err := uc.repo.Application().Get(ctx, types.ApplicationID(instance.EntityID))
	if err != nil {
		return nil, goerr.Wrap(ErrApplicationNotFound, "application not found",
			goerr.V("entity_id", instance.EntityID))
	}
	return app, nil
}

// AttachmentsByApplication lists the file metadata owned by an application.
func (uc *QueryUseCase) AttachmentsByApplication(ctx context.Context, appID types.ApplicationID) ([]*model.FileAttachment, error) {
	return uc.repo.Application().ListAttachments(ctx, appID)
}
