package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/repository/memory"
	"github.com/secmon-lab/themis/pkg/service/deadline"
	"github.com/secmon-lab/themis/pkg/usecase"
)

func seedQueryFixture(t *testing.T, repo *memory.Memory) {
	t.Helper()
	ctx := context.Background()

	gt.NoError(t, repo.Process().Put(ctx, &model.Process{
		ID: "proc-1", Name: "Company Onboarding", Type: "onboarding",
	})).Required()
	gt.NoError(t, repo.Process().Put(ctx, &model.Process{
		ID: "proc-2", Name: "Annual Review", Type: "review",
	})).Required()

	_, err := repo.Instance().Create(ctx, &model.Instance{
		ID: "inst-1", ProcessID: "proc-1", EntityType: "Company", EntityID: "app-1",
		Status:    types.InstanceStatusInProgress,
		StartedAt: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
	})
	gt.NoError(t, err).Required()
	_, err = repo.Instance().Create(ctx, &model.Instance{
		ID: "inst-2", ProcessID: "proc-1", EntityType: "Person", EntityID: "app-2",
		Status:    types.InstanceStatusCompleted,
		StartedAt: time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC),
	})
	gt.NoError(t, err).Required()
	_, err = repo.Instance().Create(ctx, &model.Instance{
		ID: "inst-3", ProcessID: "proc-2", EntityType: "Company", EntityID: "app-3",
		Status:    types.InstanceStatusCompleted,
		StartedAt: time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC),
	})
	gt.NoError(t, err).Required()
}

func TestQueryUseCase_FilterInstances(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	seedQueryFixture(t, repo)
	uc := usecase.New(repo)

	t.Run("no criteria returns all", func(t *testing.T) {
		got, err := uc.Query.FilterInstances(ctx, usecase.FilterCriteria{})
		gt.NoError(t, err).Required()
		gt.A(t, got).Length(3)
	})

	t.Run("criteria are conjunctive", func(t *testing.T) {
		got, err := uc.Query.FilterInstances(ctx, usecase.FilterCriteria{
			Status:     "Completed",
			EntityType: "Company",
		})
		gt.NoError(t, err).Required()
		gt.A(t, got).Length(1)
		gt.V(t, got[0].ID).Equal(types.InstanceID("inst-3"))
	})

	t.Run("process type joins through the template", func(t *testing.T) {
		got, err := uc.Query.FilterInstances(ctx, usecase.FilterCriteria{ProcessType: "onboarding"})
		gt.NoError(t, err).Required()
		gt.A(t, got).Length(2)
	})

	t.Run("date bounds are inclusive", func(t *testing.T) {
		from := time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)
		to := time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC)
		got, err := uc.Query.FilterInstances(ctx, usecase.FilterCriteria{DateFrom: &from, DateTo: &to})
		gt.NoError(t, err).Required()
		gt.A(t, got).Length(2)
		gt.V(t, got[0].ID).Equal(types.InstanceID("inst-2"))
		gt.V(t, got[1].ID).Equal(types.InstanceID("inst-3"))
	})

	t.Run("unknown status matches nothing", func(t *testing.T) {
		got, err := uc.Query.FilterInstances(ctx, usecase.FilterCriteria{Status: "Bogus"})
		gt.NoError(t, err).Required()
		gt.A(t, got).Length(0)
	})
}

func TestQueryUseCase_SearchInstances(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	seedQueryFixture(t, repo)
	uc := usecase.New(repo)

	t.Run("matches process name case-insensitively", func(t *testing.T) {
		got, err := uc.Query.SearchInstances(ctx, "onboard")
		gt.NoError(t, err).Required()
		gt.A(t, got).Length(2)
	})

	t.Run("matches instance id", func(t *testing.T) {
		got, err := uc.Query.SearchInstances(ctx, "INST-3")
		gt.NoError(t, err).Required()
		gt.A(t, got).Length(1)
		gt.V(t, got[0].ID).Equal(types.InstanceID("inst-3"))
	})

	t.Run("matches status", func(t *testing.T) {
		got, err := uc.Query.SearchInstances(ctx, "completed")
		gt.NoError(t, err).Required()
		gt.A(t, got).Length(2)
	})

	t.Run("empty query returns all", func(t *testing.T) {
		got, err := uc.Query.SearchInstances(ctx, "")
		gt.NoError(t, err).Required()
		gt.A(t, got).Length(3)
	})

	t.Run("no match yields empty result", func(t *testing.T) {
		got, err := uc.Query.SearchInstances(ctx, "zzz")
		gt.NoError(t, err).Required()
		gt.A(t, got).Length(0)
	})
}

func TestQueryUseCase_SortTasksByPriority(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := memory.New()
	uc := usecase.New(repo, usecase.WithClock(func() time.Time { return now }))

	in2h := now.Add(2 * time.Hour)
	in100h := now.Add(100 * time.Hour)
	in1h := now.Add(1 * time.Hour)

	views := deadline.AssessTasks([]*model.Task{
		{ID: "task-a", Priority: types.PriorityImportant, DueBy: &in2h},
		{ID: "task-b", Priority: types.PriorityOverdue, DueBy: &in100h},
		{ID: "task-c", Priority: types.PriorityImportant, DueBy: &in1h},
	}, now)

	sorted := uc.Query.SortTasksByPriority(views)
	gt.A(t, sorted).Length(3)
	gt.V(t, sorted[0].Task.ID).Equal(types.TaskID("task-b"))
	gt.V(t, sorted[1].Task.ID).Equal(types.TaskID("task-c"))
	gt.V(t, sorted[2].Task.ID).Equal(types.TaskID("task-a"))

	t.Run("no deadline sorts after any deadline of the same rank", func(t *testing.T) {
		views := deadline.AssessTasks([]*model.Task{
			{ID: "task-x", Priority: types.PriorityUrgent},
			{ID: "task-y", Priority: types.PriorityUrgent, DueBy: &in100h},
		}, now)
		sorted := uc.Query.SortTasksByPriority(views)
		gt.V(t, sorted[0].Task.ID).Equal(types.TaskID("task-y"))
		gt.V(t, sorted[1].Task.ID).Equal(types.TaskID("task-x"))
	})

	t.Run("input slice is not mutated", func(t *testing.T) {
		gt.V(t, views[0].Task.ID).Equal(types.TaskID("task-a"))
	})
}

func TestQueryUseCase_CompletedTasks(t *testing.T) {
	now := time.Now().UTC()
	uc := usecase.New(memory.New())

	earlier := now.Add(-2 * time.Hour)
	later := now.Add(-1 * time.Hour)

	views := deadline.AssessTasks([]*model.Task{
		{ID: "task-1", Status: types.TaskStatusCompleted, CompletedAt: &earlier},
		{ID: "task-2", Status: types.TaskStatusInProgress},
		{ID: "task-3", Status: types.TaskStatusCompleted, CompletedAt: &later},
		{ID: "task-4", Status: types.TaskStatusCompleted},
	}, now)

	got := uc.Query.CompletedTasks(views)
	gt.A(t, got).Length(3)
	gt.V(t, got[0].Task.ID).Equal(types.TaskID("task-3"))
	gt.V(t, got[1].Task.ID).Equal(types.TaskID("task-1"))
	gt.V(t, got[2].Task.ID).Equal(types.TaskID("task-4"))
}

func TestQueryUseCase_Kanban(t *testing.T) {
	uc := usecase.New(memory.New())
	now := time.Now().UTC()

	views := deadline.AssessTasks([]*model.Task{
		{ID: "task-1", UserStatus: types.UserStatusNew},
		{ID: "task-2", UserStatus: types.UserStatusOpened},
		{ID: "task-3", UserStatus: types.UserStatusStashed},
		{ID: "task-4", UserStatus: types.UserStatusCompleted},
		{ID: "task-5", UserStatus: types.UserStatusNew},
	}, now)

	board := uc.Query.Kanban(views)
	gt.A(t, board.InTray).Length(2)
	gt.V(t, board.InTray[0].Task.ID).Equal(types.TaskID("task-1"))
	gt.V(t, board.InTray[1].Task.ID).Equal(types.TaskID("task-5"))
	gt.A(t, board.InProgress).Length(1)
	gt.A(t, board.Stashed).Length(1)
	gt.A(t, board.OutTray).Length(1)
}

func TestQueryUseCase_Timeline(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	uc := usecase.New(repo)

	gt.NoError(t, repo.Process().Put(ctx, &model.Process{ID: "proc-1", Name: "Onboarding"})).Required()
	gt.NoError(t, repo.Process().PutStep(ctx, &model.Step{ID: "step-2", ProcessID: "proc-1", Name: "Review", Order: 2})).Required()
	gt.NoError(t, repo.Process().PutStep(ctx, &model.Step{ID: "step-1", ProcessID: "proc-1", Name: "Intake", Order: 1})).Required()
	gt.NoError(t, repo.Process().PutStep(ctx, &model.Step{ID: "step-3", ProcessID: "proc-1", Name: "Decision", Order: 3})).Required()

	_, err := repo.Instance().Create(ctx, &model.Instance{ID: "inst-1", ProcessID: "proc-1"})
	gt.NoError(t, err).Required()

	_, err = repo.Task().Create(ctx, &model.Task{ID: "task-1", InstanceID: "inst-1", StepID: "step-1"})
	gt.NoError(t, err).Required()

	entries, err := uc.Query.Timeline(ctx, "inst-1")
	gt.NoError(t, err).Required()
	gt.A(t, entries).Length(3)

	gt.V(t, entries[0].Kind).Equal("task")
	gt.V(t, entries[0].Step.ID).Equal(types.StepID("step-1"))
	gt.V(t, entries[0].Task.ID).Equal(types.TaskID("task-1"))

	gt.V(t, entries[1].Kind).Equal("step")
	gt.V(t, entries[1].Step.ID).Equal(types.StepID("step-2"))
	gt.V(t, entries[1].Task).Nil()

	gt.V(t, entries[2].Kind).Equal("step")
	gt.V(t, entries[2].Step.ID).Equal(types.StepID("step-3"))
}

func TestQueryUseCase_ApplicationForTask(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	uc := usecase.New(repo)

	gt.NoError(t, repo.Application().Put(ctx, &model.Application{
		ID:   "app-1",
		Kind: types.ApplicationKindCompany,
		Company: &model.CompanyDetail{
			CompanyName:    "Acme Holdings",
			ApplicantName:  "Jo Smith",
			ApplicantEmail: "jo@example.com",
		},
		Status: types.ApplicationStatusSubmitted,
	})).Required()

	_, err := repo.Instance().Create(ctx, &model.Instance{
		ID: "inst-1", ProcessID: "proc-1", EntityType: "application", EntityID: "app-1",
	})
	gt.NoError(t, err).Required()
	_, err = repo.Task().Create(ctx, &model.Task{ID: "task-1", InstanceID: "inst-1"})
	gt.NoError(t, err).Required()

	app, err := uc.Query.ApplicationForTask(ctx, "task-1")
	gt.NoError(t, err).Required()
	gt.V(t, app.ID).Equal(types.ApplicationID("app-1"))
	gt.V(t, app.Company.CompanyName).Equal("Acme Holdings")
}
