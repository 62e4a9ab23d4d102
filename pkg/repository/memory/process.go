package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

type processRepository struct {
	mu        sync.RWMutex
	processes map[types.ProcessID]*model.Process
	procOrder []types.ProcessID
	steps     map[types.StepID]*model.Step
	stepOrder []types.StepID
}

func newProcessRepository() *processRepository {
	return &processRepository{
		processes: make(map[types.ProcessID]*model.Process),
		steps:     make(map[types.StepID]*model.Step),
	}
}

func copyProcess(p *model.Process) *model.Process {
	copied := *p
	return &copied
}

func copyStep(s *model.Step) *model.Step {
	copied := *s
	copied.Actions = make([]model.StepAction, len(s.Actions))
	copy(copied.Actions, s.Actions)
	copied.Roles = make([]model.StepRole, len(s.Roles))
	copy(copied.Roles, s.Roles)
	return &copied
}

func (r *processRepository) Put(ctx context.Context, process *model.Process) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if process.ID == "" {
		return goerr.New("process ID is required")
	}
	if _, exists := r.processes[process.ID]; !exists {
		r.procOrder = append(r.procOrder, process.ID)
	}
	r.processes[process.ID] = copyProcess(process)
	return nil
}

func (r *processRepository) Get(ctx context.Context, id types.ProcessID) (*model.Process, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	process, exists := r.processes[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "process not found", goerr.V("id", id))
	}
	return copyProcess(process), nil
}

func (r *processRepository) List(ctx context.Context) ([]*model.Process, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	processes := make([]*model.Process, 0, len(r.procOrder))
	for _, id := range r.procOrder {
		processes = append(processes, copyProcess(r.processes[id]))
	}
	return processes, nil
}

func (r *processRepository) PutStep(ctx context.Context, step *model.Step) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if step.ID == "" {
		return goerr.New("step ID is required")
	}
	if _, exists := r.steps[step.ID]; !exists {
		r.stepOrder = append(r.stepOrder, step.ID)
	}
	r.steps[step.ID] = copyStep(step)
	return nil
}

func (r *processRepository) ListSteps(ctx context.Context, processID types.ProcessID) ([]*model.Step, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	steps := make([]*model.Step, 0)
	for _, id := range r.stepOrder {
		if s := r.steps[id]; s.ProcessID == processID {
			steps = append(steps, copyStep(s))
		}
	}
	sort.Slice(steps, func(i, j int) bool { return steps[i].Order < steps[j].Order })
	return steps, nil
}
