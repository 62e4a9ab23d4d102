package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type processRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newProcessRepository(client *firestore.Client) *processRepository {
	return &processRepository{client: client}
}

func (r *processRepository) processCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_processes"
	}
	return "processes"
}

func (r *processRepository) stepCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_steps"
	}
	return "steps"
}

func (r *processRepository) Put(ctx context.Context, process *model.Process) error {
	if process.ID == "" {
		return goerr.New("process ID is required")
	}
	if _, err := r.client.Collection(r.processCollection()).Doc(string(process.ID)).Set(ctx, process); err != nil {
		return goerr.Wrap(err, "failed to put process", goerr.V("id", process.ID))
	}
	return nil
}

func (r *processRepository) Get(ctx context.Context, id types.ProcessID) (*model.Process, error) {
	docSnap, err := r.client.Collection(r.processCollection()).Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "process not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get process", goerr.V("id", id))
	}

	var process model.Process
	if err := docSnap.DataTo(&process); err != nil {
		return nil, goerr.Wrap(err, "failed to decode process", goerr.V("id", id))
	}
	return &process, nil
}

func (r *processRepository) List(ctx context.Context) ([]*model.Process, error) {
	iter := r.client.Collection(r.processCollection()).OrderBy("created_at", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var processes []*model.Process
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate processes")
		}

		var process model.Process
		if err := docSnap.DataTo(&process); err != nil {
			return nil, goerr.Wrap(err, "failed to decode process")
		}
		processes = append(processes, &process)
	}
	return processes, nil
}

func (r *processRepository) PutStep(ctx context.Context, step *model.Step) error {
	if step.ID == "" {
		return goerr.New("step ID is required")
	}
	if _, err := r.client.Collection(r.stepCollection()).Doc(string(step.ID)).Set(ctx, step); err != nil {
		return goerr.Wrap(err, "failed to put step", goerr.V("id", step.ID))
	}
	return nil
}

func (r *processRepository) ListSteps(ctx context.Context, processID types.ProcessID) ([]*model.Step, error) {
	iter := r.client.Collection(r.stepCollection()).
		Where("process_id", "==", string(processID)).
		OrderBy("order", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var steps []*model.Step
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate steps", goerr.V("process_id", processID))
		}

		var step model.Step
		if err := docSnap.DataTo(&step); err != nil {
			return nil, goerr.Wrap(err, "failed to decode step")
		}
		steps = append(steps, &step)
	}
	return steps, nil
}
