package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type instanceRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newInstanceRepository(client *firestore.Client) *instanceRepository {
	return &instanceRepository{client: client}
}

func (r *instanceRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_instances"
	}
	return "instances"
}

func (r *instanceRepository) Create(ctx context.Context, instance *model.Instance) (*model.Instance, error) {
	if instance.ID == "" {
		return nil, goerr.New("instance ID is required")
	}

	created := *instance
	if created.StartedAt.IsZero() {
		created.StartedAt = time.Now().UTC()
	}

	if _, err := r.client.Collection(r.collection()).Doc(string(created.ID)).Set(ctx, &created); err != nil {
		return nil, goerr.Wrap(err, "failed to create instance", goerr.V("id", created.ID))
	}
	return &created, nil
}

func (r *instanceRepository) Get(ctx context.Context, id types.InstanceID) (*model.Instance, error) {
	docSnap, err := r.client.Collection(r.collection()).Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "instance not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get instance", goerr.V("id", id))
	}

	var instance model.Instance
	if err := docSnap.DataTo(&instance); err != nil {
		return nil, goerr.Wrap(err, "failed to decode instance", goerr.V("id", id))
	}
	return &instance, nil
}

func (r *instanceRepository) List(ctx context.Context) ([]*model.Instance, error) {
	iter := r.client.Collection(r.collection()).OrderBy("started_at", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var instances []*model.Instance
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate instances")
		}

		var instance model.Instance
		if err := docSnap.DataTo(&instance); err != nil {
			return nil, goerr.Wrap(err, "failed to decode instance")
		}
		instances = append(instances, &instance)
	}
	return instances, nil
}

func (r *instanceRepository) mutate(ctx context.Context, id types.InstanceID, fn func(*model.Instance)) (*model.Instance, error) {
	docRef := r.client.Collection(r.collection()).Doc(string(id))

	var updated model.Instance
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docSnap, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(ErrNotFound, "instance not found", goerr.V("id", id))
			}
			return goerr.Wrap(err, "failed to get instance", goerr.V("id", id))
		}

		var instance model.Instance
		if err := docSnap.DataTo(&instance); err != nil {
			return goerr.Wrap(err, "failed to decode instance", goerr.V("id", id))
		}

		fn(&instance)
		updated = instance
		return tx.Set(docRef, &instance)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *instanceRepository) UpdateStatus(ctx context.Context, id types.InstanceID, instanceStatus types.InstanceStatus) (*model.Instance, error) {
	return r.mutate(ctx, id, func(instance *model.Instance) {
		instance.Status = instanceStatus
		if instanceStatus == types.InstanceStatusCompleted {
			if instance.CompletedAt == nil {
				completedAt := time.Now().UTC()
				instance.CompletedAt = &completedAt
			}
		} else {
			instance.CompletedAt = nil
		}
	})
}

func (r *instanceRepository) UpdatePriority(ctx context.Context, id types.InstanceID, priority types.Priority) (*model.Instance, error) {
	return r.mutate(ctx, id, func(instance *model.Instance) {
		instance.Priority = priority
	})
}
