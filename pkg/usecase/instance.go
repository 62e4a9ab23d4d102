package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/interfaces"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

// InstanceUseCase wraps instance data access with absent-result semantics.
type InstanceUseCase struct {
	repo interfaces.Repository
}

func NewInstanceUseCase(repo interfaces.Repository) *InstanceUseCase {
	return &InstanceUseCase{repo: repo}
}

func (uc *InstanceUseCase) Get(ctx context.Context, id types.InstanceID) (*model.Instance, error) {
	instance, err := uc.repo.Instance().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(ErrInstanceNotFound, "instance not found", goerr.V(InstanceIDKey, id))
	}
	return instance, nil
}

func (uc *InstanceUseCase) List(ctx context.Context) ([]*model.Instance, error) {
	return uc.repo.Instance().List(ctx)
}

func (uc *InstanceUseCase) UpdateStatus(ctx context.Context, id types.InstanceID, status types.InstanceStatus) (*model.Instance, error) {
	instance, err := uc.repo.Instance().UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, goerr.Wrap(ErrInstanceNotFound, "instance not found", goerr.V(InstanceIDKey, id))
	}
	return instance, nil
}

func (uc *InstanceUseCase) UpdatePriority(ctx context.Context, id types.InstanceID, priority types.Priority) (*model.Instance, error) {
	instance, err := uc.repo.Instance().UpdatePriority(ctx, id, priority)
	if err != nil {
		return nil, goerr.Wrap(ErrInstanceNotFound, "instance not found", goerr.V(InstanceIDKey, id))
	}
	return instance, nil
}
