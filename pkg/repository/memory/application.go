package memory

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

type applicationRepository struct {
	mu           sync.RWMutex
	applications map[types.ApplicationID]*model.Application
	appOrder     []types.ApplicationID
	attachments  []*model.FileAttachment
}

func newApplicationRepository() *applicationRepository {
	return &applicationRepository{
		applications: make(map[types.ApplicationID]*model.Application),
	}
}

func copyApplication(a *model.Application) *model.Application {
	copied := *a
	if a.Company != nil {
		company := *a.Company
		copied.Company = &company
	}
	if a.Person != nil {
		person := *a.Person
		copied.Person = &person
	}
	if a.Trust != nil {
		trust := *a.Trust
		copied.Trust = &trust
	}
	copied.Attachments = make([]types.AttachmentID, len(a.Attachments))
	copy(copied.Attachments, a.Attachments)
	return &copied
}

func (r *applicationRepository) Put(ctx context.Context, app *model.Application) error {
	if err := app.Validate(); err != nil {
		return goerr.Wrap(err, "invalid application", goerr.V("id", app.ID))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.applications[app.ID]; !exists {
		r.appOrder = append(r.appOrder, app.ID)
	}
	r.applications[app.ID] = copyApplication(app)
	return nil
}

func (r *applicationRepository) Get(ctx context.Context, id types.ApplicationID) (*model.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	app, exists := r.applications[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "application not found", goerr.V("id", id))
	}
	return copyApplication(app), nil
}

func (r *applicationRepository) List(ctx context.Context) ([]*model.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	apps := make([]*model.Application, 0, len(r.appOrder))
	for _, id := range r.appOrder {
		apps = append(apps, copyApplication(r.applications[id]))
	}
	return apps, nil
}

func (r *applicationRepository) PutAttachment(ctx context.Context, att *model.FileAttachment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if att.ID == "" {
		return goerr.New("attachment ID is required")
	}
	copied := *att
	r.attachments = append(r.attachments, &copied)
	return nil
}

func (r *applicationRepository) ListAttachments(ctx context.Context, appID types.ApplicationID) ([]*model.FileAttachment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	atts := make([]*model.FileAttachment, 0)
	for _, att := range r.attachments {
		if att.ApplicationID == appID {
			copied := *att
			atts = append(atts, &copied)
		}
	}
	return atts, nil
}
