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

type applicationRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newApplicationRepository(client *firestore.Client) *applicationRepository {
	return &applicationRepository{client: client}
}

func (r *applicationRepository) appCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_applications"
	}
	return "applications"
}

func (r *applicationRepository) attachmentCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_attachments"
	}
	return "attachments"
}

func (r *applicationRepository) Put(ctx context.Context, app *model.Application) error {
	if err := app.Validate(); err != nil {
		return goerr.Wrap(err, "invalid application", goerr.V("id", app.ID))
	}
	if _, err := r.client.Collection(r.appCollection()).Doc(string(app.ID)).Set(ctx, app); err != nil {
		return goerr.Wrap(err, "failed to put application", goerr.V("id", app.ID))
	}
	return nil
}

func (r *applicationRepository) Get(ctx context.Context, id types.ApplicationID) (*model.Application, error) {
	docSnap, err := r.client.Collection(r.appCollection()).Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "application not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get application", goerr.V("id", id))
	}

	var app model.Application
	if err := docSnap.DataTo(&app); err != nil {
		return nil, goerr.Wrap(err, "failed to decode application", goerr.V("id", id))
	}
	return &app, nil
}

func (r *applicationRepository) List(ctx context.Context) ([]*model.Application, error) {
	iter := r.client.Collection(r.appCollection()).OrderBy("created_at", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var apps []*model.Application
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate applications")
		}

		var app model.Application
		if err := docSnap.DataTo(&app); err != nil {
			return nil, goerr.Wrap(err, "failed to decode application")
		}
		apps = append(apps, &app)
	}
	return apps, nil
}

func (r *applicationRepository) PutAttachment(ctx context.Context, att *model.FileAttachment) error {
	if att.ID == "" {
		return goerr.New("attachment ID is required")
	}
	if _, err := r.client.Collection(r.attachmentCollection()).Doc(string(att.ID)).Set(ctx, att); err != nil {
		return goerr.Wrap(err, "failed to put attachment", goerr.V("id", att.ID))
	}
	return nil
}

func (r *applicationRepository) ListAttachments(ctx context.Context, appID types.ApplicationID) ([]*model.FileAttachment, error) {
	iter := r.client.Collection(r.attachmentCollection()).
		Where("application_id", "==", string(appID)).
		OrderBy("uploaded_at", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var atts []*model.FileAttachment
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate attachments", goerr.V("application_id", appID))
		}

		var att model.FileAttachment
		if err := docSnap.DataTo(&att); err != nil {
			return nil, goerr.Wrap(err, "failed to decode attachment")
		}
		atts = append(atts, &att)
	}
	return atts, nil
}
