package interfaces

import (
	"context"

	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

// ApplicationRepository defines the interface for application reference data.
// Applications and attachments are read-only for the engine; Put exists for
// seeding.
type ApplicationRepository interface {
	// Put stores an application
	Put(ctx context.Context, app *model.Application) error

	// Get retrieves an application by ID
	Get(ctx context.Context, id types.ApplicationID) (*model.Application, error)

	// List retrieves all applications
	List(ctx context.Context) ([]*model.Application, error)

	// PutAttachment stores a file attachment record
	PutAttachment(ctx context.Context, att *model.FileAttachment) error

	// ListAttachments retrieves attachments owned by an application
	ListAttachments(ctx context.Context, appID types.ApplicationID) ([]*model.FileAttachment, error)
}
