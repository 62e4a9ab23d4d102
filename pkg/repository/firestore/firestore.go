package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/interfaces"
)

type Firestore struct {
	client           *firestore.Client
	collectionPrefix string

	process     *processRepository
	instance    *instanceRepository
	task        *taskRepository
	comment     *commentRepository
	message     *messageRepository
	logRepo     *logRepository
	application *applicationRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix namespaces all collections, used by tests to isolate
// runs against a shared project.
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.collectionPrefix = prefix
		f.process.collectionPrefix = prefix
		f.instance.collectionPrefix = prefix
		f.task.collectionPrefix = prefix
		f.comment.collectionPrefix = prefix
		f.message.collectionPrefix = prefix
		f.logRepo.collectionPrefix = prefix
		f.application.collectionPrefix = prefix
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID == "" {
		client, err = firestore.NewClient(ctx, projectID)
	} else {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client", goerr.V("projectID", projectID))
	}

	f := &Firestore{
		client:      client,
		process:     newProcessRepository(client),
		instance:    newInstanceRepository(client),
		task:        newTaskRepository(client),
		comment:     newCommentRepository(client),
		message:     newMessageRepository(client),
		logRepo:     newLogRepository(client),
		application: newApplicationRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Process() interfaces.ProcessRepository {
	return f.process
}

func (f *Firestore) Instance() interfaces.InstanceRepository {
	return f.instance
}

func (f *Firestore) Task() interfaces.TaskRepository {
	return f.task
}

func (f *Firestore) Comment() interfaces.CommentRepository {
	return f.comment
}

func (f *Firestore) Message() interfaces.MessageRepository {
	return f.message
}

func (f *Firestore) Log() interfaces.LogRepository {
	return f.logRepo
}

func (f *Firestore) Application() interfaces.ApplicationRepository {
	return f.application
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
