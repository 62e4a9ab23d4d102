package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"google.golang.org/api/iterator"
)

type commentRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newCommentRepository(client *firestore.Client) *commentRepository {
	return &commentRepository{client: client}
}

func (r *commentRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_comments"
	}
	return "comments"
}

func (r *commentRepository) Add(ctx context.Context, comment *model.Comment) error {
	if comment.ID == "" {
		return goerr.New("comment ID is required")
	}
	if _, err := r.client.Collection(r.collection()).Doc(string(comment.ID)).Set(ctx, comment); err != nil {
		return goerr.Wrap(err, "failed to add comment", goerr.V("id", comment.ID))
	}
	return nil
}

func (r *commentRepository) ListByTask(ctx context.Context, taskID types.TaskID) ([]*model.Comment, error) {
	iter := r.client.Collection(r.collection()).
		Where("task_id", "==", string(taskID)).
		OrderBy("created_at", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var comments []*model.Comment
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate comments", goerr.V("task_id", taskID))
		}

		var comment model.Comment
		if err := docSnap.DataTo(&comment); err != nil {
			return nil, goerr.Wrap(err, "failed to decode comment")
		}
		comments = append(comments, &comment)
	}
	return comments, nil
}

func (r *commentRepository) CountByTaskSince(ctx context.Context, taskID types.TaskID, since time.Time) (int, error) {
	comments, err := r.ListByTask(ctx, taskID)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, c := range comments {
		if c.CreatedAt.After(since) {
			count++
		}
	}
	return count, nil
}

type messageRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newMessageRepository(client *firestore.Client) *messageRepository {
	return &messageRepository{client: client}
}

func (r *messageRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_messages"
	}
	return "messages"
}

func (r *messageRepository) Add(ctx context.Context, msg *model.Message) error {
	if msg.ID == "" {
		return goerr.New("message ID is required")
	}
	if _, err := r.client.Collection(r.collection()).Doc(string(msg.ID)).Set(ctx, msg); err != nil {
		return goerr.Wrap(err, "failed to add message", goerr.V("id", msg.ID))
	}
	return nil
}

func (r *messageRepository) List(ctx context.Context) ([]*model.Message, error) {
	iter := r.client.Collection(r.collection()).OrderBy("created_at", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var messages []*model.Message
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate messages")
		}

		var msg model.Message
		if err := docSnap.DataTo(&msg); err != nil {
			return nil, goerr.Wrap(err, "failed to decode message")
		}
		messages = append(messages, &msg)
	}
	return messages, nil
}

type logRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newLogRepository(client *firestore.Client) *logRepository {
	return &logRepository{client: client}
}

func (r *logRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_logs"
	}
	return "logs"
}

func (r *logRepository) Add(ctx context.Context, entry *model.WorkflowLog) error {
	if entry.ID == "" {
		return goerr.New("log ID is required")
	}
	if _, err := r.client.Collection(r.collection()).Doc(string(entry.ID)).Set(ctx, entry); err != nil {
		return goerr.Wrap(err, "failed to add log entry", goerr.V("id", entry.ID))
	}
	return nil
}

func (r *logRepository) listWhere(ctx context.Context, field, value string) ([]*model.WorkflowLog, error) {
	iter := r.client.Collection(r.collection()).
		Where(field, "==", value).
		OrderBy("created_at", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var entries []*model.WorkflowLog
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate logs", goerr.V(field, value))
		}

		var entry model.WorkflowLog
		if err := docSnap.DataTo(&entry); err != nil {
			return nil, goerr.Wrap(err, "failed to decode log entry")
		}
		entries = append(entries, &entry)
	}
	return entries, nil
}

func (r *logRepository) ListByTask(ctx context.Context, taskID types.TaskID) ([]*model.WorkflowLog, error) {
	return r.listWhere(ctx, "task_id", string(taskID))
}

func (r *logRepository) ListByInstance(ctx context.Context, instanceID types.InstanceID) ([]*model.WorkflowLog, error) {
	return r.listWhere(ctx, "instance_id", string(instanceID))
}
