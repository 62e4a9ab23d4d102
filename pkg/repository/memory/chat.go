package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

type commentRepository struct {
	mu       sync.RWMutex
	comments []*model.Comment
}

func newCommentRepository() *commentRepository {
	return &commentRepository{}
}

func copyComment(c *model.Comment) *model.Comment {
	copied := *c
	return &copied
}

func (r *commentRepository) Add(ctx context.Context, comment *model.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if comment.ID == "" {
		return goerr.New("comment ID is required")
	}
	r.comments = append(r.comments, copyComment(comment))
	return nil
}

func (r *commentRepository) ListByTask(ctx context.Context, taskID types.TaskID) ([]*model.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	comments := make([]*model.Comment, 0)
	for _, c := range r.comments {
		if c.TaskID == taskID {
			comments = append(comments, copyComment(c))
		}
	}
	return comments, nil
}

func (r *commentRepository) CountByTaskSince(ctx context.Context, taskID types.TaskID, since time.Time) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, c := range r.comments {
		if c.TaskID == taskID && c.CreatedAt.After(since) {
			count++
		}
	}
	return count, nil
}

type messageRepository struct {
	mu       sync.RWMutex
	messages []*model.Message
}

func newMessageRepository() *messageRepository {
	return &messageRepository{}
}

func copyMessage(m *model.Message) *model.Message {
	copied := *m
	copied.Refs.TaskIDs = make([]string, len(m.Refs.TaskIDs))
	copy(copied.Refs.TaskIDs, m.Refs.TaskIDs)
	copied.Refs.InstanceIDs = make([]string, len(m.Refs.InstanceIDs))
	copy(copied.Refs.InstanceIDs, m.Refs.InstanceIDs)
	return &copied
}

func (r *messageRepository) Add(ctx context.Context, msg *model.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if msg.ID == "" {
		return goerr.New("message ID is required")
	}
	r.messages = append(r.messages, copyMessage(msg))
	return nil
}

func (r *messageRepository) List(ctx context.Context) ([]*model.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	messages := make([]*model.Message, 0, len(r.messages))
	for _, m := range r.messages {
		messages = append(messages, copyMessage(m))
	}
	return messages, nil
}

type logRepository struct {
	mu      sync.RWMutex
	entries []*model.WorkflowLog
}

func newLogRepository() *logRepository {
	return &logRepository{}
}

func copyLog(l *model.WorkflowLog) *model.WorkflowLog {
	copied := *l
	return &copied
}

func (r *logRepository) Add(ctx context.Context, entry *model.WorkflowLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry.ID == "" {
		return goerr.New("log ID is required")
	}
	r.entries = append(r.entries, copyLog(entry))
	return nil
}

func (r *logRepository) ListByTask(ctx context.Context, taskID types.TaskID) ([]*model.WorkflowLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]*model.WorkflowLog, 0)
	for _, l := range r.entries {
		if l.TaskID == taskID {
			entries = append(entries, copyLog(l))
		}
	}
	return entries, nil
}

func (r *logRepository) ListByInstance(ctx context.Context, instanceID types.InstanceID) ([]*model.WorkflowLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]*model.WorkflowLog, 0)
	for _, l := range r.entries {
		if l.InstanceID == instanceID {
			entries = append(entries, copyLog(l))
		}
	}
	return entries, nil
}
