package memory

import (
	"context"

	"github.com/secmon-lab/themis/pkg/domain/interfaces"
	"github.com/secmon-lab/themis/pkg/domain/model"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

type Memory struct {
	process     *processRepository
	instance    *instanceRepository
	task        *taskRepository
	comment     *commentRepository
	message     *messageRepository
	log         *logRepository
	application *applicationRepository
	tokens      *tokenStore
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		process:     newProcessRepository(),
		instance:    newInstanceRepository(),
		task:        newTaskRepository(),
		comment:     newCommentRepository(),
		message:     newMessageRepository(),
		log:         newLogRepository(),
		application: newApplicationRepository(),
		tokens:      newTokenStore(),
	}
}

// NewWithSeed creates a memory repository pre-populated with the given seed
// collections. Seed entries keep their ids and timestamps as supplied.
func NewWithSeed(ctx context.Context, seed *model.SeedData) (*Memory, error) {
	m := New()
	if seed == nil {
		return m, nil
	}

	for _, p := range seed.Processes {
		if err := m.process.Put(ctx, p); err != nil {
			return nil, err
		}
	}
	for _, s := range seed.Steps {
		if err := m.process.PutStep(ctx, s); err != nil {
			return nil, err
		}
	}
	for _, inst := range seed.Instances {
		if _, err := m.instance.Create(ctx, inst); err != nil {
			return nil, err
		}
	}
	for _, t := range seed.Tasks {
		if _, err := m.task.Create(ctx, t); err != nil {
			return nil, err
		}
	}
	for _, c := range seed.Comments {
		if err := m.comment.Add(ctx, c); err != nil {
			return nil, err
		}
	}
	for _, msg := range seed.Messages {
		if err := m.message.Add(ctx, msg); err != nil {
			return nil, err
		}
	}
	for _, l := range seed.Logs {
		if err := m.log.Add(ctx, l); err != nil {
			return nil, err
		}
	}
	for _, app := range seed.Applications {
		if err := m.application.Put(ctx, app); err != nil {
			return nil, err
		}
	}
	for _, att := range seed.Attachments {
		if err := m.application.PutAttachment(ctx, att); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *Memory) Process() interfaces.ProcessRepository {
	return m.process
}

func (m *Memory) Instance() interfaces.InstanceRepository {
	return m.instance
}

func (m *Memory) Task() interfaces.TaskRepository {
	return m.task
}

func (m *Memory) Comment() interfaces.CommentRepository {
	return m.comment
}

func (m *Memory) Message() interfaces.MessageRepository {
	return m.message
}

func (m *Memory) Log() interfaces.LogRepository {
	return m.log
}

func (m *Memory) Application() interfaces.ApplicationRepository {
	return m.application
}

func (m *Memory) Close() error {
	return nil
}
