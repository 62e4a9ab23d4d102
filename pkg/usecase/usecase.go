package usecase

import (
	"time"

	"github.com/secmon-lab/themis/pkg/domain/interfaces"
)

type UseCases struct {
	repo interfaces.Repository
	now  func() time.Time

	Task         *TaskUseCase
	Instance     *InstanceUseCase
	Query        *QueryUseCase
	Chat         *ChatUseCase
	Notification *NotificationUseCase
	Auth         AuthUseCaseInterface
}

type Option func(*UseCases)

// WithClock overrides the time source, used by tests for deterministic
// deadline assessment.
func WithClock(now func() time.Time) Option {
	return func(uc *UseCases) {
		uc.now = now
	}
}

func WithAuth(auth AuthUseCaseInterface) Option {
	return func(uc *UseCases) {
		uc.Auth = auth
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo: repo,
		now:  time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Task = NewTaskUseCase(repo, uc.now)
	uc.Instance = NewInstanceUseCase(repo)
	uc.Query = NewQueryUseCase(repo, uc.now)
	uc.Chat = NewChatUseCase(repo, uc.now)
	uc.Notification = NewNotificationUseCase(repo)
	if uc.Auth == nil {
		uc.Auth = NewSessionAuthUseCase(repo)
	}

	return uc
}
