package interfaces

import (
	"context"

	"github.com/secmon-lab/themis/pkg/domain/model/auth"
)

// Repository defines the interface for data persistence
type Repository interface {
	Process() ProcessRepository
	Instance() InstanceRepository
	Task() TaskRepository
	Comment() CommentRepository
	Message() MessageRepository
	Log() LogRepository
	Application() ApplicationRepository

	// Auth methods
	PutToken(ctx context.Context, token *auth.Token) error
	GetToken(ctx context.Context, tokenID auth.TokenID) (*auth.Token, error)
	DeleteToken(ctx context.Context, tokenID auth.TokenID) error

	Close() error
}
