package usecase

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/interfaces"
	"github.com/secmon-lab/themis/pkg/domain/model/auth"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

// AuthUseCaseInterface is the session contract consumed by the HTTP layer.
// The engine treats identity as opaque input; this layer only manages
// session tokens.
type AuthUseCaseInterface interface {
	Login(ctx context.Context, sub types.UserID, name string, role types.UserRole) (*auth.Token, error)
	ValidateToken(ctx context.Context, tokenID auth.TokenID, secret auth.TokenSecret) (*auth.Token, error)
	Logout(ctx context.Context, tokenID auth.TokenID) error
	IsNoAuthn() bool
}

// SessionAuthUseCase issues and validates repository-backed session tokens.
type SessionAuthUseCase struct {
	repo interfaces.Repository
	now  func() time.Time
}

var _ AuthUseCaseInterface = &SessionAuthUseCase{}

func NewSessionAuthUseCase(repo interfaces.Repository) *SessionAuthUseCase {
	return &SessionAuthUseCase{repo: repo, now: time.Now}
}

func (uc *SessionAuthUseCase) Login(ctx context.Context, sub types.UserID, name string, role types.UserRole) (*auth.Token, error) {
	if sub == "" {
		return nil, goerr.New("user id is required")
	}
	if !role.IsValid() {
		return nil, goerr.New("invalid role", goerr.V("role", role))
	}

	token := auth.NewToken(sub, name, role)
	if err := uc.repo.PutToken(ctx, token); err != nil {
		return nil, goerr.Wrap(err, "failed to store token")
	}
	return token, nil
}

func (uc *SessionAuthUseCase) ValidateToken(ctx context.Context, tokenID auth.TokenID, secret auth.TokenSecret) (*auth.Token, error) {
	token, err := uc.repo.GetToken(ctx, tokenID)
	if err != nil {
		return nil, goerr.Wrap(ErrInvalidToken, "token not found")
	}

	if subtle.ConstantTimeCompare([]byte(token.Secret), []byte(secret)) != 1 {
		return nil, goerr.Wrap(ErrInvalidToken, "token secret mismatch")
	}

	if token.IsExpired(uc.now()) {
		if err := uc.repo.DeleteToken(ctx, tokenID); err != nil {
			return nil, goerr.Wrap(err, "failed to delete expired token")
		}
		return nil, goerr.Wrap(ErrTokenExpired, "token expired")
	}

	return token, nil
}

func (uc *SessionAuthUseCase) Logout(ctx context.Context, tokenID auth.TokenID) error {
	if err := uc.repo.DeleteToken(ctx, tokenID); err != nil {
		return goerr.Wrap(err, "failed to delete token")
	}
	return nil
}

func (uc *SessionAuthUseCase) IsNoAuthn() bool {
	return false
}
