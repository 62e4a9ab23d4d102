package usecase

import (
	"context"

	"github.com/secmon-lab/themis/pkg/domain/model/auth"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

// NoAuthnUseCase skips authentication and acts as a fixed user. For
// development and testing only.
type NoAuthnUseCase struct {
	sub  types.UserID
	name string
	role types.UserRole
}

var _ AuthUseCaseInterface = &NoAuthnUseCase{}

func NewNoAuthnUseCase(sub types.UserID, name string, role types.UserRole) *NoAuthnUseCase {
	if sub == "" {
		anon := auth.NewAnonymousUser()
		return &NoAuthnUseCase{sub: anon.Sub, name: anon.Name, role: anon.Role}
	}
	return &NoAuthnUseCase{sub: sub, name: name, role: role}
}

func (uc *NoAuthnUseCase) Login(ctx context.Context, sub types.UserID, name string, role types.UserRole) (*auth.Token, error) {
	return auth.NewToken(uc.sub, uc.name, uc.role), nil
}

// ValidateToken always succeeds with the configured user.
func (uc *NoAuthnUseCase) ValidateToken(ctx context.Context, tokenID auth.TokenID, secret auth.TokenSecret) (*auth.Token, error) {
	return auth.NewToken(uc.sub, uc.name, uc.role), nil
}

func (uc *NoAuthnUseCase) Logout(ctx context.Context, tokenID auth.TokenID) error {
	return nil
}

func (uc *NoAuthnUseCase) IsNoAuthn() bool {
	return true
}
