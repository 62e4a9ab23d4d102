package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

type TokenID string
type TokenSecret string

const tokenExpiry = 7 * 24 * time.Hour

// Token is a session token for an authenticated caller. The engine treats
// Sub and Role as opaque identity input supplied by the session collaborator.
type Token struct {
	ID        TokenID        `firestore:"id"`
	Secret    TokenSecret    `firestore:"secret"`
	Sub       types.UserID   `firestore:"sub"`
	Name      string         `firestore:"name"`
	Role      types.UserRole `firestore:"role"`
	CreatedAt time.Time      `firestore:"created_at"`
	ExpiresAt time.Time      `firestore:"expires_at"`
}

// NewToken issues a token for the given user
func NewToken(sub types.UserID, name string, role types.UserRole) *Token {
	now := time.Now().UTC()
	return &Token{
		ID:        TokenID(uuid.NewString()),
		Secret:    TokenSecret(uuid.NewString()),
		Sub:       sub,
		Name:      name,
		Role:      role,
		CreatedAt: now,
		ExpiresAt: now.Add(tokenExpiry),
	}
}

// NewAnonymousUser returns a token for unauthenticated access (no-auth mode)
func NewAnonymousUser() *Token {
	return NewToken("anonymous", "Anonymous", types.RoleExecutor)
}

// Validate checks the token fields
func (t *Token) Validate() error {
	if t.ID == "" {
		return goerr.New("token ID is empty")
	}
	if t.Secret == "" {
		return goerr.New("token secret is empty")
	}
	if t.Sub == "" {
		return goerr.New("token sub is empty")
	}
	return nil
}

// IsExpired reports whether the token has expired
func (t *Token) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// Validate checks the token ID
func (x TokenID) Validate() error {
	if x == "" {
		return goerr.New("token ID is empty")
	}
	return nil
}

type ctxTokenKey struct{}

// ContextWithToken embeds the token into the context
func ContextWithToken(ctx context.Context, token *Token) context.Context {
	return context.WithValue(ctx, ctxTokenKey{}, token)
}

// TokenFromContext extracts the token from the context
func TokenFromContext(ctx context.Context) (*Token, error) {
	token, ok := ctx.Value(ctxTokenKey{}).(*Token)
	if !ok || token == nil {
		return nil, goerr.New("no token in context")
	}
	return token, nil
}
