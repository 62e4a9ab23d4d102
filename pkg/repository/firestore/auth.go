package firestore

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/model/auth"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (f *Firestore) tokenCollection() string {
	if f.collectionPrefix != "" {
		return f.collectionPrefix + "_tokens"
	}
	return "tokens"
}

func (f *Firestore) PutToken(ctx context.Context, token *auth.Token) error {
	if err := token.Validate(); err != nil {
		return goerr.Wrap(err, "invalid token")
	}

	if _, err := f.client.Collection(f.tokenCollection()).Doc(string(token.ID)).Set(ctx, token); err != nil {
		return goerr.Wrap(err, "failed to put token", goerr.V("id", token.ID))
	}
	return nil
}

func (f *Firestore) GetToken(ctx context.Context, tokenID auth.TokenID) (*auth.Token, error) {
	if err := tokenID.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid token ID")
	}

	docSnap, err := f.client.Collection(f.tokenCollection()).Doc(string(tokenID)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "token not found")
		}
		return nil, goerr.Wrap(err, "failed to get token")
	}

	var token auth.Token
	if err := docSnap.DataTo(&token); err != nil {
		return nil, goerr.Wrap(err, "failed to decode token")
	}
	return &token, nil
}

func (f *Firestore) DeleteToken(ctx context.Context, tokenID auth.TokenID) error {
	if err := tokenID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid token ID")
	}

	if _, err := f.client.Collection(f.tokenCollection()).Doc(string(tokenID)).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete token")
	}
	return nil
}
