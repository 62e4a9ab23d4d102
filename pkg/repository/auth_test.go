package repository_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/themis/pkg/domain/interfaces"
	"github.com/secmon-lab/themis/pkg/domain/model/auth"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/repository/memory"
)

func runTokenStoreTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Put and Get round-trip", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		token := auth.NewToken("user-1", "Jo Smith", types.RoleExecutor)
		gt.NoError(t, repo.PutToken(ctx, token)).Required()

		retrieved, err := repo.GetToken(ctx, token.ID)
		gt.NoError(t, err).Required()
		gt.V(t, retrieved.Sub).Equal(types.UserID("user-1"))
		gt.V(t, retrieved.Secret).Equal(token.Secret)
		gt.V(t, retrieved.Role).Equal(types.RoleExecutor)
	})

	t.Run("Get unknown token yields error", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.GetToken(context.Background(), "unknown")
		gt.Error(t, err)
	})

	t.Run("Delete removes the token", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		token := auth.NewToken("user-1", "Jo Smith", types.RoleOverseer)
		gt.NoError(t, repo.PutToken(ctx, token)).Required()
		gt.NoError(t, repo.DeleteToken(ctx, token.ID)).Required()

		_, err := repo.GetToken(ctx, token.ID)
		gt.Error(t, err)
	})

	t.Run("invalid token is rejected", func(t *testing.T) {
		repo := newRepo(t)
		gt.Error(t, repo.PutToken(context.Background(), &auth.Token{ID: "x"}))
	})
}

func TestTokenStore_Memory(t *testing.T) {
	runTokenStoreTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestTokenStore_Firestore(t *testing.T) {
	runTokenStoreTest(t, newFirestoreRepository)
}
