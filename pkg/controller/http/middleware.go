package http

import (
	"net/http"

	"github.com/secmon-lab/themis/pkg/domain/model/auth"
	"github.com/secmon-lab/themis/pkg/usecase"
)

// authMiddleware validates the session cookies and embeds the resulting
// token into the request context. No-auth mode skips validation and acts as
// the configured user.
func authMiddleware(authUC usecase.AuthUseCaseInterface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if authUC == nil || authUC.IsNoAuthn() {
				token, err := resolveNoAuthnToken(r, authUC)
				if err != nil {
					http.Error(w, "Authentication required", http.StatusUnauthorized)
					return
				}
				ctx := auth.ContextWithToken(r.Context(), token)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			tokenIDCookie, err := r.Cookie("token_id")
			if err != nil {
				http.Error(w, "Authentication required", http.StatusUnauthorized)
				return
			}

			tokenSecretCookie, err := r.Cookie("token_secret")
			if err != nil {
				http.Error(w, "Authentication required", http.StatusUnauthorized)
				return
			}

			token, err := authUC.ValidateToken(r.Context(),
				auth.TokenID(tokenIDCookie.Value),
				auth.TokenSecret(tokenSecretCookie.Value))
			if err != nil {
				http.Error(w, "Invalid authentication token", http.StatusUnauthorized)
				return
			}

			ctx := auth.ContextWithToken(r.Context(), token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolveNoAuthnToken(r *http.Request, authUC usecase.AuthUseCaseInterface) (*auth.Token, error) {
	if authUC == nil {
		return auth.NewAnonymousUser(), nil
	}
	return authUC.ValidateToken(r.Context(), "", "")
}
