package http

import (
	"encoding/json"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/model/auth"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/usecase"
	"github.com/secmon-lab/themis/pkg/utils/errutil"
)

type loginRequest struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

type userMeResponse struct {
	Sub  string `json:"sub"`
	Name string `json:"name"`
	Role string `json:"role"`
}

type successResponse struct {
	Success bool `json:"success"`
}

func setTokenCookies(w http.ResponseWriter, r *http.Request, token *auth.Token) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token_id",
		Value:    string(token.ID),
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		Expires:  token.ExpiresAt,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     "token_secret",
		Value:    string(token.Secret),
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		Expires:  token.ExpiresAt,
	})
}

func clearTokenCookies(w http.ResponseWriter, r *http.Request) {
	for _, name := range []string{"token_id", "token_secret"} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			Secure:   r.TLS != nil,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   -1,
		})
	}
}

// authLoginHandler issues a session for the supplied user identity. The
// engine treats identity as opaque input from the session collaborator, so
// there is no credential check beyond role validation.
func authLoginHandler(authUC usecase.AuthUseCaseInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid login request"), http.StatusBadRequest)
			return
		}

		role := types.UserRole(req.Role)
		if req.Role == "" {
			role = types.RoleExecutor
		}

		token, err := authUC.Login(r.Context(), types.UserID(req.UserID), req.Name, role)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
			return
		}

		setTokenCookies(w, r, token)
		respondJSON(r.Context(), w, http.StatusOK, userMeResponse{
			Sub:  string(token.Sub),
			Name: token.Name,
			Role: string(token.Role),
		})
	}
}

func authLogoutHandler(authUC usecase.AuthUseCaseInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie("token_id"); err == nil {
			if err := authUC.Logout(r.Context(), auth.TokenID(cookie.Value)); err != nil {
				errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
				return
			}
		}

		clearTokenCookies(w, r)
		respondJSON(r.Context(), w, http.StatusOK, successResponse{Success: true})
	}
}

func authMeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := auth.TokenFromContext(r.Context())
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusUnauthorized)
			return
		}

		respondJSON(r.Context(), w, http.StatusOK, userMeResponse{
			Sub:  string(token.Sub),
			Name: token.Name,
			Role: string(token.Role),
		})
	}
}
