package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/model/auth"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/utils/errutil"
)

func (s *Server) listComments(w http.ResponseWriter, r *http.Request) {
	comments, err := s.uc.Chat.CommentsByTask(r.Context(), taskIDFromRequest(r))
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, comments)
}

func (s *Server) addComment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	comment, err := s.uc.Chat.AddComment(r.Context(), taskIDFromRequest(r), currentUserID(r), req.Content)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}
	respondJSON(r.Context(), w, http.StatusCreated, comment)
}

func (s *Server) listMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := s.uc.Chat.Messages(r.Context())
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, messages)
}

func (s *Server) addMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	msg, err := s.uc.Chat.AddMessage(r.Context(), currentUserID(r), req.Content)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}
	respondJSON(r.Context(), w, http.StatusCreated, msg)
}

func (s *Server) listAttachments(w http.ResponseWriter, r *http.Request) {
	appID := types.ApplicationID(chi.URLParam(r, "applicationID"))
	attachments, err := s.uc.Query.AttachmentsByApplication(r.Context(), appID)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, attachments)
}

func currentUserID(r *http.Request) types.UserID {
	if token, err := auth.TokenFromContext(r.Context()); err == nil {
		return token.Sub
	}
	return "anonymous"
}
