package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/service/deadline"
	"github.com/secmon-lab/themis/pkg/utils/errutil"
)

func taskIDFromRequest(r *http.Request) types.TaskID {
	return types.TaskID(chi.URLParam(r, "taskID"))
}

// listTasks returns deadline-assessed task views ordered by priority.
// ?assignee= narrows to one user's tasks.
func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	views, err := s.taskViewsForRequest(r)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	respondJSON(r.Context(), w, http.StatusOK, s.uc.Query.SortTasksByPriority(views))
}

func (s *Server) taskViewsForRequest(r *http.Request) ([]deadline.TaskView, error) {
	if assignee := r.URL.Query().Get("assignee"); assignee != "" {
		return s.uc.Query.TaskViewsByAssignee(r.Context(), types.UserID(assignee))
	}
	return s.uc.Query.TaskViews(r.Context())
}

func (s *Server) kanbanBoard(w http.ResponseWriter, r *http.Request) {
	views, err := s.taskViewsForRequest(r)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	respondJSON(r.Context(), w, http.StatusOK, s.uc.Query.Kanban(views))
}

func (s *Server) completedTasks(w http.ResponseWriter, r *http.Request) {
	views, err := s.taskViewsForRequest(r)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	respondJSON(r.Context(), w, http.StatusOK, s.uc.Query.CompletedTasks(views))
}

func (s *Server) getTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.uc.Task.Get(r.Context(), taskIDFromRequest(r))
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, task)
}

func (s *Server) updateTaskStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	status, err := types.ParseTaskStatus(req.Status)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}

	task, err := s.uc.Task.UpdateStatus(r.Context(), taskIDFromRequest(r), status)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, task)
}

func (s *Server) updateTaskUserStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserStatus string `json:"userStatus"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	userStatus, err := types.ParseUserStatus(req.UserStatus)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}

	task, err := s.uc.Task.UpdateUserStatus(r.Context(), taskIDFromRequest(r), userStatus)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, task)
}

func (s *Server) updateTaskAction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Action string `json:"action"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	task, err := s.uc.Task.UpdateAction(r.Context(), taskIDFromRequest(r), req.Action)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, task)
}

func (s *Server) openTask(w http.ResponseWriter, r *http.Request) {
	detail, err := s.uc.Task.OpenTask(r.Context(), taskIDFromRequest(r))
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, detail)
}

func (s *Server) closeTaskView(w http.ResponseWriter, r *http.Request) {
	task, err := s.uc.Task.CloseTaskView(r.Context(), taskIDFromRequest(r))
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, task)
}

func (s *Server) completeTask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Action string `json:"action"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	task, err := s.uc.Task.CompleteTask(r.Context(), taskIDFromRequest(r), req.Action)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, task)
}

func (s *Server) taskNotifications(w http.ResponseWriter, r *http.Request) {
	count, err := s.uc.Notification.Count(r.Context(), taskIDFromRequest(r))
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, map[string]int{"notifications": count})
}

func (s *Server) taskApplication(w http.ResponseWriter, r *http.Request) {
	app, err := s.uc.Query.ApplicationForTask(r.Context(), taskIDFromRequest(r))
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, app)
}
