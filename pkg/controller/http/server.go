package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/secmon-lab/themis/pkg/usecase"
	"github.com/secmon-lab/themis/pkg/utils/errutil"
	"github.com/secmon-lab/themis/pkg/utils/logging"
)

type Server struct {
	router *chi.Mux
	uc     *usecase.UseCases
}

func New(uc *usecase.UseCases) *Server {
	r := chi.NewRouter()
	s := &Server{
		router: r,
		uc:     uc,
	}

	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authLoginHandler(uc.Auth))
			r.Post("/logout", authLogoutHandler(uc.Auth))
			r.With(authMiddleware(uc.Auth)).Get("/me", authMeHandler())
		})

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware(uc.Auth))

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", s.listTasks)
				r.Get("/kanban", s.kanbanBoard)
				r.Get("/completed", s.completedTasks)
				r.Route("/{taskID}", func(r chi.Router) {
					r.Get("/", s.getTask)
					r.Post("/status", s.updateTaskStatus)
					r.Post("/user-status", s.updateTaskUserStatus)
					r.Post("/action", s.updateTaskAction)
					r.Post("/open", s.openTask)
					r.Post("/close", s.closeTaskView)
					r.Post("/complete", s.completeTask)
					r.Get("/notifications", s.taskNotifications)
					r.Get("/comments", s.listComments)
					r.Post("/comments", s.addComment)
					r.Get("/application", s.taskApplication)
				})
			})

			r.Route("/instances", func(r chi.Router) {
				r.Get("/", s.listInstances)
				r.Get("/search", s.searchInstances)
				r.Route("/{instanceID}", func(r chi.Router) {
					r.Get("/", s.getInstance)
					r.Post("/status", s.updateInstanceStatus)
					r.Post("/priority", s.updateInstancePriority)
					r.Get("/timeline", s.instanceTimeline)
				})
			})

			r.Route("/messages", func(r chi.Router) {
				r.Get("/", s.listMessages)
				r.Post("/", s.addMessage)
			})

			r.Route("/applications", func(r chi.Router) {
				r.Get("/{applicationID}/attachments", s.listAttachments)
			})
		})
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.From(ctx).Error("failed to encode response", "error", err)
	}
}

// respondError maps missing-entity errors to 404 and everything else to 500.
// Missing ids are an expected outcome, never a server fault.
func respondError(ctx context.Context, w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, usecase.ErrTaskNotFound),
		errors.Is(err, usecase.ErrInstanceNotFound),
		errors.Is(err, usecase.ErrProcessNotFound),
		errors.Is(err, usecase.ErrApplicationNotFound):
		status = http.StatusNotFound
	}
	errutil.HandleHTTP(ctx, w, err, status)
}
