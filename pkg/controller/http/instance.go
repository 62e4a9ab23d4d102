package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/usecase"
	"github.com/secmon-lab/themis/pkg/utils/errutil"
)

func instanceIDFromRequest(r *http.Request) types.InstanceID {
	return types.InstanceID(chi.URLParam(r, "instanceID"))
}

// listInstances applies the optional filter criteria from query parameters.
// Date bounds accept RFC 3339 timestamps or plain dates; an unparsable date
// is treated as absent, matching the permissive-filter policy.
func (s *Server) listInstances(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	criteria := usecase.FilterCriteria{
		ProcessType: q.Get("processType"),
		Status:      q.Get("status"),
		EntityType:  q.Get("entityType"),
		DateFrom:    parseDateParam(q.Get("from")),
		DateTo:      parseDateParam(q.Get("to")),
	}

	instances, err := s.uc.Query.FilterInstances(r.Context(), criteria)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, instances)
}

func parseDateParam(value string) *time.Time {
	if value == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if ts, err := time.Parse(layout, value); err == nil {
			return &ts
		}
	}
	return nil
}

func (s *Server) searchInstances(w http.ResponseWriter, r *http.Request) {
	instances, err := s.uc.Query.SearchInstances(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, instances)
}

func (s *Server) getInstance(w http.ResponseWriter, r *http.Request) {
	instance, err := s.uc.Instance.Get(r.Context(), instanceIDFromRequest(r))
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, instance)
}

func (s *Server) updateInstanceStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	status, err := types.ParseInstanceStatus(req.Status)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}

	instance, err := s.uc.Instance.UpdateStatus(r.Context(), instanceIDFromRequest(r), status)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, instance)
}

func (s *Server) updateInstancePriority(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Priority string `json:"priority"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	priority, err := types.ParsePriority(req.Priority)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}

	instance, err := s.uc.Instance.UpdatePriority(r.Context(), instanceIDFromRequest(r), priority)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, instance)
}

func (s *Server) instanceTimeline(w http.ResponseWriter, r *http.Request) {
	entries, err := s.uc.Query.Timeline(r.Context(), instanceIDFromRequest(r))
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, entries)
}
