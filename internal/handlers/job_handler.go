package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/adilzhn/remindly/internal/config"
	"github.com/adilzhn/remindly/internal/jobs"
	"github.com/adilzhn/remindly/internal/services"
	"github.com/adilzhn/remindly/pkg/logger"
	"github.com/gorilla/mux"
)

// SchedulerIDHeader carries the scheduler identity marker accepted as an
// alternative to the shared-secret bearer credential.
const SchedulerIDHeader = "X-Scheduler-Id"

// JobHandler exposes the reminder jobs to the external cron trigger.
type JobHandler struct {
	Dispatch *services.DispatchService
	Deps     jobs.Deps
	Config   *config.Config
}

// NewJobHandler creates a new instance of JobHandler.
func NewJobHandler(dispatch *services.DispatchService, deps jobs.Deps, cfg *config.Config) *JobHandler {
	return &JobHandler{Dispatch: dispatch, Deps: deps, Config: cfg}
}

// authorize accepts either the scheduler identity header or the shared-secret
// bearer token. Unauthorized calls perform no work at all.
func (h *JobHandler) authorize(r *http.Request) error {
	if id := r.Header.Get(SchedulerIDHeader); id != "" && id == h.Config.SchedulerID {
		return nil
	}

	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") && h.Config.CronSecret != "" &&
		strings.TrimPrefix(header, "Bearer ") == h.Config.CronSecret {
		return nil
	}
	return &services.AuthorizationError{Reason: "missing scheduler identity or cron secret"}
}

// POST /jobs/{name}/run
func (h *JobHandler) RunJobHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.authorize(r); err != nil {
		logger.Log.WithField("remote", r.RemoteAddr).Warn("Rejected unauthorized job trigger")
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	name := mux.Vars(r)["name"]
	spec, ok := jobs.ByName(h.Deps, name)
	if !ok {
		http.Error(w, "Unknown job", http.StatusNotFound)
		return
	}

	summary := h.Dispatch.Run(r.Context(), spec)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}
