package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/adilzhn/remindly/internal/services"
	"github.com/adilzhn/remindly/pkg/logger"
	"github.com/adilzhn/remindly/pkg/middleware"
)

// ActivityHandler records daily activity and reports streak state to the UI.
type ActivityHandler struct {
	Service *services.ActivityService
}

// NewActivityHandler creates a new instance of ActivityHandler.
func NewActivityHandler(service *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{Service: service}
}

// POST /activity
func (h *ActivityHandler) RecordActivityHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var payload struct {
		Kind   string  `json:"kind"`
		DayKey string  `json:"day_key"`
		Note   string  `json:"note"`
		RefID  *string `json:"ref_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if err := h.Service.RecordActivity(r.Context(), claims.UserID, payload.Kind, payload.DayKey, payload.Note, payload.RefID); err != nil {
		logger.Log.WithError(err).Warn("Failed to record activity")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"message": "Activity recorded"})
}

// GET /activity/streak?kind=reading
func (h *ActivityHandler) GetStreakHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	kind := r.URL.Query().Get("kind")
	if kind == "" {
		kind = "reading"
	}

	streak, err := h.Service.GetStreak(r.Context(), claims.UserID, kind)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to compute streak")
		http.Error(w, "Failed to compute streak", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(streak)
}
