package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/adilzhn/remindly/internal/models"
	"github.com/adilzhn/remindly/internal/services"
	"github.com/adilzhn/remindly/pkg/logger"
	"github.com/adilzhn/remindly/pkg/middleware"
)

// PreferencesHandler exposes the user's notification settings.
type PreferencesHandler struct {
	Service *services.PreferencesService
}

// NewPreferencesHandler creates a new instance of PreferencesHandler.
func NewPreferencesHandler(service *services.PreferencesService) *PreferencesHandler {
	return &PreferencesHandler{Service: service}
}

// GET /preferences
func (h *PreferencesHandler) GetPreferencesHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	prefs, err := h.Service.GetPreferences(r.Context(), claims.UserID)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to fetch preferences")
		http.Error(w, "Failed to get preferences", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(prefs)
}

// PUT /preferences
func (h *PreferencesHandler) UpdatePreferencesHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var prefs models.UserNotificationPreferences
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if err := h.Service.UpdatePreferences(r.Context(), claims.UserID, &prefs); err != nil {
		logger.Log.WithError(err).Warn("Failed to update preferences")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "Preferences updated"})
}
