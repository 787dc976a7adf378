package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/adilzhn/remindly/internal/services"
	"github.com/adilzhn/remindly/pkg/logger"
	"github.com/adilzhn/remindly/pkg/middleware"
)

// LogHandler exposes the user's notification history.
type LogHandler struct {
	Service *services.LogService
}

// NewLogHandler creates a new instance of LogHandler.
func NewLogHandler(service *services.LogService) *LogHandler {
	return &LogHandler{Service: service}
}

// GET /notifications/log?limit=20
func (h *LogHandler) RecentLogHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)
	entries, err := h.Service.RecentForUser(r.Context(), claims.UserID, limit)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to fetch notification log")
		http.Error(w, "Failed to get notification log", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}
