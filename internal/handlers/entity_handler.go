package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/adilzhn/remindly/internal/models"
	"github.com/adilzhn/remindly/internal/services"
	"github.com/adilzhn/remindly/pkg/logger"
	"github.com/adilzhn/remindly/pkg/middleware"
	"github.com/gorilla/mux"
)

// EntityHandler handles CRUD for bills, goals, habits, budgets and streak
// trackers.
type EntityHandler struct {
	Service *services.EntityService
}

// NewEntityHandler creates a new instance of EntityHandler.
func NewEntityHandler(service *services.EntityService) *EntityHandler {
	return &EntityHandler{Service: service}
}

// POST /entities
func (h *EntityHandler) CreateEntityHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var entity models.NotifiableEntity
	if err := json.NewDecoder(r.Body).Decode(&entity); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	created, err := h.Service.CreateEntity(r.Context(), claims.UserID, &entity)
	if err != nil {
		logger.Log.WithError(err).Warn("Failed to create entity")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusCreated)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(created)
}

// GET /entities?kind=bill
func (h *EntityHandler) ListEntitiesHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	kind := models.EntityKind(r.URL.Query().Get("kind"))
	entities, err := h.Service.ListEntities(r.Context(), claims.UserID, kind)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to list entities")
		http.Error(w, "Failed to list entities", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entities)
}

// PATCH /entities/{id}/status
func (h *EntityHandler) UpdateStatusHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var payload struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if err := h.Service.UpdateStatus(r.Context(), mux.Vars(r)["id"], payload.Status); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "Status updated"})
}

// DELETE /entities/{id}
func (h *EntityHandler) DeleteEntityHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.Service.DeleteEntity(r.Context(), claims.UserID, mux.Vars(r)["id"]); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "Entity deleted"})
}
