package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/adilzhn/remindly/internal/services"
	"github.com/adilzhn/remindly/pkg/logger"
	"github.com/adilzhn/remindly/pkg/middleware"
	"github.com/gorilla/mux"
)

// DeviceHandler manages push device registrations.
type DeviceHandler struct {
	Service *services.DeviceService
}

// NewDeviceHandler creates a new instance of DeviceHandler.
func NewDeviceHandler(service *services.DeviceService) *DeviceHandler {
	return &DeviceHandler{Service: service}
}

// POST /devices
func (h *DeviceHandler) RegisterDeviceHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var payload struct {
		Token    string `json:"token"`
		Platform string `json:"platform"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if err := h.Service.RegisterDevice(r.Context(), claims.UserID, payload.Token, payload.Platform); err != nil {
		logger.Log.WithError(err).Error("Failed to register device")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"message": "Device registered"})
}

// DELETE /devices/{token}
func (h *DeviceHandler) RemoveDeviceHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	token := mux.Vars(r)["token"]
	if err := h.Service.RemoveDevice(r.Context(), claims.UserID, token); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "Device removed"})
}
