package services

import (
	"context"
	"fmt"

	"github.com/adilzhn/remindly/internal/repository"
	"github.com/adilzhn/remindly/pkg/logger"
)

// DeviceService manages a user's registered push devices.
type DeviceService struct {
	repo *repository.TokenRepository
}

// NewDeviceService creates a new instance of DeviceService.
func NewDeviceService(repo *repository.TokenRepository) *DeviceService {
	return &DeviceService{repo: repo}
}

// RegisterDevice stores (or refreshes) a push token for the user.
func (s *DeviceService) RegisterDevice(ctx context.Context, userID, token, platform string) error {
	objID, err := parseObjectID(userID)
	if err != nil {
		return err
	}
	if token == "" {
		return fmt.Errorf("device token is required")
	}

	if err := s.repo.RegisterToken(ctx, objID, token, platform); err != nil {
		return err
	}
	logger.Log.WithField("user_id", userID).Info("Device token registered")
	return nil
}

// RemoveDevice deletes one of the user's push tokens.
func (s *DeviceService) RemoveDevice(ctx context.Context, userID, token string) error {
	objID, err := parseObjectID(userID)
	if err != nil {
		return err
	}
	return s.repo.RemoveToken(ctx, objID, token)
}
