package services

import (
	"context"
	"fmt"

	"github.com/adilzhn/remindly/internal/models"
	"github.com/adilzhn/remindly/internal/repository"
	"github.com/adilzhn/remindly/pkg/logger"
)

// PreferencesService encapsulates reads and writes of per-user notification
// settings. The dispatch engine only ever reads these.
type PreferencesService struct {
	repo *repository.PreferencesRepository
}

// NewPreferencesService creates a new instance of PreferencesService.
func NewPreferencesService(repo *repository.PreferencesRepository) *PreferencesService {
	return &PreferencesService{repo: repo}
}

// GetPreferences returns the user's settings, creating defaults on first use.
func (s *PreferencesService) GetPreferences(ctx context.Context, userID string) (*models.UserNotificationPreferences, error) {
	objID, err := parseObjectID(userID)
	if err != nil {
		return nil, err
	}
	return s.repo.GetOrDefault(ctx, objID)
}

// UpdatePreferences validates and persists the user's settings. A malformed
// quiet-hours window fails loudly here rather than being silently ignored at
// dispatch time.
func (s *PreferencesService) UpdatePreferences(ctx context.Context, userID string, prefs *models.UserNotificationPreferences) error {
	objID, err := parseObjectID(userID)
	if err != nil {
		return err
	}

	if err := prefs.QuietHours.Validate(); err != nil {
		logger.Log.WithField("user_id", userID).WithError(err).Warn("Rejected invalid quiet hours config")
		return fmt.Errorf("invalid quiet hours: %w", err)
	}

	prefs.UserID = objID
	return s.repo.Upsert(ctx, prefs)
}
