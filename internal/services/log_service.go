package services

import (
	"context"

	"github.com/adilzhn/remindly/internal/models"
	"github.com/adilzhn/remindly/internal/repository"
)

// LogService exposes the notification audit log to the API. Writes happen only
// inside dispatch reconciliation.
type LogService struct {
	repo *repository.LogRepository
}

// NewLogService creates a new instance of LogService.
func NewLogService(repo *repository.LogRepository) *LogService {
	return &LogService{repo: repo}
}

// RecentForUser returns the user's newest notification log entries.
func (s *LogService) RecentForUser(ctx context.Context, userID string, limit int64) ([]models.NotificationLogEntry, error) {
	objID, err := parseObjectID(userID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.RecentByOwner(ctx, objID, limit)
}
