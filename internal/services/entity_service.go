package services

import (
	"context"
	"fmt"

	"github.com/adilzhn/remindly/internal/models"
	"github.com/adilzhn/remindly/internal/repository"
	"github.com/adilzhn/remindly/pkg/logger"
)

// EntityService encapsulates CRUD for the notifiable entities the PWA manages
// (bills, goals, habits, budget categories, streak trackers).
type EntityService struct {
	repo *repository.EntityRepository
}

// NewEntityService creates a new instance of EntityService.
func NewEntityService(repo *repository.EntityRepository) *EntityService {
	return &EntityService{repo: repo}
}

// CreateEntity validates and stores a new entity for the user.
func (s *EntityService) CreateEntity(ctx context.Context, userID string, entity *models.NotifiableEntity) (*models.NotifiableEntity, error) {
	objID, err := parseObjectID(userID)
	if err != nil {
		return nil, err
	}

	if entity.Name == "" {
		return nil, fmt.Errorf("entity name is required")
	}
	switch entity.Kind {
	case models.KindBill, models.KindGoal, models.KindHabit, models.KindBudget, models.KindStreak:
	default:
		return nil, fmt.Errorf("unknown entity kind %q", entity.Kind)
	}
	if (entity.Kind == models.KindBill || entity.Kind == models.KindGoal) && entity.DueAt == nil {
		return nil, fmt.Errorf("%s requires a due date", entity.Kind)
	}

	entity.OwnerID = objID
	entity.NotificationFlags = nil
	entity.OccurrenceKey = ""

	created, err := s.repo.CreateEntity(ctx, entity)
	if err != nil {
		logger.Log.WithError(err).Error("Service failed to create entity")
		return nil, err
	}
	logger.Log.WithField("entity_id", created.ID.Hex()).WithField("kind", string(created.Kind)).Info("Entity created")
	return created, nil
}

// ListEntities returns the user's entities, optionally filtered by kind.
func (s *EntityService) ListEntities(ctx context.Context, userID string, kind models.EntityKind) ([]models.NotifiableEntity, error) {
	objID, err := parseObjectID(userID)
	if err != nil {
		return nil, err
	}
	return s.repo.GetEntitiesByOwner(ctx, objID, kind)
}

// UpdateStatus moves an entity between active/completed/archived.
func (s *EntityService) UpdateStatus(ctx context.Context, entityID, status string) error {
	objID, err := parseObjectID(entityID)
	if err != nil {
		return err
	}

	switch status {
	case models.StatusActive, models.StatusCompleted, models.StatusArchived:
	default:
		return fmt.Errorf("unknown status %q", status)
	}
	return s.repo.UpdateEntityStatus(ctx, objID, status)
}

// DeleteEntity removes an entity owned by the user.
func (s *EntityService) DeleteEntity(ctx context.Context, userID, entityID string) error {
	ownerID, err := parseObjectID(userID)
	if err != nil {
		return err
	}
	objID, err := parseObjectID(entityID)
	if err != nil {
		return err
	}
	return s.repo.DeleteEntity(ctx, objID, ownerID)
}
