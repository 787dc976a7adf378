package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/adilzhn/remindly/internal/models"
	"github.com/adilzhn/remindly/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EntityRepository handles database operations for notifiable entities
// (bills, goals, habits, budget categories, streak trackers).
type EntityRepository struct {
	collection *mongo.Collection
}

// NewEntityRepository creates a new instance of EntityRepository.
func NewEntityRepository(db *mongo.Database) *EntityRepository {
	return &EntityRepository{
		collection: db.Collection("entities"),
	}
}

// CreateEntity inserts a new entity.
func (r *EntityRepository) CreateEntity(ctx context.Context, entity *models.NotifiableEntity) (*models.NotifiableEntity, error) {
	entity.CreatedAt = time.Now()
	entity.UpdatedAt = entity.CreatedAt
	if entity.Status == "" {
		entity.Status = models.StatusActive
	}

	result, err := r.collection.InsertOne(ctx, entity)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to insert entity")
		return nil, fmt.Errorf("failed to insert entity: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	entity.ID = insertedID
	return entity, nil
}

// GetEntitiesByOwner returns all of a user's entities, optionally filtered by kind.
func (r *EntityRepository) GetEntitiesByOwner(ctx context.Context, ownerID primitive.ObjectID, kind models.EntityKind) ([]models.NotifiableEntity, error) {
	filter := bson.M{"owner_id": ownerID}
	if kind != "" {
		filter["kind"] = kind
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch entities: %v", err)
	}
	defer cursor.Close(ctx)

	var entities []models.NotifiableEntity
	if err := cursor.All(ctx, &entities); err != nil {
		return nil, fmt.Errorf("failed to decode entities: %v", err)
	}
	return entities, nil
}

// ActiveByKind returns every active entity of the given kind across all users.
func (r *EntityRepository) ActiveByKind(ctx context.Context, kind models.EntityKind) ([]models.NotifiableEntity, error) {
	filter := bson.M{"kind": kind, "status": models.StatusActive}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s entities: %v", kind, err)
	}
	defer cursor.Close(ctx)

	var entities []models.NotifiableEntity
	if err := cursor.All(ctx, &entities); err != nil {
		return nil, fmt.Errorf("failed to decode %s entities: %v", kind, err)
	}
	return entities, nil
}

// ActiveDueBetween returns active entities of a kind whose due date falls in
// [from, to). This is the range form of the calendar-day milestone match.
func (r *EntityRepository) ActiveDueBetween(ctx context.Context, kind models.EntityKind, from, to time.Time) ([]models.NotifiableEntity, error) {
	filter := bson.M{
		"kind":   kind,
		"status": models.StatusActive,
		"due_at": bson.M{"$gte": from, "$lt": to},
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "due_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch due %s entities: %v", kind, err)
	}
	defer cursor.Close(ctx)

	var entities []models.NotifiableEntity
	if err := cursor.All(ctx, &entities); err != nil {
		return nil, fmt.Errorf("failed to decode due %s entities: %v", kind, err)
	}
	return entities, nil
}

// SetNotificationFlag marks a milestone as sent. When the entity has moved to
// a new occurrence (new deadline day, new month), the stale flag map is
// replaced instead of extended, so flags never leak across occurrences.
// Last-write-wins; this job is the only writer of the field.
func (r *EntityRepository) SetNotificationFlag(ctx context.Context, entityID primitive.ObjectID, occurrenceKey, flagKey string) error {
	var entity models.NotifiableEntity
	if err := r.collection.FindOne(ctx, bson.M{"_id": entityID}).Decode(&entity); err != nil {
		return fmt.Errorf("failed to load entity for flag update: %v", err)
	}

	var update bson.M
	if occurrenceKey != "" && entity.OccurrenceKey != occurrenceKey {
		update = bson.M{"$set": bson.M{
			"occurrence_key":     occurrenceKey,
			"notification_flags": bson.M{flagKey: true},
			"updated_at":         time.Now(),
		}}
	} else {
		update = bson.M{"$set": bson.M{
			"notification_flags." + flagKey: true,
			"updated_at":                    time.Now(),
		}}
	}

	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": entityID}, update); err != nil {
		logger.Log.WithError(err).WithField("entity_id", entityID.Hex()).Error("Failed to set notification flag")
		return fmt.Errorf("failed to set notification flag: %v", err)
	}
	return nil
}

// UpdateEntityStatus moves an entity between active/completed/archived.
func (r *EntityRepository) UpdateEntityStatus(ctx context.Context, entityID primitive.ObjectID, status string) error {
	update := bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": entityID}, update)
	if err != nil {
		return fmt.Errorf("failed to update entity status: %v", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("entity not found")
	}
	return nil
}

// DeleteEntity removes an entity owned by the given user.
func (r *EntityRepository) DeleteEntity(ctx context.Context, entityID, ownerID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": entityID, "owner_id": ownerID})
	if err != nil {
		return fmt.Errorf("failed to delete entity: %v", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("entity not found")
	}
	return nil
}
