package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/adilzhn/remindly/internal/models"
	"github.com/adilzhn/remindly/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PreferencesRepository handles per-user notification settings documents.
type PreferencesRepository struct {
	collection *mongo.Collection
}

// NewPreferencesRepository creates a new instance of PreferencesRepository.
func NewPreferencesRepository(db *mongo.Database) *PreferencesRepository {
	return &PreferencesRepository{
		collection: db.Collection("notification_preferences"),
	}
}

// GetOrDefault returns the user's preferences, creating the default document
// on first use.
func (r *PreferencesRepository) GetOrDefault(ctx context.Context, userID primitive.ObjectID) (*models.UserNotificationPreferences, error) {
	var prefs models.UserNotificationPreferences
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&prefs)
	if err == nil {
		return &prefs, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to fetch preferences: %v", err)
	}

	defaults := models.DefaultPreferences(userID)
	result, insertErr := r.collection.InsertOne(ctx, defaults)
	if insertErr != nil {
		logger.Log.WithError(insertErr).Warn("Failed to persist default preferences")
		// Fall back to in-memory defaults; a later settings write will create
		// the document.
		return defaults, nil
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		defaults.ID = id
	}

	logger.Log.WithField("user_id", userID.Hex()).Info("Created default notification preferences")
	return defaults, nil
}

// Upsert replaces the user's preferences document.
func (r *PreferencesRepository) Upsert(ctx context.Context, prefs *models.UserNotificationPreferences) error {
	prefs.UpdatedAt = time.Now()
	if prefs.CreatedAt.IsZero() {
		prefs.CreatedAt = prefs.UpdatedAt
	}

	filter := bson.M{"user_id": prefs.UserID}
	update := bson.M{"$set": bson.M{
		"categories":  prefs.Categories,
		"quiet_hours": prefs.QuietHours,
		"updated_at":  prefs.UpdatedAt,
	}, "$setOnInsert": bson.M{
		"user_id":    prefs.UserID,
		"created_at": prefs.CreatedAt,
	}}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		logger.Log.WithError(err).Error("Failed to upsert preferences")
		return fmt.Errorf("failed to upsert preferences: %v", err)
	}
	return nil
}
