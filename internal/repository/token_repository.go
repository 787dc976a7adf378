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

// TokenRepository handles device push tokens.
type TokenRepository struct {
	collection *mongo.Collection
}

// NewTokenRepository creates a new instance of TokenRepository.
func NewTokenRepository(db *mongo.Database) *TokenRepository {
	return &TokenRepository{
		collection: db.Collection("device_tokens"),
	}
}

// RegisterToken upserts a device token for a user. Re-registering an existing
// token refreshes last_seen_at and reactivates it.
func (r *TokenRepository) RegisterToken(ctx context.Context, ownerID primitive.ObjectID, token, platform string) error {
	now := time.Now()
	filter := bson.M{"token": token}
	update := bson.M{"$set": bson.M{
		"owner_id":     ownerID,
		"token":        token,
		"platform":     platform,
		"status":       models.TokenActive,
		"last_seen_at": now,
	}, "$setOnInsert": bson.M{
		"created_at": now,
	}}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		logger.Log.WithError(err).Error("Failed to register device token")
		return fmt.Errorf("failed to register device token: %v", err)
	}
	return nil
}

// RemoveToken deletes a token owned by the given user.
func (r *TokenRepository) RemoveToken(ctx context.Context, ownerID primitive.ObjectID, token string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"owner_id": ownerID, "token": token})
	if err != nil {
		return fmt.Errorf("failed to remove device token: %v", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("device token not found")
	}
	return nil
}

// ActiveTokens returns the user's active device tokens.
func (r *TokenRepository) ActiveTokens(ctx context.Context, ownerID primitive.ObjectID) ([]models.DeviceToken, error) {
	filter := bson.M{"owner_id": ownerID, "status": models.TokenActive}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch device tokens: %v", err)
	}
	defer cursor.Close(ctx)

	var tokens []models.DeviceToken
	if err := cursor.All(ctx, &tokens); err != nil {
		return nil, fmt.Errorf("failed to decode device tokens: %v", err)
	}
	return tokens, nil
}

// MarkInvalid flips a token to invalid after the push transport reported it as
// permanently unregistered. Only the dispatch reconciliation path calls this.
func (r *TokenRepository) MarkInvalid(ctx context.Context, token string) error {
	update := bson.M{"$set": bson.M{"status": models.TokenInvalid}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"token": token}, update)
	if err != nil {
		return fmt.Errorf("failed to invalidate device token: %v", err)
	}
	return nil
}
