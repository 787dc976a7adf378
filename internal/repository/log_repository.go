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

// LogRepository handles the append-only notification audit log.
type LogRepository struct {
	collection *mongo.Collection
}

// NewLogRepository creates a new instance of LogRepository.
func NewLogRepository(db *mongo.Database) *LogRepository {
	return &LogRepository{
		collection: db.Collection("notification_log"),
	}
}

// Append writes one audit entry. Entries are never updated or deleted.
func (r *LogRepository) Append(ctx context.Context, entry *models.NotificationLogEntry) error {
	if entry.SentAt.IsZero() {
		entry.SentAt = time.Now()
	}

	if _, err := r.collection.InsertOne(ctx, entry); err != nil {
		logger.Log.WithError(err).Error("Failed to append notification log entry")
		return fmt.Errorf("failed to append log entry: %v", err)
	}
	return nil
}

// RecentByOwner returns a user's newest log entries.
func (r *LogRepository) RecentByOwner(ctx context.Context, ownerID primitive.ObjectID, limit int64) ([]models.NotificationLogEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "sent_at", Value: -1}}).SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{"owner_id": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notification log: %v", err)
	}
	defer cursor.Close(ctx)

	var entries []models.NotificationLogEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode notification log: %v", err)
	}
	return entries, nil
}
