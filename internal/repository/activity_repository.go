package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/adilzhn/remindly/internal/engine"
	"github.com/adilzhn/remindly/internal/models"
	"github.com/adilzhn/remindly/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ActivityRepository handles the append-only per-day activity log that streaks
// are computed from.
type ActivityRepository struct {
	collection *mongo.Collection
}

// NewActivityRepository creates a new instance of ActivityRepository.
func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{
		collection: db.Collection("activities"),
	}
}

// CreateActivity records a qualifying action for a day. Records are immutable;
// a second record for the same owner/kind/day is treated as a no-op so that
// check-ins are idempotent.
func (r *ActivityRepository) CreateActivity(ctx context.Context, activity *models.ActivityRecord) error {
	filter := bson.M{
		"owner_id": activity.OwnerID,
		"kind":     activity.Kind,
		"day_key":  activity.DayKey,
	}
	if activity.RefID != nil {
		filter["ref_id"] = *activity.RefID
	}

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to check existing activity: %v", err)
	}
	if count > 0 {
		return nil
	}

	activity.CreatedAt = time.Now()
	if _, err := r.collection.InsertOne(ctx, activity); err != nil {
		logger.Log.WithError(err).Error("Failed to insert activity record")
		return fmt.Errorf("failed to insert activity: %v", err)
	}
	return nil
}

// ActiveDays returns the distinct day-keys with activity of the given kind in
// [since, until], newest first.
func (r *ActivityRepository) ActiveDays(ctx context.Context, ownerID primitive.ObjectID, kind string, since, until engine.DayKey) ([]engine.DayKey, error) {
	filter := bson.M{
		"owner_id": ownerID,
		"kind":     kind,
		"day_key":  bson.M{"$gte": string(since), "$lte": string(until)},
	}

	raw, err := r.collection.Distinct(ctx, "day_key", filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch activity days: %v", err)
	}

	days := make([]engine.DayKey, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			days = append(days, engine.DayKey(s))
		}
	}
	return days, nil
}

// HasCheckIn reports whether a check-in exists for the referenced entity today.
func (r *ActivityRepository) HasCheckIn(ctx context.Context, ownerID, refID primitive.ObjectID, day engine.DayKey) (bool, error) {
	filter := bson.M{
		"owner_id": ownerID,
		"ref_id":   refID,
		"day_key":  string(day),
	}

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("failed to check check-in: %v", err)
	}
	return count > 0, nil
}
