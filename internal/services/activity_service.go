package services

import (
	"context"
	"fmt"
	"time"

	"github.com/adilzhn/remindly/internal/engine"
	"github.com/adilzhn/remindly/internal/models"
	"github.com/adilzhn/remindly/internal/repository"
	"github.com/adilzhn/remindly/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActivityService records per-day activity and derives streak state for the UI.
type ActivityService struct {
	repo *repository.ActivityRepository
	loc  *time.Location
}

// NewActivityService creates a new instance of ActivityService.
func NewActivityService(repo *repository.ActivityRepository, loc *time.Location) *ActivityService {
	return &ActivityService{repo: repo, loc: loc}
}

// RecordActivity appends one activity record for today (or the supplied day).
// Re-recording the same day is a no-op.
func (s *ActivityService) RecordActivity(ctx context.Context, userID, kind, dayKey, note string, refID *string) error {
	objID, err := parseObjectID(userID)
	if err != nil {
		return err
	}

	switch kind {
	case models.ActivityReading, models.ActivityJournal, models.ActivityHabit:
	default:
		return fmt.Errorf("unknown activity kind %q", kind)
	}

	day := engine.DayKeyOf(time.Now(), s.loc)
	if dayKey != "" {
		day, err = engine.ParseDayKey(dayKey)
		if err != nil {
			return err
		}
	}

	record := &models.ActivityRecord{
		OwnerID: objID,
		Kind:    kind,
		DayKey:  string(day),
		Note:    note,
	}
	if refID != nil {
		ref, err := parseObjectID(*refID)
		if err != nil {
			return err
		}
		record.RefID = &ref
	}

	if err := s.repo.CreateActivity(ctx, record); err != nil {
		return err
	}
	logger.Log.WithField("user_id", userID).WithField("kind", kind).Info("Activity recorded")
	return nil
}

// GetStreak computes the user's current streak state for an activity kind over
// the standard lookback window.
func (s *ActivityService) GetStreak(ctx context.Context, userID, kind string) (*engine.StreakResult, error) {
	objID, err := parseObjectID(userID)
	if err != nil {
		return nil, err
	}
	return s.streakFor(ctx, objID, kind)
}

func (s *ActivityService) streakFor(ctx context.Context, ownerID primitive.ObjectID, kind string) (*engine.StreakResult, error) {
	today := engine.DayKeyOf(time.Now(), s.loc)
	days, err := s.repo.ActiveDays(ctx, ownerID, kind, today.AddDays(-60), today)
	if err != nil {
		return nil, err
	}

	set := make(map[engine.DayKey]bool, len(days))
	for _, d := range days {
		set[d] = true
	}
	result := engine.ComputeStreak(set, today)
	return &result, nil
}
