package jobs

import (
	"context"
	"time"

	"github.com/adilzhn/remindly/internal/engine"
	"github.com/adilzhn/remindly/internal/models"
	"github.com/adilzhn/remindly/internal/services"
)

// streakLookbackDays bounds the activity window the streak is computed from.
// The calculator itself places no limit; this keeps the query cheap.
const streakLookbackDays = 60

const streakFlagSent = "sent"

// ReadingStreak sends at most one streak message per user per day, picked from
// the tier the current streak classifies into: milestone celebrations,
// encouragement for young streaks, re-engagement after a break.
func ReadingStreak(deps Deps) services.JobSpec {
	return services.JobSpec{
		Name: "reading-streak",
		Kind: models.KindStreak,
		Candidates: func(ctx context.Context, today time.Time) ([]models.NotifiableEntity, error) {
			return deps.Entities.ActiveByKind(ctx, models.KindStreak)
		},
		Select: func(ctx context.Context, entity *models.NotifiableEntity, today time.Time) (*services.Selection, error) {
			dayKey := engine.DayKeyOf(today, deps.Loc)
			if entity.FlagsForOccurrence(string(dayKey))[streakFlagSent] {
				return nil, nil
			}

			activeDays, err := deps.Activity.ActiveDays(ctx, entity.OwnerID, models.ActivityReading, dayKey.AddDays(-streakLookbackDays), dayKey)
			if err != nil {
				return nil, err
			}

			set := make(map[engine.DayKey]bool, len(activeDays))
			for _, day := range activeDays {
				set[day] = true
			}

			result := engine.ComputeStreak(set, dayKey)
			tier := engine.ClassifyTier(result)
			if tier == engine.TierNone {
				return nil, nil
			}

			title, body := streakMessage(tier, result)
			return &services.Selection{
				Milestone:     string(tier),
				FlagKey:       streakFlagSent,
				OccurrenceKey: string(dayKey),
				Title:         title,
				Body:          body,
				Data: map[string]string{
					"entity_id": entity.ID.Hex(),
					"kind":      string(models.KindStreak),
					"milestone": string(tier),
					"route":     "/reading",
				},
			}, nil
		},
	}
}
