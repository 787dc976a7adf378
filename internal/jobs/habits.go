package jobs

import (
	"context"
	"time"

	"github.com/adilzhn/remindly/internal/engine"
	"github.com/adilzhn/remindly/internal/models"
	"github.com/adilzhn/remindly/internal/services"
)

const milestoneNudge = "nudge"

// HabitReminders nudges habits scheduled for today's weekday that have no
// check-in yet. The occurrence key is today's day-key, so the nudge fires at
// most once per habit per day.
func HabitReminders(deps Deps) services.JobSpec {
	return services.JobSpec{
		Name: "habit-reminders",
		Kind: models.KindHabit,
		Candidates: func(ctx context.Context, today time.Time) ([]models.NotifiableEntity, error) {
			return deps.Entities.ActiveByKind(ctx, models.KindHabit)
		},
		Select: func(ctx context.Context, entity *models.NotifiableEntity, today time.Time) (*services.Selection, error) {
			weekday := int(today.In(deps.Loc).Weekday())
			if !containsDay(entity.RecurrenceDays, weekday) {
				return nil, nil
			}

			dayKey := engine.DayKeyOf(today, deps.Loc)
			if entity.FlagsForOccurrence(string(dayKey))[milestoneNudge] {
				return nil, nil
			}

			// A check-in recorded earlier today means nothing is due.
			done, err := deps.Activity.HasCheckIn(ctx, entity.OwnerID, entity.ID, dayKey)
			if err != nil {
				return nil, err
			}
			if done {
				return nil, nil
			}

			title, body := habitMessage(entity)
			return &services.Selection{
				Milestone:     milestoneNudge,
				FlagKey:       milestoneNudge,
				OccurrenceKey: string(dayKey),
				Title:         title,
				Body:          body,
				Data: map[string]string{
					"entity_id": entity.ID.Hex(),
					"kind":      string(models.KindHabit),
					"milestone": milestoneNudge,
					"route":     "/habits",
				},
			}, nil
		},
	}
}

func containsDay(days []int, weekday int) bool {
	for _, d := range days {
		if d == weekday {
			return true
		}
	}
	return false
}
