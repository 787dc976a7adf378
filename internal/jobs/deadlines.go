package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/adilzhn/remindly/internal/engine"
	"github.com/adilzhn/remindly/internal/models"
	"github.com/adilzhn/remindly/internal/services"
)

// Milestone offsets for deadline-driven reminders, in days before the due date.
var (
	billOffsets = []int{7, 3, 1, 0}
	goalOffsets = []int{7, 3, 1}
)

func offsetFlagKey(offset int) string {
	return fmt.Sprintf("due_%d", offset)
}

// BillReminders notifies about upcoming bill due dates at 7/3/1 days before
// and on the day itself.
func BillReminders(deps Deps) services.JobSpec {
	return deadlineJob(deps, "bill-reminders", models.KindBill, billOffsets, billMessage)
}

// GoalReminders notifies about approaching goal target deadlines.
func GoalReminders(deps Deps) services.JobSpec {
	return deadlineJob(deps, "goal-reminders", models.KindGoal, goalOffsets, goalMessage)
}

// deadlineJob is the shared shape of the two due-date jobs: candidates are
// active entities whose deadline falls inside the widest milestone window, and
// selection is a pure due-window match against the already-sent flags.
func deadlineJob(deps Deps, name string, kind models.EntityKind, offsets []int, message func(offset int, entity *models.NotifiableEntity) (string, string)) services.JobSpec {
	maxOffset := offsets[0]
	for _, o := range offsets {
		if o > maxOffset {
			maxOffset = o
		}
	}

	return services.JobSpec{
		Name: name,
		Kind: kind,
		Candidates: func(ctx context.Context, today time.Time) ([]models.NotifiableEntity, error) {
			from := engine.StartOfDay(today, deps.Loc)
			_, to := engine.DueRange(today, maxOffset, deps.Loc)
			return deps.Entities.ActiveDueBetween(ctx, kind, from, to)
		},
		Select: func(ctx context.Context, entity *models.NotifiableEntity, today time.Time) (*services.Selection, error) {
			if entity.DueAt == nil {
				return nil, nil
			}

			// Flags belong to the current deadline; a rescheduled entity
			// starts a fresh occurrence and may notify again.
			occurrence := string(engine.DayKeyOf(*entity.DueAt, deps.Loc))
			flags := entity.FlagsForOccurrence(occurrence)
			alreadySent := make(map[int]bool, len(offsets))
			for _, offset := range offsets {
				if flags[offsetFlagKey(offset)] {
					alreadySent[offset] = true
				}
			}

			offset, ok := engine.MatchMilestone(*entity.DueAt, today, offsets, alreadySent, deps.Loc)
			if !ok {
				return nil, nil
			}

			title, body := message(offset, entity)
			return &services.Selection{
				Milestone:     offsetFlagKey(offset),
				FlagKey:       offsetFlagKey(offset),
				OccurrenceKey: occurrence,
				Title:         title,
				Body:          body,
				Data: map[string]string{
					"entity_id": entity.ID.Hex(),
					"kind":      string(kind),
					"milestone": offsetFlagKey(offset),
					"route":     "/" + string(kind) + "s",
				},
			}, nil
		},
	}
}
