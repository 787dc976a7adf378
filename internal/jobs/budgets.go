package jobs

import (
	"context"
	"time"

	"github.com/adilzhn/remindly/internal/engine"
	"github.com/adilzhn/remindly/internal/models"
	"github.com/adilzhn/remindly/internal/services"
)

// Budget warning thresholds against the monthly limit.
const (
	budgetNearLimitRatio = 0.9

	milestoneNearLimit = "near_limit"
	milestoneOverLimit = "over_limit"
)

// BudgetWarnings notifies when a budget category approaches or exceeds its
// monthly limit. The occurrence key is the calendar month, so both warnings
// fire at most once per category per month and reset naturally on the 1st.
func BudgetWarnings(deps Deps) services.JobSpec {
	return services.JobSpec{
		Name: "budget-warnings",
		Kind: models.KindBudget,
		Candidates: func(ctx context.Context, today time.Time) ([]models.NotifiableEntity, error) {
			return deps.Entities.ActiveByKind(ctx, models.KindBudget)
		},
		Select: func(ctx context.Context, entity *models.NotifiableEntity, today time.Time) (*services.Selection, error) {
			if entity.LimitAmount <= 0 {
				return nil, nil
			}

			month := engine.DayKeyOf(today, deps.Loc).MonthKey()
			flags := entity.FlagsForOccurrence(month)

			var milestone string
			switch {
			case entity.SpentAmount > entity.LimitAmount && !flags[milestoneOverLimit]:
				milestone = milestoneOverLimit
			case float64(entity.SpentAmount) >= budgetNearLimitRatio*float64(entity.LimitAmount) && !flags[milestoneNearLimit] && !flags[milestoneOverLimit]:
				milestone = milestoneNearLimit
			default:
				return nil, nil
			}

			title, body := budgetMessage(milestone, entity)
			return &services.Selection{
				Milestone:     milestone,
				FlagKey:       milestone,
				OccurrenceKey: month,
				Title:         title,
				Body:          body,
				Data: map[string]string{
					"entity_id": entity.ID.Hex(),
					"kind":      string(models.KindBudget),
					"milestone": milestone,
					"route":     "/finance",
				},
			}, nil
		},
	}
}
