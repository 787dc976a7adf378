package jobs

import (
	"fmt"

	"github.com/adilzhn/remindly/internal/engine"
	"github.com/adilzhn/remindly/internal/models"
)

// Message selection is data, not control flow: lookup tables keyed by
// milestone or tier, with the entity name spliced in.

type messageTemplate struct {
	title string
	body  string
}

var billTemplates = map[int]messageTemplate{
	7: {"Bill coming up", "\"%s\" is due in a week."},
	3: {"Bill due in 3 days", "\"%s\" is due in 3 days. Time to plan for it."},
	1: {"Bill due tomorrow", "\"%s\" is due tomorrow."},
	0: {"Bill due today", "\"%s\" is due today. Don't forget to pay it."},
}

var goalTemplates = map[int]messageTemplate{
	7: {"One week left", "A week remains until the deadline for \"%s\"."},
	3: {"Deadline approaching", "Only 3 days left to finish \"%s\"."},
	1: {"Final day tomorrow", "\"%s\" is due tomorrow. Push through!"},
}

var budgetTemplates = map[string]messageTemplate{
	milestoneNearLimit: {"Budget warning", "You've used over 90%% of your \"%s\" budget this month."},
	milestoneOverLimit: {"Budget exceeded", "Your \"%s\" budget is over its monthly limit."},
}

func billMessage(offset int, entity *models.NotifiableEntity) (string, string) {
	tmpl := billTemplates[offset]
	return tmpl.title, fmt.Sprintf(tmpl.body, entity.Name)
}

func goalMessage(offset int, entity *models.NotifiableEntity) (string, string) {
	tmpl := goalTemplates[offset]
	return tmpl.title, fmt.Sprintf(tmpl.body, entity.Name)
}

func budgetMessage(milestone string, entity *models.NotifiableEntity) (string, string) {
	tmpl := budgetTemplates[milestone]
	return tmpl.title, fmt.Sprintf(tmpl.body, entity.Name)
}

func habitMessage(entity *models.NotifiableEntity) (string, string) {
	return "Habit reminder", fmt.Sprintf("You haven't checked in \"%s\" today yet.", entity.Name)
}

func streakMessage(tier engine.Tier, result engine.StreakResult) (string, string) {
	switch tier {
	case engine.TierMilestone:
		return fmt.Sprintf("%d-day streak!", result.CurrentStreak),
			fmt.Sprintf("You've read %d days in a row. Keep the chain going!", result.CurrentStreak)
	case engine.TierEncouragement:
		return "Streak going strong",
			fmt.Sprintf("%d days of reading in a row. Nice momentum!", result.CurrentStreak)
	case engine.TierReengagement:
		return "Your streak misses you",
			"It's been a couple of days since your last reading session. A few pages tonight?"
	}
	return "", ""
}
