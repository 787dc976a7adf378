// Package jobs defines the five reminder jobs as data plus small closures over
// the eligibility engine. The shared control flow lives in
// services.DispatchService; a JobSpec only says how to find candidates and
// what an entity is due for today.
package jobs

import (
	"context"
	"time"

	"github.com/adilzhn/remindly/internal/engine"
	"github.com/adilzhn/remindly/internal/models"
	"github.com/adilzhn/remindly/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EntitySource is the slice of the entity repository the jobs read from.
type EntitySource interface {
	ActiveByKind(ctx context.Context, kind models.EntityKind) ([]models.NotifiableEntity, error)
	ActiveDueBetween(ctx context.Context, kind models.EntityKind, from, to time.Time) ([]models.NotifiableEntity, error)
}

// ActivitySource reads the bounded trailing window of activity records that
// streak and habit checks are computed from.
type ActivitySource interface {
	ActiveDays(ctx context.Context, ownerID primitive.ObjectID, kind string, since, until engine.DayKey) ([]engine.DayKey, error)
	HasCheckIn(ctx context.Context, ownerID, refID primitive.ObjectID, day engine.DayKey) (bool, error)
}

// Deps carries the collaborators shared by all job definitions.
type Deps struct {
	Entities EntitySource
	Activity ActivitySource
	Loc      *time.Location
}

// Entry pairs a job with its cron cadence.
type Entry struct {
	Spec     services.JobSpec
	Schedule string
}

// Registry returns every job with its schedule. Deadline-driven reminders run
// twice daily so a quiet-hours skip in the morning can still deliver in the
// evening; streak and budget checks run once.
func Registry(deps Deps) []Entry {
	return []Entry{
		{Spec: BillReminders(deps), Schedule: "0 9,18 * * *"},
		{Spec: GoalReminders(deps), Schedule: "30 9,18 * * *"},
		{Spec: HabitReminders(deps), Schedule: "0 19 * * *"},
		{Spec: BudgetWarnings(deps), Schedule: "0 10 * * *"},
		{Spec: ReadingStreak(deps), Schedule: "0 20 * * *"},
	}
}

// ByName looks a job up for the HTTP trigger endpoint.
func ByName(deps Deps, name string) (services.JobSpec, bool) {
	for _, entry := range Registry(deps) {
		if entry.Spec.Name == name {
			return entry.Spec, true
		}
	}
	return services.JobSpec{}, false
}
