package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EntityKind identifies which reminder category an entity belongs to.
type EntityKind string

const (
	KindBill   EntityKind = "bill"
	KindGoal   EntityKind = "goal"
	KindHabit  EntityKind = "habit"
	KindBudget EntityKind = "budget"
	KindStreak EntityKind = "streak"
)

// Entity statuses.
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusArchived  = "archived"
)

// NotifiableEntity is anything that can trigger a reminder: a bill, a goal
// deadline, a habit schedule, a budget category, or a reading-streak tracker.
// All kinds share one collection, distinguished by Kind.
type NotifiableEntity struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID primitive.ObjectID `bson:"owner_id" json:"owner_id"`
	Kind    EntityKind         `bson:"kind" json:"kind"`
	Name    string             `bson:"name" json:"name"`
	Status  string             `bson:"status" json:"status"`

	// DueAt is the bill due date or goal target deadline. Unset for habits,
	// budgets and streak trackers.
	DueAt *time.Time `bson:"due_at,omitempty" json:"due_at,omitempty"`

	// RecurrenceDays holds scheduled weekdays for habits (0=Sunday .. 6=Saturday).
	RecurrenceDays []int `bson:"recurrence_days,omitempty" json:"recurrence_days,omitempty"`

	// Budget amounts (KindBudget only), in the user's currency minor units.
	SpentAmount int64 `bson:"spent_amount,omitempty" json:"spent_amount,omitempty"`
	LimitAmount int64 `bson:"limit_amount,omitempty" json:"limit_amount,omitempty"`

	// NotificationFlags maps milestone-key -> already sent. A flag set true is
	// never reset within the same occurrence; it only clears when OccurrenceKey
	// advances (new month for budgets, new day for habits/streaks, new deadline
	// for a recreated goal).
	NotificationFlags map[string]bool `bson:"notification_flags,omitempty" json:"notification_flags,omitempty"`
	OccurrenceKey     string          `bson:"occurrence_key,omitempty" json:"occurrence_key,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// FlagSent reports whether the milestone flag is already set.
func (e *NotifiableEntity) FlagSent(key string) bool {
	return e.NotificationFlags[key]
}

// FlagsForOccurrence returns the effective flag map for the given occurrence.
// Flags recorded under an older occurrence key are stale and read as unset.
func (e *NotifiableEntity) FlagsForOccurrence(occurrenceKey string) map[string]bool {
	if occurrenceKey != "" && e.OccurrenceKey != occurrenceKey {
		return nil
	}
	return e.NotificationFlags
}

// SentOffsets converts "due_N" notification flags into the offset set consumed
// by the due-window matcher.
func (e *NotifiableEntity) SentOffsets(offsets []int, keyFor func(int) string) map[int]bool {
	sent := make(map[int]bool, len(offsets))
	for _, offset := range offsets {
		if e.NotificationFlags[keyFor(offset)] {
			sent[offset] = true
		}
	}
	return sent
}
