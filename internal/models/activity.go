package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Activity kinds accepted by the activity log.
const (
	ActivityReading = "reading"
	ActivityJournal = "journal"
	ActivityHabit   = "habit"
)

// ActivityRecord marks one calendar day on which a qualifying action occurred
// (a reading session, a journal entry, a habit check-in). Records are immutable
// once created; streaks are derived from a bounded trailing window of them.
type ActivityRecord struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID primitive.ObjectID `bson:"owner_id" json:"owner_id"`
	Kind    string             `bson:"kind" json:"kind"`
	DayKey  string             `bson:"day_key" json:"day_key"` // YYYY-MM-DD in the reference timezone
	// RefID ties a habit check-in to its habit entity; unset for journal and
	// reading records.
	RefID     *primitive.ObjectID `bson:"ref_id,omitempty" json:"ref_id,omitempty"`
	Note      string              `bson:"note,omitempty" json:"note,omitempty"`
	CreatedAt time.Time           `bson:"created_at" json:"created_at"`
}
