package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationLogEntry is the append-only audit record written once per
// dispatched reminder. Entries are never updated or deleted by the engine.
type NotificationLogEntry struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID      primitive.ObjectID `bson:"owner_id" json:"owner_id"`
	EntityID     primitive.ObjectID `bson:"entity_id,omitempty" json:"entity_id,omitempty"`
	Kind         EntityKind         `bson:"kind" json:"kind"`
	Milestone    string             `bson:"milestone" json:"milestone"`
	Title        string             `bson:"title" json:"title"`
	SuccessCount int                `bson:"success_count" json:"success_count"`
	FailureCount int                `bson:"failure_count" json:"failure_count"`
	SentAt       time.Time          `bson:"sent_at" json:"sent_at"`
}
