package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Device token statuses.
const (
	TokenActive  = "active"
	TokenInvalid = "invalid"
)

// DeviceToken is an opaque push-transport handle for one of a user's devices.
// Only the dispatch reconciliation path flips Status to invalid, after the
// transport reports the token as permanently unregistered.
type DeviceToken struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID    primitive.ObjectID `bson:"owner_id" json:"owner_id"`
	Token      string             `bson:"token" json:"token"`
	Platform   string             `bson:"platform,omitempty" json:"platform,omitempty"` // web | android | ios
	Status     string             `bson:"status" json:"status"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	LastSeenAt time.Time          `bson:"last_seen_at" json:"last_seen_at"`
}
