package services

import (
	"context"
	"time"

	"github.com/adilzhn/remindly/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The dispatch engine reaches its collaborators only through these interfaces,
// so tests can substitute fakes for the Mongo repositories and the FCM client.

// PreferenceStore reads per-user notification settings.
type PreferenceStore interface {
	GetOrDefault(ctx context.Context, userID primitive.ObjectID) (*models.UserNotificationPreferences, error)
}

// TokenStore lists a user's active device tokens and invalidates dead ones.
type TokenStore interface {
	ActiveTokens(ctx context.Context, ownerID primitive.ObjectID) ([]models.DeviceToken, error)
	MarkInvalid(ctx context.Context, token string) error
}

// FlagStore persists the per-entity already-sent milestone flags.
type FlagStore interface {
	SetNotificationFlag(ctx context.Context, entityID primitive.ObjectID, occurrenceKey, flagKey string) error
}

// LogStore appends write-once notification audit entries.
type LogStore interface {
	Append(ctx context.Context, entry *models.NotificationLogEntry) error
}

// MulticastMessage is one push addressed to all of a user's device tokens.
type MulticastMessage struct {
	Tokens []string
	Title  string
	Body   string
	Data   map[string]string
}

// Per-token transport error codes. Unregistered and invalid-argument are
// permanent (the token is pruned); everything else is transient and the token
// is left alone. No retry is attempted either way.
const (
	ErrCodeUnregistered    = "unregistered"
	ErrCodeInvalidArgument = "invalid-argument"
	ErrCodeUnavailable     = "unavailable"
	ErrCodeInternal        = "internal"
)

// SendResult is the delivery outcome for a single token.
type SendResult struct {
	Success   bool
	ErrorCode string
}

// MulticastResult aggregates per-token outcomes; Results is index-aligned with
// the request's Tokens slice.
type MulticastResult struct {
	SuccessCount int
	FailureCount int
	Results      []SendResult
}

// PushTransport delivers a multicast push. Implemented by the FCM client; a
// returned error means the whole call failed, per-token failures land in the
// result instead.
type PushTransport interface {
	SendMulticast(ctx context.Context, msg MulticastMessage) (*MulticastResult, error)
}

// IsInvalidTokenCode reports whether a per-token error code means the token is
// permanently dead and should be removed from the store.
func IsInvalidTokenCode(code string) bool {
	return code == ErrCodeUnregistered || code == ErrCodeInvalidArgument
}

// Selection is a concrete reminder picked for an entity: which milestone fired
// and the message to deliver.
type Selection struct {
	// Milestone labels the trigger ("due_3", "milestone", "over_limit"); it is
	// the preferences sub-flag key and the audit log milestone field.
	Milestone string
	// FlagKey is the already-sent flag written after a successful dispatch.
	// Usually equal to Milestone; streak/habit jobs scope it per day.
	FlagKey string
	// OccurrenceKey scopes the flag lifetime (deadline day, month, calendar day).
	OccurrenceKey string
	Title         string
	Body          string
	Data          map[string]string
}

// JobSpec parameterizes the shared dispatch loop for one reminder job:
// how to enumerate candidates and how to decide what (if anything) an entity
// is due for today. Both closures must be side-effect free apart from reads.
type JobSpec struct {
	Name       string
	Kind       models.EntityKind
	Candidates func(ctx context.Context, today time.Time) ([]models.NotifiableEntity, error)
	Select     func(ctx context.Context, entity *models.NotifiableEntity, today time.Time) (*Selection, error)
}
