package models

import (
	"time"

	"github.com/adilzhn/remindly/internal/engine"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CategoryPrefs controls one reminder category for a user: a master switch and
// per-milestone sub-switches (e.g. bills: due_7/due_3/due_0; streak: tier names).
type CategoryPrefs struct {
	Enabled    bool            `bson:"enabled" json:"enabled"`
	Milestones map[string]bool `bson:"milestones" json:"milestones"`
}

// MilestoneEnabled reports whether the given milestone sub-flag is on. A
// milestone absent from the map defaults to enabled so that new milestone keys
// do not silently disable reminders for existing users.
func (c CategoryPrefs) MilestoneEnabled(key string) bool {
	enabled, ok := c.Milestones[key]
	if !ok {
		return true
	}
	return enabled
}

// UserNotificationPreferences is the per-user settings document. Created with
// defaults on first use, mutated only through the settings API; the dispatch
// engine treats it as read-only.
type UserNotificationPreferences struct {
	ID         primitive.ObjectID           `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID           `bson:"user_id" json:"user_id"`
	Categories map[EntityKind]CategoryPrefs `bson:"categories" json:"categories"`
	QuietHours engine.QuietHours            `bson:"quiet_hours" json:"quiet_hours"`
	CreatedAt  time.Time                    `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time                    `bson:"updated_at" json:"updated_at"`
}

// Category returns the prefs for a kind; a missing category is enabled with
// all milestones on, matching the default document.
func (p *UserNotificationPreferences) Category(kind EntityKind) CategoryPrefs {
	if prefs, ok := p.Categories[kind]; ok {
		return prefs
	}
	return CategoryPrefs{Enabled: true}
}

// DefaultPreferences builds the document written on a user's first touch of
// the settings surface: everything enabled, quiet hours off.
func DefaultPreferences(userID primitive.ObjectID) *UserNotificationPreferences {
	now := time.Now()
	return &UserNotificationPreferences{
		UserID: userID,
		Categories: map[EntityKind]CategoryPrefs{
			KindBill:   {Enabled: true, Milestones: map[string]bool{}},
			KindGoal:   {Enabled: true, Milestones: map[string]bool{}},
			KindHabit:  {Enabled: true, Milestones: map[string]bool{}},
			KindBudget: {Enabled: true, Milestones: map[string]bool{}},
			KindStreak: {Enabled: true, Milestones: map[string]bool{}},
		},
		QuietHours: engine.QuietHours{Enabled: false, Start: "22:00", End: "08:00"},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
