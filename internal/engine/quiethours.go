package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// QuietHours is a user-configured time-of-day window during which notifications
// are suppressed. Start/End are "HH:MM" clock strings in the reference timezone.
// The window may wrap past midnight (e.g. 22:00–08:00).
type QuietHours struct {
	Enabled bool   `bson:"enabled" json:"enabled"`
	Start   string `bson:"start_time" json:"start_time"`
	End     string `bson:"end_time" json:"end_time"`
}

// ParseClock converts an "HH:MM" string to minutes of day in [0, 1440).
func ParseClock(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, &InvalidConfigError{Field: "clock", Value: s, Reason: "expected HH:MM"}
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, &InvalidConfigError{Field: "clock", Value: s, Reason: "hour out of range"}
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, &InvalidConfigError{Field: "clock", Value: s, Reason: "minute out of range"}
	}
	return hour*60 + minute, nil
}

// Validate checks both clock strings. Callers must validate before relying on
// IsQuietHours; the predicate itself never returns an error.
func (q QuietHours) Validate() error {
	if !q.Enabled {
		return nil
	}
	if _, err := ParseClock(q.Start); err != nil {
		return fmt.Errorf("quiet hours start: %w", err)
	}
	if _, err := ParseClock(q.End); err != nil {
		return fmt.Errorf("quiet hours end: %w", err)
	}
	return nil
}

// IsQuietHours reports whether nowMinutes (minutes of day in the reference
// timezone) falls inside the window. A disabled or malformed window is never
// quiet: malformed strings are a validation concern, not a runtime one.
func IsQuietHours(q QuietHours, nowMinutes int) bool {
	if !q.Enabled {
		return false
	}
	start, err := ParseClock(q.Start)
	if err != nil {
		return false
	}
	end, err := ParseClock(q.End)
	if err != nil {
		return false
	}

	if start <= end {
		// Same-day window, e.g. 13:00–15:00.
		return nowMinutes >= start && nowMinutes <= end
	}
	// Window wraps past midnight, e.g. 22:00–08:00.
	return nowMinutes >= start || nowMinutes <= end
}
