package engine

import (
	"time"
)

// DayKey is a canonical "YYYY-MM-DD" calendar day in the reference timezone.
// It is the atomic unit for streak and due-date math.
type DayKey string

const dayKeyLayout = "2006-01-02"

// DayKeyOf returns the day-key of t in the given location.
func DayKeyOf(t time.Time, loc *time.Location) DayKey {
	return DayKey(t.In(loc).Format(dayKeyLayout))
}

// ParseDayKey validates and parses a "YYYY-MM-DD" string.
func ParseDayKey(s string) (DayKey, error) {
	if _, err := time.Parse(dayKeyLayout, s); err != nil {
		return "", &InvalidConfigError{Field: "dayKey", Value: s, Reason: "expected YYYY-MM-DD"}
	}
	return DayKey(s), nil
}

// Time returns the day at midnight UTC. Day-key arithmetic is done in UTC so
// that DST transitions in the reference timezone cannot shorten or stretch a day.
func (d DayKey) Time() time.Time {
	t, err := time.Parse(dayKeyLayout, string(d))
	if err != nil {
		return time.Time{}
	}
	return t
}

// AddDays returns the day-key n calendar days after d (n may be negative).
func (d DayKey) AddDays(n int) DayKey {
	return DayKey(d.Time().AddDate(0, 0, n).Format(dayKeyLayout))
}

// DiffDays returns d - other in whole calendar days.
func (d DayKey) DiffDays(other DayKey) int {
	return int(d.Time().Sub(other.Time()).Hours() / 24)
}

// Before reports whether d is an earlier calendar day than other.
// Works because the YYYY-MM-DD layout sorts lexicographically.
func (d DayKey) Before(other DayKey) bool {
	return string(d) < string(other)
}

func (d DayKey) String() string {
	return string(d)
}

// MonthKey returns the "YYYY-MM" occurrence key of the day, used to scope
// monthly notification flags (budget warnings reset each month).
func (d DayKey) MonthKey() string {
	if len(d) < 7 {
		return ""
	}
	return string(d[:7])
}

// MinutesOfDay returns t's time of day in [0, 1440) in the given location.
func MinutesOfDay(t time.Time, loc *time.Location) int {
	local := t.In(loc)
	return local.Hour()*60 + local.Minute()
}

// StartOfDay returns midnight of t's calendar day in the given location.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}
