package engine

import "time"

// DaysUntil computes the whole calendar days from today until deadline, both
// normalized to midnight in the reference timezone first so that fractional
// hours cannot perturb the result. Negative means the deadline has passed.
func DaysUntil(deadline, today time.Time, loc *time.Location) int {
	d := StartOfDay(deadline, loc)
	t := StartOfDay(today, loc)
	diff := d.Sub(t)
	// Midnight-to-midnight spans are whole days except across DST shifts
	// (23h or 25h); rounding to the nearest day absorbs both.
	if diff >= 0 {
		return int((diff + 12*time.Hour) / (24 * time.Hour))
	}
	return -int((-diff + 12*time.Hour) / (24 * time.Hour))
}

// MatchMilestone returns the "N days before" offset that applies today, or
// ok=false when none does. An offset already recorded in alreadySent is never
// returned again; persisting alreadySent between runs is the caller's job.
func MatchMilestone(deadline, today time.Time, offsets []int, alreadySent map[int]bool, loc *time.Location) (int, bool) {
	daysUntil := DaysUntil(deadline, today, loc)
	for _, offset := range offsets {
		if daysUntil == offset && !alreadySent[offset] {
			return offset, true
		}
	}
	return 0, false
}

// DueRange translates "due exactly offset days from today" into a timestamp
// interval [start, end) usable for store queries over entities whose deadlines
// carry a time of day.
func DueRange(today time.Time, offset int, loc *time.Location) (time.Time, time.Time) {
	start := StartOfDay(today, loc).AddDate(0, 0, offset)
	return start, start.AddDate(0, 0, 1)
}
