package engine

import "sort"

// StreakResult is the derived state of a day-windowed activity streak.
// It is recomputed fresh on every job run and never persisted by the engine.
type StreakResult struct {
	CurrentStreak   int    `json:"current_streak"`
	LongestStreak   int    `json:"longest_streak"`
	LastActiveDay   DayKey `json:"last_active_day,omitempty"`
	MissedYesterday bool   `json:"missed_yesterday"`
}

// Tier classifies a streak result into the single message tier that applies.
type Tier string

const (
	TierNone          Tier = ""
	TierMilestone     Tier = "milestone"
	TierEncouragement Tier = "encouragement"
	TierReengagement  Tier = "reengagement"
)

// ComputeStreak derives the streak state from the set of day-keys with
// qualifying activity. The caller bounds the lookback window; the calculator
// itself places no limit.
func ComputeStreak(activityDays map[DayKey]bool, today DayKey) StreakResult {
	if len(activityDays) == 0 {
		return StreakResult{}
	}

	// Current streak: count back from today, or from yesterday if today has
	// no activity yet.
	cursor := today
	if !activityDays[cursor] {
		cursor = today.AddDays(-1)
	}
	current := 0
	for activityDays[cursor] {
		current++
		cursor = cursor.AddDays(-1)
	}

	keys := make([]DayKey, 0, len(activityDays))
	for k := range activityDays {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[j].Before(keys[i]) })

	// Longest streak: walk descending day-keys, extending the run while
	// consecutive keys differ by exactly one calendar day.
	longest, run := 1, 1
	for i := 1; i < len(keys); i++ {
		if keys[i-1].DiffDays(keys[i]) == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	last := keys[0]
	return StreakResult{
		CurrentStreak:   current,
		LongestStreak:   longest,
		LastActiveDay:   last,
		MissedYesterday: last.Before(today.AddDays(-1)),
	}
}

// ClassifyTier picks the message tier for a streak result. Milestones take
// priority over encouragement at the same streak value; at most one tier
// applies.
func ClassifyTier(r StreakResult) Tier {
	if r.MissedYesterday && r.CurrentStreak == 0 {
		return TierReengagement
	}
	if isMilestoneStreak(r.CurrentStreak) {
		return TierMilestone
	}
	if r.CurrentStreak >= 3 {
		return TierEncouragement
	}
	return TierNone
}

func isMilestoneStreak(n int) bool {
	switch n {
	case 7, 14, 30:
		return true
	}
	return n >= 10 && n%10 == 0
}
