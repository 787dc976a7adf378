package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func days(keys ...DayKey) map[DayKey]bool {
	m := make(map[DayKey]bool, len(keys))
	for _, k := range keys {
		m[k] = true
	}
	return m
}

func TestComputeStreak_EmptySet(t *testing.T) {
	got := ComputeStreak(nil, "2025-06-10")
	assert.Equal(t, StreakResult{}, got)
}

func TestComputeStreak_SingleDayToday(t *testing.T) {
	today := DayKey("2025-06-10")
	got := ComputeStreak(days(today), today)

	assert.Equal(t, 1, got.CurrentStreak)
	assert.Equal(t, 1, got.LongestStreak)
	assert.Equal(t, today, got.LastActiveDay)
	assert.False(t, got.MissedYesterday)
}

func TestComputeStreak_ThreeConsecutiveDays(t *testing.T) {
	today := DayKey("2025-06-10")
	got := ComputeStreak(days("2025-06-08", "2025-06-09", today), today)

	assert.Equal(t, 3, got.CurrentStreak)
	assert.Equal(t, 3, got.LongestStreak)
	assert.Equal(t, today, got.LastActiveDay)
	assert.False(t, got.MissedYesterday)
}

func TestComputeStreak_StartsYesterdayWhenTodayMissing(t *testing.T) {
	today := DayKey("2025-06-10")
	got := ComputeStreak(days("2025-06-07", "2025-06-08", "2025-06-09"), today)

	assert.Equal(t, 3, got.CurrentStreak)
	assert.Equal(t, DayKey("2025-06-09"), got.LastActiveDay)
	assert.False(t, got.MissedYesterday)
}

func TestComputeStreak_GapBreaksCurrentStreak(t *testing.T) {
	today := DayKey("2025-06-10")
	got := ComputeStreak(days("2025-06-05"), today)

	assert.Equal(t, 0, got.CurrentStreak)
	assert.Equal(t, 1, got.LongestStreak)
	assert.Equal(t, DayKey("2025-06-05"), got.LastActiveDay)
	assert.True(t, got.MissedYesterday)
}

func TestComputeStreak_LongestRunInHistory(t *testing.T) {
	today := DayKey("2025-06-10")
	set := days(
		"2025-06-01", "2025-06-02", "2025-06-03", "2025-06-04", // run of 4
		"2025-06-09", "2025-06-10", // current run of 2
	)
	got := ComputeStreak(set, today)

	assert.Equal(t, 2, got.CurrentStreak)
	assert.Equal(t, 4, got.LongestStreak)
	assert.False(t, got.MissedYesterday)
}

func TestComputeStreak_MonthBoundary(t *testing.T) {
	today := DayKey("2025-07-01")
	got := ComputeStreak(days("2025-06-29", "2025-06-30", today), today)

	assert.Equal(t, 3, got.CurrentStreak)
	assert.Equal(t, 3, got.LongestStreak)
}

func TestClassifyTier(t *testing.T) {
	tests := []struct {
		name   string
		result StreakResult
		want   Tier
	}{
		{"empty", StreakResult{}, TierNone},
		{"one day", StreakResult{CurrentStreak: 1, LongestStreak: 1}, TierNone},
		{"three days", StreakResult{CurrentStreak: 3, LongestStreak: 3}, TierEncouragement},
		{"six days", StreakResult{CurrentStreak: 6, LongestStreak: 6}, TierEncouragement},
		{"week milestone beats encouragement", StreakResult{CurrentStreak: 7, LongestStreak: 7}, TierMilestone},
		{"eight days falls back to encouragement", StreakResult{CurrentStreak: 8, LongestStreak: 8}, TierEncouragement},
		{"two weeks", StreakResult{CurrentStreak: 14, LongestStreak: 14}, TierMilestone},
		{"twenty", StreakResult{CurrentStreak: 20, LongestStreak: 20}, TierMilestone},
		{"thirty", StreakResult{CurrentStreak: 30, LongestStreak: 30}, TierMilestone},
		{"forty", StreakResult{CurrentStreak: 40, LongestStreak: 40}, TierMilestone},
		{"broken streak", StreakResult{CurrentStreak: 0, LongestStreak: 5, MissedYesterday: true}, TierReengagement},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyTier(tt.result))
		})
	}
}
