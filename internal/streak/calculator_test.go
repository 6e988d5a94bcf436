package streak

import (
	"pilot/internal/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var testNow = time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC)

func entriesDaysAgo(days ...int) []models.Entry {
	out := make([]models.Entry, 0, len(days))
	for _, d := range days {
		out = append(out, models.Entry{Date: models.DateKey(testNow.AddDate(0, 0, -d))})
	}
	return out
}

func TestCalculate_Empty(t *testing.T) {
	assert.Equal(t, models.StreakInfo{}, Calculate(nil, testNow))
}

func TestCalculate_SevenConsecutiveEndingToday(t *testing.T) {
	info := Calculate(entriesDaysAgo(0, 1, 2, 3, 4, 5, 6), testNow)
	assert.Equal(t, models.StreakInfo{CurrentStreak: 7, LongestStreak: 7}, info)
}

func TestCalculate_UnorderedInput(t *testing.T) {
	info := Calculate(entriesDaysAgo(3, 0, 6, 1, 5, 2, 4), testNow)
	assert.Equal(t, models.StreakInfo{CurrentStreak: 7, LongestStreak: 7}, info)
}

func TestCalculate_SingleOldEntry(t *testing.T) {
	info := Calculate(entriesDaysAgo(10), testNow)
	assert.Equal(t, models.StreakInfo{CurrentStreak: 0, LongestStreak: 1}, info)
}

func TestCalculate_SingleRecentEntry(t *testing.T) {
	assert.Equal(t, models.StreakInfo{CurrentStreak: 1, LongestStreak: 1}, Calculate(entriesDaysAgo(0), testNow))
	assert.Equal(t, models.StreakInfo{CurrentStreak: 1, LongestStreak: 1}, Calculate(entriesDaysAgo(1), testNow))
}

func TestCalculate_OldRunThenGapThenToday(t *testing.T) {
	// three consecutive days a week ago, then today
	info := Calculate(entriesDaysAgo(9, 8, 7, 0), testNow)
	assert.Equal(t, models.StreakInfo{CurrentStreak: 1, LongestStreak: 3}, info)
}

func TestCalculate_CurrentRunEndingYesterday(t *testing.T) {
	info := Calculate(entriesDaysAgo(1, 2, 3, 10, 11), testNow)
	assert.Equal(t, models.StreakInfo{CurrentStreak: 3, LongestStreak: 3}, info)
}

func TestCalculate_NoRecentEntryZeroesCurrent(t *testing.T) {
	info := Calculate(entriesDaysAgo(2, 3, 4, 5), testNow)
	assert.Equal(t, models.StreakInfo{CurrentStreak: 0, LongestStreak: 4}, info)
}

func TestCalculate_CompletionIgnored(t *testing.T) {
	entries := entriesDaysAgo(0, 1)
	entries[1].Completed = true
	assert.Equal(t, models.StreakInfo{CurrentStreak: 2, LongestStreak: 2}, Calculate(entries, testNow))
}

func TestCalculate_DuplicateDatesContinueRun(t *testing.T) {
	info := Calculate(entriesDaysAgo(0, 0, 1, 2), testNow)
	assert.Equal(t, models.StreakInfo{CurrentStreak: 3, LongestStreak: 3}, info)
}

func TestCalculate_SkipsMalformedDates(t *testing.T) {
	entries := append(entriesDaysAgo(0, 1), models.Entry{Date: "yesterday"})
	assert.Equal(t, models.StreakInfo{CurrentStreak: 2, LongestStreak: 2}, Calculate(entries, testNow))
}

func TestCalculate_LongestAcrossSeveralRuns(t *testing.T) {
	info := Calculate(entriesDaysAgo(0, 1, 5, 6, 7, 8, 20, 21), testNow)
	assert.Equal(t, models.StreakInfo{CurrentStreak: 2, LongestStreak: 4}, info)
}

func TestMilestone_ExactMatchOnly(t *testing.T) {
	_, ok := Milestone(6)
	assert.False(t, ok)

	msg, ok := Milestone(7)
	assert.True(t, ok)
	assert.Equal(t, "🔥 7 day streak!", msg)

	_, ok = Milestone(8)
	assert.False(t, ok)
	_, ok = Milestone(10)
	assert.False(t, ok)
}

func TestMilestone_AllValues(t *testing.T) {
	for _, m := range Milestones {
		_, ok := Milestone(m)
		assert.True(t, ok, "milestone %d", m)
	}
	_, ok := Milestone(0)
	assert.False(t, ok)
}
