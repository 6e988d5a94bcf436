package streak

import (
	"fmt"
	"pilot/internal/models"
	"sort"
	"time"
)

// Milestones are the streak lengths that earn a celebration, in ascending order.
var Milestones = []int{3, 7, 14, 30, 60, 90, 180, 365}

// Calculate derives the current and longest run of consecutive calendar days
// that have an entry. Completion status is ignored; any entry counts.
// now decides what "today" is, in now's location.
func Calculate(entries []models.Entry, now time.Time) models.StreakInfo {
	dates := sortedDays(entries)
	if len(dates) == 0 {
		return models.StreakInfo{}
	}

	today, _ := models.ParseDateKey(models.DateKey(now))
	yesterday := today.AddDate(0, 0, -1)

	hasRecentEntry := false
	for _, d := range dates {
		if d.Equal(today) || d.Equal(yesterday) {
			hasRecentEntry = true
			break
		}
	}

	var (
		current, longest int
		currentSet       bool
		tempStreak       = 1
	)
	for i := 1; i < len(dates); i++ {
		gap := models.DaysBetween(dates[i], dates[i-1])
		switch {
		case gap == 0:
		case gap == 1:
			tempStreak++
		default:
			longest = max(longest, tempStreak)
			if hasRecentEntry && !currentSet {
				current = tempStreak
				currentSet = true
			}
			tempStreak = 1
		}
		longest = max(longest, tempStreak)
	}

	switch {
	case !hasRecentEntry:
		current = 0
	case !currentSet:
		current = tempStreak
	}

	return models.StreakInfo{
		CurrentStreak: current,
		LongestStreak: max(longest, tempStreak, current),
	}
}

// sortedDays returns the parsed entry dates, most recent first.
// Unparseable dates are skipped.
func sortedDays(entries []models.Entry) []time.Time {
	dates := make([]time.Time, 0, len(entries))
	for _, e := range entries {
		d, err := models.ParseDateKey(e.Date)
		if err != nil {
			continue
		}
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].After(dates[j]) })
	return dates
}

// Milestone reports whether streak is exactly one of Milestones, with the celebration text.
func Milestone(streak int) (string, bool) {
	for _, m := range Milestones {
		if m == streak {
			return fmt.Sprintf("🔥 %d day streak!", streak), true
		}
	}
	return "", false
}
