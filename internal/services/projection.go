package services

import (
	"pilot/internal/models"
	"sort"
	"time"
)

// State is the read-through projection handed to the presentation layer.
// It is rebuilt from the store after every write and replaced wholesale.
type State struct {
	Profile      models.Profile      `json:"profile"`
	Entries      []models.Entry      `json:"entries"`
	TodayEntry   *models.Entry       `json:"today_entry,omitempty"`
	CurrentTask  *models.TaskContent `json:"current_task,omitempty"`
	ChatThreads  []models.ChatThread `json:"chat_threads"`
	Streak       models.StreakInfo   `json:"streak"`
	IsLoading    bool                `json:"is_loading"`
	ErrorMessage string              `json:"error_message,omitempty"`
	Milestone    string              `json:"milestone,omitempty"`
}

func (s State) Clone() State {
	c := s
	c.Profile = s.Profile.Clone()
	c.Entries = make([]models.Entry, len(s.Entries))
	for i, e := range s.Entries {
		c.Entries[i] = e.Clone()
	}
	if s.TodayEntry != nil {
		today := s.TodayEntry.Clone()
		c.TodayEntry = &today
	}
	if s.CurrentTask != nil {
		task := *s.CurrentTask
		c.CurrentTask = &task
	}
	c.ChatThreads = make([]models.ChatThread, len(s.ChatThreads))
	for i, t := range s.ChatThreads {
		c.ChatThreads[i] = t.Clone()
	}
	return c
}

func defaultState(now time.Time, chatCredits int) State {
	return State{
		Profile:     models.NewDefaultProfile(now, chatCredits),
		Entries:     []models.Entry{},
		ChatThreads: []models.ChatThread{},
	}
}

// Stats summarises the journal for the insights view.
type Stats struct {
	TotalEntries     int `json:"total_entries"`
	CompletedEntries int `json:"completed_entries"`
	CompletionRate   int `json:"completion_rate"`
	CurrentStreak    int `json:"current_streak"`
	LongestStreak    int `json:"longest_streak"`
}

// CompletionResult is returned by CompleteTask. Milestone is empty unless the new
// streak hit one of the celebrated lengths.
type CompletionResult struct {
	Entry     models.Entry      `json:"entry"`
	Streak    models.StreakInfo `json:"streak"`
	Milestone string            `json:"milestone,omitempty"`
}

// MilestoneNotifier receives streak celebrations as they happen.
type MilestoneNotifier func(streak int, message string)

// sortByDateDesc orders entries most recent first, in place.
func sortByDateDesc(entries []models.Entry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].Date > entries[j].Date })
}

func mostRecent(entries []models.Entry, limit int) []models.Entry {
	sorted := make([]models.Entry, len(entries))
	copy(sorted, entries)
	sortByDateDesc(sorted)
	if limit >= 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

func taskContentOf(e models.Entry) *models.TaskContent {
	return &models.TaskContent{Task: e.Task, Reflection: e.Reflection, Insight: e.Insight}
}
