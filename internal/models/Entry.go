package models

import "time"

// Entry is one day's mood/task/reflection record. Date is the natural key.
type Entry struct {
	ID               string     `json:"id"`
	Date             string     `json:"date"`
	Mood             Mood       `json:"mood"`
	Note             *string    `json:"note,omitempty"`
	Task             string     `json:"task"`
	Reflection       string     `json:"reflection"`
	Insight          *string    `json:"insight,omitempty"`
	Emotion          *string    `json:"emotion,omitempty"`
	EmotionCategory  *string    `json:"emotion_category,omitempty"`
	Completed        bool       `json:"completed"`
	GeneratedAt      time.Time  `json:"generated_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	Version          *int       `json:"version,omitempty"`
	PreviousVersions *int       `json:"previous_versions,omitempty"`
}

// CurrentVersion treats an absent version as the first one.
func (e *Entry) CurrentVersion() int {
	if e.Version == nil {
		return 1
	}
	return *e.Version
}

func (e *Entry) PreviousVersionCount() int {
	if e.PreviousVersions == nil {
		return 0
	}
	return *e.PreviousVersions
}

// Clone returns a deep copy; pointer fields are not shared with the receiver.
func (e Entry) Clone() Entry {
	c := e
	c.Note = cloneString(e.Note)
	c.Insight = cloneString(e.Insight)
	c.Emotion = cloneString(e.Emotion)
	c.EmotionCategory = cloneString(e.EmotionCategory)
	if e.CompletedAt != nil {
		t := *e.CompletedAt
		c.CompletedAt = &t
	}
	c.Version = cloneInt(e.Version)
	c.PreviousVersions = cloneInt(e.PreviousVersions)
	return c
}

// TaskContent is what the task-generation collaborator returns.
type TaskContent struct {
	Task       string  `json:"task"`
	Reflection string  `json:"reflection"`
	Insight    *string `json:"insight,omitempty"`
}

// MoodDetection is the optional secondary classification of a note.
type MoodDetection struct {
	Emotion    string `json:"emotion"`
	Category   string `json:"category"`
	Reasoning  string `json:"reasoning"`
	Confidence string `json:"confidence"`
}

type StreakInfo struct {
	CurrentStreak int `json:"current_streak"`
	LongestStreak int `json:"longest_streak"`
}

func StringPtr(s string) *string { return &s }

func IntPtr(i int) *int { return &i }

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneInt(i *int) *int {
	if i == nil {
		return nil
	}
	v := *i
	return &v
}
