package ai

import (
	"context"
	"fmt"
	"hash/fnv"
	"pilot/internal/models"
	"strings"
)

var offlineTasks = map[models.Mood][]models.TaskContent{
	models.MoodDrained: {
		{Task: "Close one small open loop: reply to the message you have been putting off.", Reflection: "You are running low, so today is about subtraction, not addition. One closed loop frees a little room."},
		{Task: "Take a 15 minute walk without your phone.", Reflection: "Rest counts as progress when you are drained. A short walk resets more than scrolling does."},
	},
	models.MoodRestless: {
		{Task: "Pick the task you keep circling and work on it for 25 focused minutes.", Reflection: "You have energy without direction. A single timed block gives it somewhere to land."},
		{Task: "Clean and reset your workspace before noon.", Reflection: "Restless energy likes something physical and finishable. A clear desk is a visible win."},
	},
	models.MoodHopeful: {
		{Task: "Take the first concrete step on the project you have been thinking about.", Reflection: "Momentum is rare. Spend it on something you care about rather than on busywork."},
		{Task: "Reach out to one person who could help with what you are building.", Reflection: "Hope grows when it is shared. One message today can open a door next week."},
	},
	models.MoodScattered: {
		{Task: "Write every open item on one list, then circle just one to finish today.", Reflection: "Your mind is holding too much. Putting it on paper makes the noise smaller and the next step obvious."},
		{Task: "Make one decision you have been postponing, even a small one.", Reflection: "Scattered days come from open questions. Closing one reduces the weight of the rest."},
	},
}

// OfflineGenerator produces deterministic tasks without any network access.
type OfflineGenerator struct{}

func NewOfflineGenerator() *OfflineGenerator {
	return &OfflineGenerator{}
}

func (g *OfflineGenerator) GenerateTask(ctx context.Context, mood models.Mood, note *string, recent []models.Entry) (models.TaskContent, error) {
	if err := ctx.Err(); err != nil {
		return models.TaskContent{}, fmt.Errorf("%w: %w", models.ErrCollaborator, err)
	}
	options, ok := offlineTasks[mood]
	if !ok {
		return models.TaskContent{}, fmt.Errorf("%w: no offline tasks for mood %q", models.ErrCollaborator, mood)
	}

	// Rotate through the options so consecutive days with the same mood differ.
	seed := len(recent)
	if note != nil {
		seed += int(hashString(*note) % 7)
	}
	content := options[seed%len(options)]

	if streakLen := sameMoodRun(mood, recent); streakLen >= 3 {
		insight := fmt.Sprintf("You have felt %s for %d days in a row.", strings.ToLower(mood.DisplayName()), streakLen+1)
		content.Insight = &insight
	}
	return content, nil
}

func (g *OfflineGenerator) DetectMood(ctx context.Context, note string) (*models.MoodDetection, error) {
	return nil, nil
}

func (g *OfflineGenerator) Chat(ctx context.Context, entry models.Entry, history []models.ChatMessage, message string) (string, error) {
	return fmt.Sprintf("Start small: %s Even five minutes counts.", entry.Task), nil
}

func (g *OfflineGenerator) WeeklyInsight(ctx context.Context, entries []models.Entry) (string, error) {
	if len(entries) == 0 {
		return "No entries this week yet. Check in tomorrow and a pattern will start to show.", nil
	}
	completed := 0
	counts := make(map[models.Mood]int)
	for _, e := range entries {
		counts[e.Mood]++
		if e.Completed {
			completed++
		}
	}
	top := entries[0].Mood
	for _, m := range models.Moods {
		if counts[m] > counts[top] {
			top = m
		}
	}
	return fmt.Sprintf("You checked in %d times and finished %d tasks. You felt %s most often.",
		len(entries), completed, strings.ToLower(top.DisplayName())), nil
}

// sameMoodRun counts how many of the most recent entries share mood.
func sameMoodRun(mood models.Mood, recent []models.Entry) int {
	n := 0
	for _, e := range recent {
		if e.Mood != mood {
			break
		}
		n++
	}
	return n
}

func hashString(s string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return h.Sum32()
}
