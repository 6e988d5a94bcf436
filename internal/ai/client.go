package ai

import (
	"context"
	"fmt"
	json "github.com/goccy/go-json"
	"pilot/internal/models"
	"pilot/internal/providers"
	"strings"
	"time"
)

const (
	taskMaxTokens    = 2048
	chatMaxTokens    = 1024
	moodMaxTokens    = 512
	insightMaxTokens = 1024
)

// Client turns domain requests into prompts for a Backend and parses the replies.
type Client struct {
	backend     Backend
	recentLimit int
	logger      providers.Logger
	metrics     providers.MetricsProviderInterface
}

func NewClient(backend Backend, recentLimit int, logger providers.Logger, metrics providers.MetricsProviderInterface) *Client {
	if recentLimit <= 0 {
		recentLimit = 7
	}
	return &Client{
		backend:     backend,
		recentLimit: recentLimit,
		logger:      logger,
		metrics:     metrics,
	}
}

func (c *Client) GenerateTask(ctx context.Context, mood models.Mood, note *string, recent []models.Entry) (models.TaskContent, error) {
	text, err := c.complete(ctx, "generate", taskSystemPrompt, []Message{
		{Role: "user", Content: c.taskPrompt(mood, note, recent)},
	}, taskMaxTokens)
	if err != nil {
		return models.TaskContent{}, err
	}

	var content models.TaskContent
	if err := json.Unmarshal([]byte(extractJSON(text)), &content); err != nil {
		return models.TaskContent{}, fmt.Errorf("%w: %s: invalid task reply: %v", models.ErrCollaborator, c.backend.Name(), err)
	}
	if strings.TrimSpace(content.Task) == "" || strings.TrimSpace(content.Reflection) == "" {
		return models.TaskContent{}, fmt.Errorf("%w: %s: task reply is missing task or reflection", models.ErrCollaborator, c.backend.Name())
	}
	if content.Insight != nil && strings.TrimSpace(*content.Insight) == "" {
		content.Insight = nil
	}
	return content, nil
}

func (c *Client) DetectMood(ctx context.Context, note string) (*models.MoodDetection, error) {
	if strings.TrimSpace(note) == "" {
		return nil, nil
	}
	text, err := c.complete(ctx, "detect_mood", moodSystemPrompt, []Message{{Role: "user", Content: note}}, moodMaxTokens)
	if err != nil {
		return nil, err
	}

	var detection models.MoodDetection
	if err := json.Unmarshal([]byte(extractJSON(text)), &detection); err != nil {
		return nil, fmt.Errorf("%w: %s: invalid mood reply: %v", models.ErrCollaborator, c.backend.Name(), err)
	}
	if detection.Emotion == "" {
		return nil, nil
	}
	return &detection, nil
}

func (c *Client) Chat(ctx context.Context, entry models.Entry, history []models.ChatMessage, message string) (string, error) {
	messages := make([]Message, 0, len(history)+1)
	for _, m := range history {
		messages = append(messages, Message{Role: string(m.Role), Content: m.Content})
	}
	messages = append(messages, Message{Role: "user", Content: message})

	text, err := c.complete(ctx, "chat", chatSystem(entry), messages, chatMaxTokens)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (c *Client) WeeklyInsight(ctx context.Context, entries []models.Entry) (string, error) {
	var b strings.Builder
	b.WriteString("Here is my activity from the past 7 days:\n\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "Date: %s\nMood: %s\nTask: %s\nCompleted: %s\n\n", e.Date, e.Mood.DisplayName(), e.Task, yesNo(e.Completed))
	}

	text, err := c.complete(ctx, "weekly_insight", insightSystemPrompt, []Message{{Role: "user", Content: b.String()}}, insightMaxTokens)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (c *Client) complete(ctx context.Context, op, system string, messages []Message, maxTokens int) (string, error) {
	start := time.Now()
	text, err := c.backend.Complete(ctx, system, messages, maxTokens)
	c.metrics.ObserveAIDuration(op, time.Since(start), err != nil)
	if err != nil {
		c.logger.Errorf(providers.TypeAI, "%s %s failed after %s: %s", c.backend.Name(), op, time.Since(start), err)
		return "", fmt.Errorf("%w: %w", models.ErrCollaborator, err)
	}
	c.logger.Debugf(providers.TypeAI, "%s %s done in %s", c.backend.Name(), op, time.Since(start))
	return text, nil
}

func (c *Client) taskPrompt(mood models.Mood, note *string, recent []models.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Mood: %s\n", mood.DisplayName())
	if note != nil && strings.TrimSpace(*note) != "" {
		fmt.Fprintf(&b, "Context: %s\n", *note)
	}
	if len(recent) > 0 {
		b.WriteString("\nRecent history:\n")
		for i, e := range recent {
			if i == c.recentLimit {
				break
			}
			fmt.Fprintf(&b, "- %s: %s -> %q (Completed: %s)\n", e.Date, e.Mood.DisplayName(), e.Task, yesNo(e.Completed))
		}
	}
	b.WriteString("\n")
	b.WriteString(`Generate one task for today in JSON format: {"task": "...", "reflection": "...", "insight": "..."}`)
	return b.String()
}

// extractJSON pulls the JSON object out of a reply that may wrap it in a fenced block or prose.
func extractJSON(text string) string {
	if _, after, ok := strings.Cut(text, "```json"); ok {
		body, _, _ := strings.Cut(after, "```")
		return strings.TrimSpace(body)
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		return text[start : end+1]
	}
	return strings.TrimSpace(text)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
