package ai

import (
	"context"
	"fmt"
	"pilot/internal/models"
	"pilot/internal/providers"
	"pilot/internal/structures"
)

// Generator is the task-generation collaborator used by the session service.
type Generator interface {
	GenerateTask(ctx context.Context, mood models.Mood, note *string, recent []models.Entry) (models.TaskContent, error)
	// DetectMood classifies a free-text note. A nil result means nothing was detected.
	DetectMood(ctx context.Context, note string) (*models.MoodDetection, error)
	Chat(ctx context.Context, entry models.Entry, history []models.ChatMessage, message string) (string, error)
	WeeklyInsight(ctx context.Context, entries []models.Entry) (string, error)
}

// Message is one turn sent to a Backend.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Backend sends a single completion request to a hosted model and returns its text.
type Backend interface {
	Complete(ctx context.Context, system string, messages []Message, maxTokens int) (string, error)
	Name() string
}

// NewGenerator builds the generator selected by ai.provider.
func NewGenerator(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) (Generator, error) {
	switch conf.AI.Provider {
	case "", "offline":
		logger.Infof(providers.TypeAI, "Using offline task generator")
		return NewOfflineGenerator(), nil
	case "anthropic":
		if conf.AI.AnthropicKey == "" {
			return nil, fmt.Errorf("anthropic API key is required")
		}
		backend := NewAnthropicBackend(conf.AI.AnthropicKey, conf.AI.Model, conf.AI.Timeout)
		return NewClient(backend, conf.AI.RecentLimit, logger, metrics), nil
	case "openai":
		if conf.AI.OpenAIKey == "" {
			return nil, fmt.Errorf("openai API key is required")
		}
		backend := NewOpenAIBackend(conf.AI.OpenAIKey, conf.AI.Model, conf.AI.Timeout)
		return NewClient(backend, conf.AI.RecentLimit, logger, metrics), nil
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", conf.AI.Provider)
	}
}
