package ai

import (
	"bytes"
	"context"
	"fmt"
	json "github.com/goccy/go-json"
	"io"
	"net/http"
	"time"
)

const (
	openAIURL          = "https://api.openai.com/v1/chat/completions"
	openAIDefaultModel = "gpt-4o-mini"
)

// OpenAIBackend calls the OpenAI chat completions API.
type OpenAIBackend struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

func NewOpenAIBackend(apiKey, model string, timeout time.Duration) *OpenAIBackend {
	if model == "" {
		model = openAIDefaultModel
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &OpenAIBackend{
		apiKey:   apiKey,
		model:    model,
		endpoint: openAIURL,
		client:   &http.Client{Timeout: timeout},
	}
}

func (b *OpenAIBackend) Name() string { return "openai" }

type openAIRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []Message `json:"messages"`
}

type openAIResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

func (b *OpenAIBackend) Complete(ctx context.Context, system string, messages []Message, maxTokens int) (string, error) {
	all := make([]Message, 0, len(messages)+1)
	if system != "" {
		all = append(all, Message{Role: "system", Content: system})
	}
	all = append(all, messages...)

	body, err := json.Marshal(openAIRequest{Model: b.model, MaxTokens: maxTokens, Messages: all})
	if err != nil {
		return "", fmt.Errorf("openai: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("openai: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.apiKey)

	resp, err := b.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("openai: returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var out openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("openai: failed to decode response: %w", err)
	}
	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("openai: response has no choices")
	}
	return out.Choices[0].Message.Content, nil
}
