package models

import "time"

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

type ChatMessage struct {
	ID        string      `json:"id"`
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
}

// ChatThread holds the conversation about one day's task. TaskDate joins it to Entry.Date.
type ChatThread struct {
	ID        string        `json:"id"`
	TaskDate  string        `json:"task_date"`
	Messages  []ChatMessage `json:"messages"`
	CreatedAt time.Time     `json:"created_at"`
}

func (t ChatThread) Clone() ChatThread {
	c := t
	c.Messages = append([]ChatMessage(nil), t.Messages...)
	return c
}
