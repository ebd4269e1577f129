package model

import (
	"time"
)

// Conversation is the aggregate root for one user's chat history. Messages
// are append-only; they exist for the process lifetime only and are cleared
// solely by an explicit user action.
type Conversation struct {
	ID           string    `json:"id"`
	Owner        string    `json:"owner"` // per-browser-session key
	Model        string    `json:"model"`
	SystemPrompt string    `json:"system_prompt,omitempty"`
	Messages     []Message `json:"messages"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func NewConversation(id, owner, model string) *Conversation {
	return &Conversation{
		ID:        id,
		Owner:     owner,
		Model:     model,
		Messages:  make([]Message, 0, 8),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func (c *Conversation) Append(role, content string, tokens int) *Message {
	c.Messages = append(c.Messages, NewMessage(role, content, tokens))
	c.UpdatedAt = time.Now()
	return &c.Messages[len(c.Messages)-1]
}

// Recent returns the last n messages by append order, or all of them when
// n <= 0 or the history is shorter.
func (c *Conversation) Recent(n int) []Message {
	if n <= 0 || len(c.Messages) <= n {
		return c.Messages
	}
	return c.Messages[len(c.Messages)-n:]
}

// Clear drops the history but keeps the conversation (and its system
// prompt) alive.
func (c *Conversation) Clear() {
	c.Messages = c.Messages[:0]
	c.UpdatedAt = time.Now()
}
