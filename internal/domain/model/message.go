package model

import (
	"time"

	"github.com/oklog/ulid/v2"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is one turn in a conversation. Ordering is insertion order and is
// semantically meaningful; duplicates are valid.
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"` // "user" | "assistant" | "system"
	Content   string    `json:"content"`
	Tokens    int       `json:"tokens,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage stamps a ULID so IDs sort in append order.
func NewMessage(role, content string, tokens int) Message {
	return Message{
		ID:        ulid.Make().String(),
		Role:      role,
		Content:   content,
		Tokens:    tokens,
		Timestamp: time.Now(),
	}
}
