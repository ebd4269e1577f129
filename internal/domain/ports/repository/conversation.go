package repository

import (
	"context"

	"cortex-labs/internal/domain/model"
)

// -----------------------------
// Conversations
// -----------------------------

// ConversationRepository holds per-owner chat histories. Implementations
// live in memory for the process lifetime; nothing is persisted.
type ConversationRepository interface {
	Save(ctx context.Context, c *model.Conversation) error
	FindByID(ctx context.Context, id string) (*model.Conversation, error)
	FindByOwner(ctx context.Context, owner string) (*model.Conversation, error)
	Delete(ctx context.Context, id string) error
}
