// File: internal/usecase/chat_uc.go
package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"cortex-labs/internal/domain"
	"cortex-labs/internal/domain/model"
	"cortex-labs/internal/domain/ports/adapter"
	"cortex-labs/internal/domain/ports/repository"
	"cortex-labs/internal/infra/logging"
	"cortex-labs/internal/prompt"
)

// Compile-time check
var _ ChatUseCase = (*chatUC)(nil)

type ChatUseCase interface {
	Start(ctx context.Context, owner, modelName string) (*model.Conversation, error)
	Send(ctx context.Context, conversationID, text string) (reply string, err error)
	History(ctx context.Context, conversationID string) ([]model.Message, error)
	ClearHistory(ctx context.Context, conversationID string) error
	SetSystemPrompt(ctx context.Context, conversationID, system string) error
	ListModels(ctx context.Context) ([]string, error)
}

type chatUC struct {
	convs  repository.ConversationRepository
	ai     adapter.CompletionAdapter
	window int // last-N slice applied at assembly time; 0 = whole history
	log    *zerolog.Logger
}

func NewChatUseCase(convs repository.ConversationRepository, ai adapter.CompletionAdapter, window int, log *zerolog.Logger) *chatUC {
	return &chatUC{convs: convs, ai: ai, window: window, log: log}
}

// Start returns the owner's existing conversation or begins a fresh one.
func (c *chatUC) Start(ctx context.Context, owner, modelName string) (*model.Conversation, error) {
	if conv, err := c.convs.FindByOwner(ctx, owner); err == nil && conv != nil {
		return conv, nil
	}
	conv := model.NewConversation(uuid.NewString(), owner, modelName)
	if err := c.convs.Save(ctx, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

// Send appends the user message, flattens the history into one prompt, and
// makes a single one-shot completion call. The user message stays in the
// history even when the remote call fails, so the page re-renders intact.
func (c *chatUC) Send(ctx context.Context, conversationID, text string) (string, error) {
	conv, err := c.convs.FindByID(ctx, conversationID)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", domain.ErrEmptyMessage
	}

	defer logging.TraceDuration(c.log, "ChatUC.Send")()

	// Assemble from history as it was before this turn; Assemble appends
	// the new user line itself.
	p := prompt.Assemble(conv.Messages, conv.SystemPrompt, text, c.window)

	conv.Append(model.RoleUser, text, prompt.CountTokens(conv.Model, text))
	if err := c.convs.Save(ctx, conv); err != nil {
		return "", err
	}

	reply, err := c.ai.Complete(ctx, conv.Model, p)
	if err != nil {
		c.log.Warn().Str("conversation_id", conv.ID).Err(err).Msg("completion failed")
		return "", err
	}

	conv.Append(model.RoleAssistant, reply, prompt.CountTokens(conv.Model, reply))
	if err := c.convs.Save(ctx, conv); err != nil {
		return "", err
	}
	return reply, nil
}

func (c *chatUC) History(ctx context.Context, conversationID string) ([]model.Message, error) {
	conv, err := c.convs.FindByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	return conv.Messages, nil
}

// ClearHistory is the explicit user-initiated reset; nothing else ever
// removes messages.
func (c *chatUC) ClearHistory(ctx context.Context, conversationID string) error {
	conv, err := c.convs.FindByID(ctx, conversationID)
	if err != nil {
		return err
	}
	conv.Clear()
	return c.convs.Save(ctx, conv)
}

func (c *chatUC) SetSystemPrompt(ctx context.Context, conversationID, system string) error {
	conv, err := c.convs.FindByID(ctx, conversationID)
	if err != nil {
		return err
	}
	conv.SystemPrompt = system
	return c.convs.Save(ctx, conv)
}

func (c *chatUC) ListModels(ctx context.Context) ([]string, error) {
	return c.ai.ListModels(ctx)
}
