// Package memory holds the default conversation store: a mutex-guarded map
// scoped to the process lifetime. Nothing here survives a restart.
package memory

import (
	"context"
	"sync"

	"cortex-labs/internal/domain"
	"cortex-labs/internal/domain/model"
	"cortex-labs/internal/domain/ports/repository"
)

var _ repository.ConversationRepository = (*ConversationRepo)(nil)

type ConversationRepo struct {
	mu      sync.RWMutex
	byID    map[string]*model.Conversation
	byOwner map[string]*model.Conversation
}

func NewConversationRepo() *ConversationRepo {
	return &ConversationRepo{
		byID:    make(map[string]*model.Conversation),
		byOwner: make(map[string]*model.Conversation),
	}
}

func (m *ConversationRepo) Save(_ context.Context, c *model.Conversation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[c.ID] = c
	m.byOwner[c.Owner] = c
	return nil
}

func (m *ConversationRepo) FindByID(_ context.Context, id string) (*model.Conversation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (m *ConversationRepo) FindByOwner(_ context.Context, owner string) (*model.Conversation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.byOwner[owner]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (m *ConversationRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(m.byID, id)
	delete(m.byOwner, c.Owner)
	return nil
}
