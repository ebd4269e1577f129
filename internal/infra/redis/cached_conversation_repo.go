package redis

import (
	"context"

	"cortex-labs/internal/domain/model"
	"cortex-labs/internal/domain/ports/repository"
)

var _ repository.ConversationRepository = (*CachedConversationRepo)(nil)

// CachedConversationRepo layers the redis mirror over an inner repository.
// Reads try the cache first; every write goes to both. A cache failure never
// fails the operation.
type CachedConversationRepo struct {
	inner repository.ConversationRepository
	cache *ConversationCache
}

func NewCachedConversationRepo(inner repository.ConversationRepository, cache *ConversationCache) *CachedConversationRepo {
	return &CachedConversationRepo{inner: inner, cache: cache}
}

func (r *CachedConversationRepo) Save(ctx context.Context, conv *model.Conversation) error {
	if err := r.inner.Save(ctx, conv); err != nil {
		return err
	}
	_ = r.cache.Store(ctx, conv)
	return nil
}

func (r *CachedConversationRepo) FindByID(ctx context.Context, id string) (*model.Conversation, error) {
	if conv, err := r.cache.Get(ctx, id); err == nil {
		_ = r.cache.Extend(ctx, id)
		return conv, nil
	}
	conv, err := r.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	_ = r.cache.Store(ctx, conv)
	return conv, nil
}

// FindByOwner goes straight to the inner repository; the cache keys by
// conversation ID only.
func (r *CachedConversationRepo) FindByOwner(ctx context.Context, owner string) (*model.Conversation, error) {
	return r.inner.FindByOwner(ctx, owner)
}

func (r *CachedConversationRepo) Delete(ctx context.Context, id string) error {
	_ = r.cache.Delete(ctx, id)
	return r.inner.Delete(ctx, id)
}
