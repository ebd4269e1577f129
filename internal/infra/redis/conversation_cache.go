package redis

import (
	"context"
	"encoding/json"
	"time"

	"cortex-labs/internal/domain/model"
	"cortex-labs/internal/infra/metrics"
)

// ConversationCache mirrors conversations into redis with a TTL so a
// restarted page server can warm-start a browser session. It is a cache in
// front of the memory repo, not a system of record.
type ConversationCache struct {
	client RedisClient
	ttl    time.Duration
}

func NewConversationCache(client RedisClient, ttl time.Duration) *ConversationCache {
	return &ConversationCache{client: client, ttl: ttl}
}

func (c *ConversationCache) Store(ctx context.Context, conv *model.Conversation) error {
	data, err := json.Marshal(conv)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, "conversation:"+conv.ID, data, c.ttl)
}

func (c *ConversationCache) Get(ctx context.Context, id string) (*model.Conversation, error) {
	data, err := c.client.Get(ctx, "conversation:"+id)
	if err != nil {
		metrics.IncCacheRequest("conversation", "miss")
		return nil, err
	}
	var conv model.Conversation
	if err := json.Unmarshal([]byte(data), &conv); err != nil {
		return nil, err
	}
	metrics.IncCacheRequest("conversation", "hit")
	return &conv, nil
}

func (c *ConversationCache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, "conversation:"+id)
}

func (c *ConversationCache) Extend(ctx context.Context, id string) error {
	return c.client.Expire(ctx, "conversation:"+id, c.ttl)
}
