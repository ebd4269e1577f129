package redis

import (
	"context"
	"encoding/json"
	"time"

	"cortex-labs/internal/infra/metrics"
	"cortex-labs/internal/infra/snowflake"
)

var _ snowflake.Store = (*SessionCache)(nil)

// SessionCache is the redis-backed driver for the resolver's handle store.
// The handle serializes to host/token/context, which is all a reconnecting
// process needs.
type SessionCache struct {
	client RedisClient
	ttl    time.Duration
}

func NewSessionCache(client RedisClient, ttl time.Duration) *SessionCache {
	return &SessionCache{client: client, ttl: ttl}
}

func (c *SessionCache) Get(ctx context.Context, key string) (*snowflake.Session, bool) {
	data, err := c.client.Get(ctx, "session:"+key)
	if err != nil {
		metrics.IncCacheRequest("session", "miss")
		return nil, false
	}
	var s snowflake.Session
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return nil, false
	}
	metrics.IncCacheRequest("session", "hit")
	return &s, true
}

func (c *SessionCache) Put(ctx context.Context, key string, s *snowflake.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, "session:"+key, data, c.ttl)
}

func (c *SessionCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, "session:"+key)
}
