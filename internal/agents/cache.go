package agents

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// CachedLookup fronts assistant-id -> agent resolution with a short-TTL Redis
// cache. The webhook path resolves the same handful of assistants over and
// over; a stale read only delays visibility of a renamed agent, never of a
// new one (misses always fall through).
type CachedLookup struct {
	repo *Repository
	rdb  *redis.Client
	ttl  time.Duration
}

func NewCachedLookup(repo *Repository, rdb *redis.Client, ttl time.Duration) *CachedLookup {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &CachedLookup{repo: repo, rdb: rdb, ttl: ttl}
}

func cacheKey(assistantID string) string {
	return "agent:assistant:" + assistantID
}

func (c *CachedLookup) FindByAssistantID(ctx context.Context, assistantID string) (Agent, error) {
	if c.rdb != nil {
		raw, err := c.rdb.Get(ctx, cacheKey(assistantID)).Bytes()
		if err == nil {
			var a Agent
			if json.Unmarshal(raw, &a) == nil && a.VapiAssistantID == assistantID {
				return a, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			// Cache trouble is not a lookup failure; fall through to the store.
			_ = err
		}
	}

	a, err := c.repo.FindByAssistantID(ctx, assistantID)
	if err != nil {
		return Agent{}, err
	}

	if c.rdb != nil {
		if raw, err := json.Marshal(a); err == nil {
			_ = c.rdb.Set(ctx, cacheKey(assistantID), raw, c.ttl).Err()
		}
	}
	return a, nil
}
