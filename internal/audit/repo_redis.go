package audit

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

const defaultListKey = "webhook:activity"

// RedisRepo stores the delivery log as a capped Redis list: newest first,
// trimmed to maxEntries on every append. This survives process restarts,
// unlike an in-memory ring, and stays bounded.
type RedisRepo struct {
	rdb        *redis.Client
	key        string
	maxEntries int64
}

func NewRedisRepo(rdb *redis.Client, maxEntries int64) *RedisRepo {
	if maxEntries <= 0 {
		maxEntries = 100
	}
	return &RedisRepo{rdb: rdb, key: defaultListKey, maxEntries: maxEntries}
}

func (r *RedisRepo) Append(ctx context.Context, e Event) error {
	raw, err := json.Marshal(e)
	if err != nil {
		return err
	}
	pipe := r.rdb.TxPipeline()
	pipe.LPush(ctx, r.key, raw)
	pipe.LTrim(ctx, r.key, 0, r.maxEntries-1)
	_, err = pipe.Exec(ctx)
	return err
}

func (r *RedisRepo) Recent(ctx context.Context, limit int) ([]Event, error) {
	raws, err := r.rdb.LRange(ctx, r.key, 0, int64(limit)-1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]Event, 0, len(raws))
	for _, raw := range raws {
		var e Event
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			continue // skip entries written by older versions
		}
		out = append(out, e)
	}
	return out, nil
}
