package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/DarshanKumarGP/MEAL-MATE/internal/usecase"
	"github.com/redis/go-redis/v9"
)

// toastCap bounds the per-session queue; the oldest messages fall off.
const toastCap = 20

// RedisToastStore queues per-session toasts in a capped redis list.
type RedisToastStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisToastStore(rdb *redis.Client, ttl time.Duration) *RedisToastStore {
	return &RedisToastStore{rdb: rdb, ttl: ttl}
}

func toastKey(sessionID string) string { return "toasts:" + sessionID }

func (s *RedisToastStore) Push(ctx context.Context, sessionID string, t usecase.Toast) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshal toast: %w", err)
	}
	key := toastKey(sessionID)
	pipe := s.rdb.TxPipeline()
	pipe.RPush(ctx, key, data)
	pipe.LTrim(ctx, key, -toastCap, -1)
	pipe.Expire(ctx, key, s.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

// Drain returns the pending toasts oldest-first and empties the queue.
func (s *RedisToastStore) Drain(ctx context.Context, sessionID string) ([]usecase.Toast, error) {
	key := toastKey(sessionID)
	pipe := s.rdb.TxPipeline()
	items := pipe.LRange(ctx, key, 0, -1)
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}
	raw, err := items.Result()
	if err != nil {
		return nil, err
	}
	out := make([]usecase.Toast, 0, len(raw))
	for _, r := range raw {
		var t usecase.Toast
		if err := json.Unmarshal([]byte(r), &t); err != nil {
			continue // skip a corrupt entry rather than lose the rest
		}
		out = append(out, t)
	}
	return out, nil
}

var _ usecase.ToastStore = (*RedisToastStore)(nil)
