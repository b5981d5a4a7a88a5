package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/DarshanKumarGP/MEAL-MATE/internal/usecase"
	"github.com/redis/go-redis/v9"
)

// RedisSessionStore parks gateway sessions (upstream token pair + user
// snapshot) under a TTL. A missing session reads as nil, not an error.
type RedisSessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisSessionStore(rdb *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb, ttl: ttl}
}

func sessionKey(id string) string { return "sess:" + id }

func (s *RedisSessionStore) Put(ctx context.Context, sess *usecase.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return s.rdb.Set(ctx, sessionKey(sess.ID), data, s.ttl).Err()
}

func (s *RedisSessionStore) Get(ctx context.Context, id string) (*usecase.Session, error) {
	data, err := s.rdb.Get(ctx, sessionKey(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var sess usecase.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &sess, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, sessionKey(id)).Err()
}

var _ usecase.SessionStore = (*RedisSessionStore)(nil)
