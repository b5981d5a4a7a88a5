package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/DarshanKumarGP/MEAL-MATE/internal/usecase"
	"github.com/redis/go-redis/v9"
)

// RedisWorkflowStore holds the one checkout workflow a session may have
// in flight, surviving gateway restarts for the length of its TTL.
type RedisWorkflowStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisWorkflowStore(rdb *redis.Client, ttl time.Duration) *RedisWorkflowStore {
	return &RedisWorkflowStore{rdb: rdb, ttl: ttl}
}

func workflowKey(sessionID string) string { return "wf:" + sessionID }

func (s *RedisWorkflowStore) Save(ctx context.Context, sessionID string, wf *usecase.Workflow) error {
	data, err := json.Marshal(wf)
	if err != nil {
		return fmt.Errorf("marshal workflow: %w", err)
	}
	return s.rdb.Set(ctx, workflowKey(sessionID), data, s.ttl).Err()
}

func (s *RedisWorkflowStore) Load(ctx context.Context, sessionID string) (*usecase.Workflow, error) {
	data, err := s.rdb.Get(ctx, workflowKey(sessionID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var wf usecase.Workflow
	if err := json.Unmarshal(data, &wf); err != nil {
		return nil, fmt.Errorf("unmarshal workflow: %w", err)
	}
	return &wf, nil
}

func (s *RedisWorkflowStore) Clear(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, workflowKey(sessionID)).Err()
}

var _ usecase.WorkflowStore = (*RedisWorkflowStore)(nil)
