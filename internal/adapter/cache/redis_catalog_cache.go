package cache

import (
	"context"
	"encoding/json"
	"time"

	domain "github.com/DarshanKumarGP/MEAL-MATE/internal/entity"
	"github.com/DarshanKumarGP/MEAL-MATE/internal/usecase"
	"github.com/redis/go-redis/v9"
)

const restaurantsKey = "catalog:restaurants"

// RedisCatalogCache holds a short-lived copy of the full restaurant list.
// The list is shared across sessions and browsed on nearly every page, so
// even a small TTL takes real load off the upstream.
type RedisCatalogCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCatalogCache(rdb *redis.Client, ttl time.Duration) *RedisCatalogCache {
	return &RedisCatalogCache{rdb: rdb, ttl: ttl}
}

func (r *RedisCatalogCache) GetRestaurants(ctx context.Context) ([]domain.Restaurant, bool, error) {
	raw, err := r.rdb.Get(ctx, restaurantsKey).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var list []domain.Restaurant
	if err := json.Unmarshal(raw, &list); err != nil {
		// stale or corrupt entry, treat as a miss
		_ = r.rdb.Del(ctx, restaurantsKey).Err()
		return nil, false, nil
	}
	return list, true, nil
}

func (r *RedisCatalogCache) SetRestaurants(ctx context.Context, list []domain.Restaurant) error {
	raw, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, restaurantsKey, raw, r.ttl).Err()
}

var _ usecase.CatalogCache = (*RedisCatalogCache)(nil)
