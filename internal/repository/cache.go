package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/safe_route_system/internal/models"
)

// RedisScoreCache - кеш результатов оценки в Redis
type RedisScoreCache struct {
	redisClient *redis.Client
	ttl         time.Duration
}

// NewRedisScoreCache создает новый RedisScoreCache
func NewRedisScoreCache(redisClient *redis.Client, ttl time.Duration) *RedisScoreCache {
	return &RedisScoreCache{
		redisClient: redisClient,
		ttl:         ttl,
	}
}

// Get возвращает результат из кеша; промах возвращает nil, nil
func (c *RedisScoreCache) Get(ctx context.Context, key string) (*models.SafetyResult, error) {
	val, err := c.redisClient.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Промах кеша
		}
		return nil, fmt.Errorf("failed to get score from cache: %w", err)
	}

	var result models.SafetyResult
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached score: %w", err)
	}
	return &result, nil
}

// Set сохраняет результат в кеше на время ttl
func (c *RedisScoreCache) Set(ctx context.Context, key string, result *models.SafetyResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal score for cache: %w", err)
	}

	if err := c.redisClient.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set score in cache: %w", err)
	}
	return nil
}
