package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"uigen-go/internal/model"
)

// VersionCache 缓存按 ID 查询的版本。版本行不可变，所以不需要失效逻辑。
type VersionCache interface {
	Get(ctx context.Context, id uint64) (*model.Version, error)
	Set(ctx context.Context, v *model.Version) error
}

type redisVersionCache struct {
	redisClient *redis.Client
	ttl         time.Duration
}

// NewVersionCache 创建基于 Redis 的缓存，client 为 nil 时返回 nil（调用方视为不启用缓存）。
func NewVersionCache(redisClient *redis.Client, ttl time.Duration) VersionCache {
	if redisClient == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &redisVersionCache{redisClient: redisClient, ttl: ttl}
}

func versionKey(id uint64) string {
	return fmt.Sprintf("version:%d", id)
}

// Get 命中时返回记录，未命中返回 (nil, nil)。
func (c *redisVersionCache) Get(ctx context.Context, id uint64) (*model.Version, error) {
	data, err := c.redisClient.Get(ctx, versionKey(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached version: %w", err)
	}
	var v model.Version
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached version: %w", err)
	}
	return v.WithExcerpt(), nil
}

func (c *redisVersionCache) Set(ctx context.Context, v *model.Version) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal version: %w", err)
	}
	if err := c.redisClient.Set(ctx, versionKey(v.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache version: %w", err)
	}
	return nil
}
