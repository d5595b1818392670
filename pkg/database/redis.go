package database

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"

	"uigen-go/internal/config"
	"uigen-go/pkg/log"
)

// RDB 是全局的 Redis 客户端，未配置或不可用时为 nil（不启用缓存）。
var RDB *redis.Client

// InitRedis 初始化 Redis 客户端连接。Redis 只用作缓存，连不上时降级而不是退出。
func InitRedis(cfg config.RedisConfig) {
	if cfg.Addr == "" {
		log.Info("Redis 未配置，版本缓存已关闭")
		return
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Error("failed to connect to redis, version cache disabled", err)
		_ = client.Close()
		return
	}

	RDB = client
	log.Info("Redis client connected successfully")
}
