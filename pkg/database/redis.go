package database

import (
	"campus_quest_backend/internal/config"
	"campus_quest_backend/pkg/logger"
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const redisPingTimeout = 3 * time.Second

func redisOptions(cfg *config.RedisConfig) *redis.Options {
	poolSize := cfg.PoolSize
	if poolSize <= 0 {
		poolSize = 50
	}
	return &redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     poolSize,
		MinIdleConns: poolSize / 10,
	}
}

// InitRedis 返回 nil, nil 表示未启用，好友缓存将直接查库
func InitRedis(cfg *config.RedisConfig) (*redis.Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	opts := redisOptions(cfg)
	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}

	logger.Log.Info("Redis connection established", zap.String("addr", opts.Addr), zap.Int("pool_size", opts.PoolSize))
	return rdb, nil
}
