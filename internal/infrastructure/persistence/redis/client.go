package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/boipara/bookstore/internal/infrastructure/config"
)

// Key prefixes. Everything this service writes lives under "boipara:".
const (
	keyPrefix       = "boipara:"
	blacklistPrefix = keyPrefix + "blacklist:"
	suggestPrefix   = keyPrefix + "suggest:"
	suggestOrderKey = keyPrefix + "suggest-index"
	historyPrefix   = keyPrefix + "history:"
	popularityKey   = keyPrefix + "popular"
)

// NewClient connects and pings the configured Redis.
func NewClient(ctx context.Context, cfg config.RedisConfig, log *zap.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	log.Info("redis ready", zap.String("addr", cfg.Addr()))
	return client, nil
}
