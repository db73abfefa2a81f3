package config

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/yeremiapane/waitlist-app/utils"
)

// NewRedisClient connects to cfg.Redis.Addr. It returns nil when no address is configured or
// the server does not answer a ping, and callers run without the cache.
func NewRedisClient(cfg Config) *redis.Client {
	if cfg.Redis.Addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		utils.ErrorLogger.WithError(err).WithField("addr", cfg.Redis.Addr).Warn("redis unavailable, cache disabled")
		_ = client.Close()
		return nil
	}
	return client
}
