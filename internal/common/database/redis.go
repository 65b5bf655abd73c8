// internal/common/database/redis.go
package database

import (
	"context"
	"fmt"
	"time"

	"fitengine-workers/internal/common/config"

	"github.com/redis/go-redis/v9"
)

// RedisClient fronts the cache used for tenant API key lookups and
// product snapshots. Workers take the raw *redis.Client so they can
// use per-key TTLs.
type RedisClient struct {
	Client *redis.Client
}

func NewRedis(cfg config.RedisConfig) (*RedisClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	return &RedisClient{Client: rdb}, nil
}

func (c *RedisClient) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func (c *RedisClient) Close() error {
	if c.Client != nil {
		return c.Client.Close()
	}
	return nil
}

// GetClient exposes the raw client for handlers that need command-level
// access.
func (c *RedisClient) GetClient() *redis.Client {
	return c.Client
}
