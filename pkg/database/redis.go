package database

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/gridbase-inc/import-engine/pkg/apperrors"
	"github.com/gridbase-inc/import-engine/pkg/config"
)

// NewRedisClient creates a Redis client with the given configuration and
// verifies connectivity.
func NewRedisClient(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorageUnavailable, err)
	}

	return client, nil
}
