package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/aquiresolve/admin-api/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// NewRedisClient connects to redis and verifies the connection
func NewRedisClient(ctx context.Context, cfg *config.RedisConfig, logger *logrus.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	logger.WithField("addr", cfg.Addr).Info("Successfully connected to redis")
	return client, nil
}
