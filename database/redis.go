package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"yamdb/internal/config"

	"github.com/redis/go-redis/v9"
)

// NewRedis creates a Redis client from REDIS_URL and checks it responds.
func NewRedis(ctx context.Context, cfg *config.Config, log *slog.Logger) (*redis.Client, error) {
	opts, err := redisOptions(cfg.RedisURL, cfg.RedisPassword)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Info("connected to Redis", "addr", opts.Addr)
	return client, nil
}

// redisOptions accepts either a redis:// URL or a bare host:port.
func redisOptions(url, password string) (*redis.Options, error) {
	if !strings.Contains(url, "://") {
		return &redis.Options{Addr: url, Password: password}, nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	if password != "" {
		opts.Password = password
	}
	return opts, nil
}
