package redis

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"myapi/internal/pkg/config"
	"myapi/internal/pkg/logger"
	"myapi/internal/pkg/retry"

	redisv9 "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module exports the redis module for FX
var Module = fx.Module("redis",
	fx.Provide(NewRedisClient),
	fx.Invoke(registerHooks),
)

// connectAttempts bounds the startup ping loop
const connectAttempts = 5

// NewRedisClient constructs a shared Redis client and waits until it answers PING
func NewRedisClient(cfg *config.Config, log *logger.Logger) (*redisv9.Client, error) {
	opts := &redisv9.Options{
		Addr:         cfg.Redis.Addr,
		Username:     cfg.Redis.Username,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	}
	if cfg.Redis.TLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redisv9.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := retry.Run(ctx, retry.ConnectPolicy(connectAttempts), func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}, func(attempt int, err error, delay time.Duration) {
		log.Warn("Redis not reachable, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
	})
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	log.Info("Redis client initialized", zap.String("addr", cfg.Redis.Addr))
	return client, nil
}

func registerHooks(lc fx.Lifecycle, rdb *redisv9.Client, log *logger.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info("Closing Redis client")
			return rdb.Close()
		},
	})
}
