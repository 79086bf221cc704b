package rate

import (
	"context"
	"fmt"

	"myapi/internal/pkg/config"
	"myapi/internal/pkg/logger"
	"myapi/internal/pkg/server"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module exports the rate limiter module for FX
var Module = fx.Module("rate",
	fx.Provide(NewLimiterFromConfig),
	fx.Invoke(registerHooks),
)

// LimiterParams holds dependencies for creating a limiter
type LimiterParams struct {
	fx.In

	Config      *config.Config
	Logger      *logger.Logger
	Metrics     *server.Metrics
	RedisClient *redis.Client `optional:"true"`
}

// NewLimiterFromConfig creates the limiter guarding the credential endpoints
func NewLimiterFromConfig(params LimiterParams) (Limiter, error) {
	cfg := params.Config.RateLimit

	var storage Storage
	switch cfg.Storage {
	case config.DriverMemory:
		storage = NewMemoryStorage()
	case config.DriverRedis:
		if params.RedisClient == nil {
			return nil, fmt.Errorf("rate limit storage %q requires a redis client", cfg.Storage)
		}
		storage = NewRedisStorage(params.RedisClient)
	default:
		return nil, fmt.Errorf("unsupported rate limit storage: %s", cfg.Storage)
	}

	params.Logger.Info("Rate limiter initialized",
		zap.Int("requests", cfg.Requests),
		zap.Duration("window", cfg.Window),
		zap.String("storage", cfg.Storage),
	)

	return New(
		Config{Limit: cfg.Requests, Window: cfg.Window, FailOpen: cfg.FailOpen},
		storage,
		WithLogger(params.Logger.With(zap.String("component", "rate"))),
		WithMetrics(NewPrometheusMetrics(params.Metrics.Registry())),
	)
}

// registerHooks registers lifecycle hooks
func registerHooks(lc fx.Lifecycle, limiter Limiter, log *logger.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info("Closing rate limiter")
			return limiter.Close()
		},
	})
}
