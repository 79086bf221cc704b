package catalog

import (
	"myapi/internal/pkg/config"
	"myapi/internal/pkg/database"
	"myapi/internal/pkg/health"
	"myapi/internal/pkg/idempotency"
	"myapi/internal/pkg/logger"
	"myapi/internal/pkg/rate"
	"myapi/internal/pkg/redis"
	"myapi/internal/pkg/scheduler"
	"myapi/internal/pkg/server"
	"myapi/internal/service/auth"
	"myapi/internal/service/product"

	"go.uber.org/fx"
)

// NewApp composes the catalog API for cfg. Backends are only wired when a
// component is configured to use them.
func NewApp(cfg *config.Config) fx.Option {
	opts := []fx.Option{
		config.Supply(cfg),
		logger.Module,
		server.Module,
		health.Module,
		scheduler.Module,

		auth.Module,
		product.Module,

		fx.Provide(BuildRoutes),
	}

	if cfg.UsesPostgres() {
		opts = append(opts, database.Module)
	}
	if cfg.UsesRedis() {
		opts = append(opts, redis.Module)
	}
	if cfg.RateLimit.Enabled {
		opts = append(opts, rate.Module)
	}
	if cfg.Idempotency.Enabled {
		opts = append(opts, idempotency.Module)
	}

	return fx.Options(opts...)
}

// NewMigrationApp provides only what the migrate command needs: the
// database, no server and no background jobs
func NewMigrationApp(cfg *config.Config) fx.Option {
	return fx.Options(
		config.Supply(cfg),
		logger.Module,
		database.Module,
	)
}
