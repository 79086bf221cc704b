package idempotency

import (
	"context"
	"fmt"

	"myapi/internal/pkg/config"
	"myapi/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module provides the idempotency service with the configured storage
var Module = fx.Module("idempotency",
	fx.Provide(
		NewJSONSerializer,
		provideStorage,
		provideService,
	),
	fx.Invoke(registerHooks),
)

type storageParams struct {
	fx.In

	Config *config.Config
	Client *redis.Client `optional:"true"`
}

// provideStorage creates the storage selected by idempotency.storage
func provideStorage(params storageParams) (Storage, error) {
	switch params.Config.Idempotency.Storage {
	case config.DriverMemory:
		return NewMemoryStorage(), nil
	case config.DriverRedis:
		if params.Client == nil {
			return nil, fmt.Errorf("idempotency storage %q requires a redis client", params.Config.Idempotency.Storage)
		}
		return NewRedisStorage(params.Client), nil
	default:
		return nil, fmt.Errorf("unsupported idempotency storage: %s", params.Config.Idempotency.Storage)
	}
}

func provideService(cfg *config.Config, storage Storage, serializer Serializer, log *logger.Logger) *Service {
	log.Info("Idempotency service initialized",
		zap.String("storage", cfg.Idempotency.Storage),
		zap.Duration("ttl", cfg.Idempotency.TTL),
	)
	return NewService(storage, serializer, cfg.Idempotency.TTL, log.With(zap.String("component", "idempotency")))
}

func registerHooks(lc fx.Lifecycle, svc *Service) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return svc.Close()
		},
	})
}
