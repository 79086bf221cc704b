package health

import (
	"myapi/internal/pkg/database"
	"myapi/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module exports the health module for FX
var Module = fx.Module("health",
	fx.Provide(NewHealthService),
)

// HealthServiceParams defines the dependencies for the health service.
// Backends are optional; only the ones present in the graph are checked.
type HealthServiceParams struct {
	fx.In

	Logger      *logger.Logger
	DB          *database.Database `optional:"true"`
	RedisClient *redis.Client      `optional:"true"`
}

// NewHealthService constructs the health service with a provider per backend
func NewHealthService(params HealthServiceParams) (*Service, error) {
	service := NewService(0)

	if params.DB != nil {
		sqlDB, err := params.DB.SQLDB()
		if err != nil {
			return nil, err
		}
		service.RegisterProvider(NewPostgresProvider("database", sqlDB))
		params.Logger.Info("Registered database health provider")
	}

	if params.RedisClient != nil {
		service.RegisterProvider(NewRedisProvider("redis", params.RedisClient, 0))
		params.Logger.Info("Registered Redis health provider")
	}

	params.Logger.Info("Health service initialized", zap.Int("providers", len(service.providers)))
	return service, nil
}
