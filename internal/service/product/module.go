package product

import (
	"fmt"

	"myapi/internal/pkg/config"
	"myapi/internal/pkg/database"
	"myapi/internal/pkg/idempotency"
	"myapi/internal/pkg/logger"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module provides the product repository, service and handler
var Module = fx.Module("product",
	fx.Provide(
		provideRepository,
		provideService,
		provideHandler,
	),
)

type repositoryParams struct {
	fx.In

	Config *config.Config
	DB     *database.Database `optional:"true"`
}

// provideRepository selects the product store from storage.driver
func provideRepository(params repositoryParams) (Repository, error) {
	switch params.Config.Storage.Driver {
	case config.DriverMemory:
		return NewMemoryRepository(), nil
	case config.DriverPostgres:
		if params.DB == nil {
			return nil, fmt.Errorf("storage driver %q requires a database", params.Config.Storage.Driver)
		}
		return NewGormRepository(params.DB), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", params.Config.Storage.Driver)
	}
}

func provideService(repo Repository, log *logger.Logger) *ProductService {
	return NewProductService(repo, log.With(zap.String("component", "product")))
}

type handlerParams struct {
	fx.In

	Service     *ProductService
	Idempotency *idempotency.Service `optional:"true"`
}

func provideHandler(params handlerParams) *ProductHandler {
	return NewProductHandler(params.Service, params.Idempotency)
}
