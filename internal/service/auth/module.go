package auth

import (
	"context"
	"fmt"
	"time"

	"myapi/internal/pkg/config"
	"myapi/internal/pkg/database"
	"myapi/internal/pkg/logger"
	"myapi/internal/pkg/scheduler"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// PurgeJobName is the scheduler job that drops expired sessions
const PurgeJobName = "auth.purge_sessions"

const purgeTimeout = 30 * time.Second

// Module provides the auth service, its storage and the bearer guard
var Module = fx.Module("auth",
	fx.Provide(
		provideUserRepository,
		provideSessionStore,
		provideTokenIssuer,
		provideHasher,
		provideService,
		NewAuthHandler,
		NewGuard,
	),
	fx.Invoke(registerPurgeJob),
)

type repositoryParams struct {
	fx.In

	Config *config.Config
	DB     *database.Database `optional:"true"`
}

// provideUserRepository selects the user store from storage.driver
func provideUserRepository(params repositoryParams) (UserRepository, error) {
	switch params.Config.Storage.Driver {
	case config.DriverMemory:
		return NewMemoryUserRepository(), nil
	case config.DriverPostgres:
		if params.DB == nil {
			return nil, fmt.Errorf("storage driver %q requires a database", params.Config.Storage.Driver)
		}
		return NewGormUserRepository(params.DB), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", params.Config.Storage.Driver)
	}
}

type sessionParams struct {
	fx.In

	Config *config.Config
	Client *redis.Client `optional:"true"`
}

// provideSessionStore selects the session store from session.store
func provideSessionStore(params sessionParams) (SessionStore, error) {
	switch params.Config.Session.Store {
	case config.DriverMemory:
		return NewMemorySessionStore(), nil
	case config.DriverRedis:
		if params.Client == nil {
			return nil, fmt.Errorf("session store %q requires a redis client", params.Config.Session.Store)
		}
		return NewRedisSessionStore(params.Client, params.Config.Session.KeyPrefix), nil
	default:
		return nil, fmt.Errorf("unsupported session store: %s", params.Config.Session.Store)
	}
}

func provideTokenIssuer(cfg *config.Config) *TokenIssuer {
	return NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.Issuer)
}

func provideHasher() PasswordHasher {
	return NewBcryptHasher(0)
}

func provideService(
	cfg *config.Config,
	users UserRepository,
	sessions SessionStore,
	tokens *TokenIssuer,
	hasher PasswordHasher,
	log *logger.Logger,
) *AuthService {
	log.Info("Auth service initialized",
		zap.String("user_storage", cfg.Storage.Driver),
		zap.String("session_store", cfg.Session.Store),
		zap.Duration("session_ttl", cfg.Session.TTL),
	)
	return NewAuthService(users, sessions, tokens, hasher, cfg.Session.TTL, log.With(zap.String("component", "auth")))
}

// registerPurgeJob schedules PurgeExpired when a purge schedule is configured
func registerPurgeJob(cfg *config.Config, s *scheduler.Scheduler, svc *AuthService) error {
	if cfg.Session.PurgeSchedule == "" {
		return nil
	}
	return s.Register(scheduler.Job{
		Name:     PurgeJobName,
		Schedule: cfg.Session.PurgeSchedule,
		Timeout:  purgeTimeout,
		Handler: func(ctx context.Context) error {
			_, err := svc.PurgeExpired(ctx)
			return err
		},
	})
}
