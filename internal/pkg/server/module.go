package server

import (
	"context"

	"myapi/internal/pkg/config"
	"myapi/internal/pkg/logger"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module exports the server module for FX.
// Routes are supplied by the application as a []Route value.
var Module = fx.Module("server",
	fx.Provide(
		NewMetrics,
		NewEchoServer,
	),
	fx.Invoke(mountRoutes),
	fx.Invoke(registerHooks),
)

func mountRoutes(server *Server, routes []Route) {
	server.Mount(routes)
}

// registerHooks registers lifecycle hooks for server
func registerHooks(lc fx.Lifecycle, server *Server, cfg *config.Config, log *logger.Logger, shutdowner fx.Shutdowner) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := server.Start(); err != nil {
					log.Error("Server error", zap.Error(err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
			defer cancel()

			log.Info("Stopping server")
			return server.Shutdown(shutdownCtx)
		},
	})
}
