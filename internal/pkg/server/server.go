package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"myapi/internal/pkg/config"
	"myapi/internal/pkg/logctx"
	"myapi/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// Server wraps Echo server
type Server struct {
	echo    *echo.Echo
	config  *config.Config
	logger  *logger.Logger
	mounted map[string]string
}

// NewEchoServer creates a new Echo server instance
func NewEchoServer(cfg *config.Config, log *logger.Logger, metrics *Metrics) *Server {
	e := echo.New()

	// Hide Echo banner
	e.HideBanner = true
	e.HidePort = true

	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	e.Validator = NewValidator()
	e.HTTPErrorHandler = ErrorHandler(log)

	setupMiddleware(e, cfg, log, metrics)

	log.Info("Echo server initialized")

	return &Server{
		echo:    e,
		config:  cfg,
		logger:  log,
		mounted: make(map[string]string),
	}
}

// setupMiddleware configures Echo middleware
func setupMiddleware(e *echo.Echo, cfg *config.Config, log *logger.Logger, metrics *Metrics) {
	e.Use(middleware.Recover())

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, HeaderIdempotencyKey},
	}))

	// Request ID middleware; the id also travels in the request context for logging
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
		RequestIDHandler: func(c echo.Context, id string) {
			c.SetRequest(c.Request().WithContext(logctx.WithRequestID(c.Request().Context(), id)))
		},
	}))

	if metrics != nil {
		e.Use(metrics.Middleware())
	}

	e.Use(requestLoggerMiddleware(log))

	e.Use(middleware.ContextTimeoutWithConfig(middleware.ContextTimeoutConfig{
		Timeout: cfg.Server.RequestTimeout,
	}))
}

// requestLoggerMiddleware creates a custom logger middleware
func requestLoggerMiddleware(log *logger.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogUserAgent: true,
		LogRequestID: true,
		LogError:     true,
		// Render the error here so the logged status is the one sent
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("request_id", v.RequestID),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.String("remote_ip", v.RemoteIP),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("user_agent", v.UserAgent),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			log.Info("HTTP request", fields...)
			return nil
		},
	})
}

// GetEcho returns the Echo instance
func (s *Server) GetEcho() *echo.Echo {
	return s.echo
}

// Mount registers routes in order. A route whose method and path are already
// registered is skipped, so the first registration wins.
func (s *Server) Mount(routes []Route) {
	for _, rt := range routes {
		key := rt.Method + " " + rt.Path
		if owner, ok := s.mounted[key]; ok {
			s.logger.Warn("Skipping duplicate route",
				zap.String("route", rt.Name),
				zap.String("method", rt.Method),
				zap.String("path", rt.Path),
				zap.String("registered_by", owner),
			)
			continue
		}
		s.mounted[key] = rt.Name

		r := s.echo.Add(rt.Method, rt.Path, rt.Handler, rt.Middleware...)
		r.Name = rt.Name
		s.logger.Debug("Route mounted",
			zap.String("route", rt.Name),
			zap.String("method", rt.Method),
			zap.String("path", rt.Path),
			zap.Int("middleware", len(rt.Middleware)),
		)
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.echo.Shutdown(ctx)
}
