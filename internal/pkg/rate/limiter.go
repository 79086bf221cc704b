package rate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"myapi/internal/pkg/logger"

	"go.uber.org/zap"
)

var (
	// ErrInvalidConfig indicates invalid configuration
	ErrInvalidConfig = errors.New("invalid rate limiter configuration")
	// ErrStorageUnavailable indicates the storage backend is unavailable
	ErrStorageUnavailable = errors.New("storage backend unavailable")
)

// Limiter decides whether a request identified by key may proceed
type Limiter interface {
	Allow(ctx context.Context, key string) (*Result, error)
	Close() error
}

// Config holds rate limiter configuration
type Config struct {
	// Limit is the number of requests allowed per window
	Limit int
	// Window is the length of a fixed window
	Window time.Duration
	// FailOpen allows requests when storage fails instead of rejecting them
	FailOpen bool
}

// Validate validates the configuration
func (c Config) Validate() error {
	if c.Limit <= 0 || c.Window <= 0 {
		return ErrInvalidConfig
	}
	return nil
}

// Result contains the result of a rate limit check
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
	ResetAt    time.Time
}

// Storage keeps per-window counters
type Storage interface {
	// Increment atomically adds n to the counter of key in the window starting
	// at windowStart (unix seconds) and returns the new value
	Increment(ctx context.Context, key string, windowStart int64, n int, ttl time.Duration) (int64, error)
	Close() error
}

// fixedWindow counts requests per key in fixed, aligned windows
type fixedWindow struct {
	config  Config
	storage Storage
	logger  *logger.Logger
	metrics MetricsCollector
	now     func() time.Time
}

// Option is a functional option for configuring a Limiter
type Option func(*fixedWindow)

// WithLogger sets the logger for the limiter
func WithLogger(log *logger.Logger) Option {
	return func(l *fixedWindow) {
		l.logger = log
	}
}

// WithMetrics sets the metrics collector for the limiter
func WithMetrics(metrics MetricsCollector) Option {
	return func(l *fixedWindow) {
		l.metrics = metrics
	}
}

// New creates a fixed window rate limiter
func New(config Config, storage Storage, opts ...Option) (Limiter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	l := &fixedWindow{
		config:  config,
		storage: storage,
		logger:  logger.NewNop(),
		metrics: NoOpMetrics{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Allow implements Limiter
func (l *fixedWindow) Allow(ctx context.Context, key string) (*Result, error) {
	now := l.now()
	windowStart := now.Truncate(l.config.Window)
	resetAt := windowStart.Add(l.config.Window)

	count, err := l.storage.Increment(ctx, key, windowStart.Unix(), 1, l.config.Window)
	if err != nil {
		l.logger.Warn("Rate limit storage failed", zap.String("key", key), zap.Error(err))
		if l.config.FailOpen {
			l.metrics.RecordFailOpen()
			return &Result{Allowed: true, Limit: l.config.Limit, Remaining: l.config.Limit, ResetAt: resetAt}, nil
		}
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	remaining := l.config.Limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	result := &Result{
		Allowed:   count <= int64(l.config.Limit),
		Limit:     l.config.Limit,
		Remaining: remaining,
		ResetAt:   resetAt,
	}
	if !result.Allowed {
		result.RetryAfter = resetAt.Sub(now)
	}

	l.metrics.RecordRequest(result.Allowed)
	return result, nil
}

// Close implements Limiter
func (l *fixedWindow) Close() error {
	return l.storage.Close()
}
