package health

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// PostgresProvider checks PostgreSQL database health
type PostgresProvider struct {
	name     string
	db       *sql.DB
	degraded time.Duration
}

// NewPostgresProvider creates a new Postgres health provider
func NewPostgresProvider(name string, db *sql.DB) *PostgresProvider {
	if name == "" {
		name = "postgres"
	}
	return &PostgresProvider{
		name:     name,
		db:       db,
		degraded: time.Second,
	}
}

// Name returns the provider name
func (p *PostgresProvider) Name() string {
	return p.name
}

// Check pings the database and inspects the connection pool
func (p *PostgresProvider) Check(ctx context.Context) HealthCheckResult {
	result := HealthCheckResult{
		Name:      p.name,
		CheckedAt: time.Now(),
		Details:   make(map[string]interface{}),
	}

	start := time.Now()
	err := p.db.PingContext(ctx)
	latency := time.Since(start)

	result.Details["latency_ms"] = latency.Milliseconds()

	if err != nil {
		result.Status = StatusDown
		result.Error = fmt.Sprintf("failed to ping database: %v", err)
		return result
	}

	stats := p.db.Stats()
	result.Details["open_connections"] = stats.OpenConnections
	result.Details["in_use"] = stats.InUse
	result.Details["idle"] = stats.Idle
	result.Details["wait_count"] = stats.WaitCount

	if latency > p.degraded {
		result.Status = StatusDegraded
		result.Details["message"] = "high latency detected"
		return result
	}

	if stats.MaxOpenConnections > 0 && stats.InUse >= stats.MaxOpenConnections {
		result.Status = StatusDegraded
		result.Details["message"] = "connection pool exhausted"
		return result
	}

	result.Status = StatusUp
	return result
}
