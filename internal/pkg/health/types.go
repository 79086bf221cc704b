package health

import (
	"context"
	"time"
)

// HealthStatus represents the health status of a component
type HealthStatus string

const (
	// StatusUp indicates the component is healthy
	StatusUp HealthStatus = "UP"
	// StatusDown indicates the component is unhealthy
	StatusDown HealthStatus = "DOWN"
	// StatusDegraded indicates the component answers but slowly or near capacity
	StatusDegraded HealthStatus = "DEGRADED"
)

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Name      string                 `json:"name"`
	Status    HealthStatus           `json:"status"`
	Details   map[string]interface{} `json:"details,omitempty"`
	CheckedAt time.Time              `json:"checked_at"`
	Error     string                 `json:"error,omitempty"`
}

// HealthProvider is the interface that all health check providers must implement
type HealthProvider interface {
	Name() string
	Check(ctx context.Context) HealthCheckResult
}

// HealthResponse is the JSON response for the health endpoint
type HealthResponse struct {
	Status    HealthStatus        `json:"status"`
	Timestamp time.Time           `json:"timestamp"`
	Uptime    string              `json:"uptime"`
	Checks    []HealthCheckResult `json:"checks"`
}
