package health

import (
	"context"
	"sync"
	"time"
)

// Service runs the registered providers and aggregates their status
type Service struct {
	timeout   time.Duration
	startedAt time.Time

	mu        sync.RWMutex
	providers []HealthProvider
}

// NewService creates a new health service; timeout bounds each provider check
func NewService(timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Service{
		timeout:   timeout,
		startedAt: time.Now(),
	}
}

// RegisterProvider registers a health provider
func (s *Service) RegisterProvider(p HealthProvider) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.providers = append(s.providers, p)
}

// Check runs all health checks in parallel.
// With no providers registered the process itself is the only dependency and reports UP.
func (s *Service) Check(ctx context.Context) ([]HealthCheckResult, HealthStatus) {
	s.mu.RLock()
	providers := append([]HealthProvider(nil), s.providers...)
	s.mu.RUnlock()

	results := make([]HealthCheckResult, len(providers))
	var wg sync.WaitGroup

	for i, provider := range providers {
		wg.Add(1)
		go func(idx int, p HealthProvider) {
			defer wg.Done()

			checkCtx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()

			resultCh := make(chan HealthCheckResult, 1)
			go func() {
				resultCh <- p.Check(checkCtx)
			}()

			select {
			case result := <-resultCh:
				results[idx] = result
			case <-checkCtx.Done():
				results[idx] = HealthCheckResult{
					Name:      p.Name(),
					Status:    StatusDown,
					CheckedAt: time.Now(),
					Error:     "health check timeout",
				}
			}
		}(i, provider)
	}

	wg.Wait()

	return results, aggregate(results)
}

// aggregate is DOWN if any check is down, DEGRADED if any is degraded, UP otherwise
func aggregate(results []HealthCheckResult) HealthStatus {
	status := StatusUp
	for _, result := range results {
		switch result.Status {
		case StatusDown:
			return StatusDown
		case StatusDegraded:
			status = StatusDegraded
		}
	}
	return status
}

// GetHealthResponse returns a formatted health response
func (s *Service) GetHealthResponse(ctx context.Context) HealthResponse {
	results, status := s.Check(ctx)
	return HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(s.startedAt).Round(time.Second).String(),
		Checks:    results,
	}
}
