package rate

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryStorage implements Storage using an in-memory map
type MemoryStorage struct {
	mu   sync.Mutex
	data map[string]*counter
	done chan struct{}
	wg   sync.WaitGroup
}

type counter struct {
	value     int64
	expiresAt time.Time
}

// NewMemoryStorage creates a new in-memory storage with a background sweeper
func NewMemoryStorage() *MemoryStorage {
	s := &MemoryStorage{
		data: make(map[string]*counter),
		done: make(chan struct{}),
	}

	s.wg.Add(1)
	go s.cleanupLoop()

	return s
}

// Increment implements Storage
func (s *MemoryStorage) Increment(ctx context.Context, key string, windowStart int64, n int, ttl time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	k := fmt.Sprintf("%s:%d", key, windowStart)
	entry, exists := s.data[k]
	if !exists || now.After(entry.expiresAt) {
		entry = &counter{expiresAt: now.Add(ttl)}
		s.data[k] = entry
	}
	entry.value += int64(n)
	return entry.value, nil
}

// Close stops the sweeper
func (s *MemoryStorage) Close() error {
	close(s.done)
	s.wg.Wait()
	return nil
}

// cleanupLoop periodically removes expired entries
func (s *MemoryStorage) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.done:
			return
		}
	}
}

func (s *MemoryStorage) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for key, entry := range s.data {
		if now.After(entry.expiresAt) {
			delete(s.data, key)
		}
	}
}

// Len returns the number of entries (for testing)
func (s *MemoryStorage) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}
