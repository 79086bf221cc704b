package idempotency

import (
	"context"
	"sync"
	"time"
)

// memoryRecord wraps a record with expiry information
type memoryRecord struct {
	record    Record
	expiresAt time.Time
}

// memoryStorage implements Storage in process memory; keys are not shared between replicas
type memoryStorage struct {
	mu      sync.RWMutex
	records map[string]*memoryRecord
	done    chan struct{}
	once    sync.Once
}

// NewMemoryStorage creates a new in-memory storage
func NewMemoryStorage() Storage {
	s := &memoryStorage{
		records: make(map[string]*memoryRecord),
		done:    make(chan struct{}),
	}
	go s.cleanup()
	return s
}

// cleanup periodically removes expired records
func (s *memoryStorage) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			now := time.Now()
			for key, mr := range s.records {
				if now.After(mr.expiresAt) {
					delete(s.records, key)
				}
			}
			s.mu.Unlock()
		case <-s.done:
			return
		}
	}
}

func (s *memoryStorage) Load(ctx context.Context, key string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	mr, exists := s.records[key]
	if !exists || time.Now().After(mr.expiresAt) {
		return nil, nil
	}

	record := mr.record
	return &record, nil
}

func (s *memoryStorage) TryMarkProcessing(ctx context.Context, key, fingerprint string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if mr, exists := s.records[key]; exists && now.Before(mr.expiresAt) {
		return false, nil
	}

	s.records[key] = &memoryRecord{
		record: Record{
			Key:         key,
			Fingerprint: fingerprint,
			Status:      StatusProcessing,
			CreatedAt:   now,
		},
		expiresAt: now.Add(ttl),
	}
	return true, nil
}

func (s *memoryStorage) SaveResult(ctx context.Context, key, fingerprint string, result []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.records[key] = &memoryRecord{
		record: Record{
			Key:         key,
			Fingerprint: fingerprint,
			Status:      StatusCompleted,
			Result:      result,
			CreatedAt:   now,
		},
		expiresAt: now.Add(ttl),
	}
	return nil
}

func (s *memoryStorage) Release(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, key)
	return nil
}

func (s *memoryStorage) Close() error {
	s.once.Do(func() { close(s.done) })
	return nil
}
