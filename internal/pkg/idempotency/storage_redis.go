package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisStorage implements Storage using Redis
type redisStorage struct {
	client redis.Cmdable
}

// NewRedisStorage creates a new Redis-based storage
func NewRedisStorage(client redis.Cmdable) Storage {
	return &redisStorage{client: client}
}

func (s *redisStorage) Load(ctx context.Context, key string) (*Record, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	return &record, nil
}

func (s *redisStorage) TryMarkProcessing(ctx context.Context, key, fingerprint string, ttl time.Duration) (bool, error) {
	data, err := json.Marshal(Record{
		Key:         key,
		Fingerprint: fingerprint,
		Status:      StatusProcessing,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		return false, fmt.Errorf("failed to marshal record: %w", err)
	}

	ok, err := s.client.SetNX(ctx, key, data, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx failed: %w", err)
	}
	return ok, nil
}

func (s *redisStorage) SaveResult(ctx context.Context, key, fingerprint string, result []byte, ttl time.Duration) error {
	data, err := json.Marshal(Record{
		Key:         key,
		Fingerprint: fingerprint,
		Status:      StatusCompleted,
		Result:      result,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	if err := s.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s *redisStorage) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}
	return nil
}

// Close is a no-op; the client is shared
func (s *redisStorage) Close() error {
	return nil
}
