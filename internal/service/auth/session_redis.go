package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"myapi/internal/pkg/redis/keys"

	"github.com/redis/go-redis/v9"
)

// redisSessionStore keeps sessions in Redis; expiry is enforced by key TTLs
type redisSessionStore struct {
	client redis.Cmdable
	prefix string
}

// NewRedisSessionStore creates a Redis backed session store
func NewRedisSessionStore(client redis.Cmdable, prefix string) SessionStore {
	return &redisSessionStore{client: client, prefix: prefix}
}

func (s *redisSessionStore) Create(ctx context.Context, session *Session) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session %s already expired", session.ID)
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := s.client.Set(ctx, keys.SessionKey(s.prefix, session.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s *redisSessionStore) Get(ctx context.Context, id string) (*Session, error) {
	data, err := s.client.Get(ctx, keys.SessionKey(s.prefix, id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	if session.Expired(time.Now()) {
		return nil, ErrSessionNotFound
	}
	return &session, nil
}

func (s *redisSessionStore) Delete(ctx context.Context, id string) error {
	n, err := s.client.Del(ctx, keys.SessionKey(s.prefix, id)).Result()
	if err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// PurgeExpired is a no-op; Redis evicts expired keys itself
func (s *redisSessionStore) PurgeExpired(ctx context.Context) (int, error) {
	return 0, nil
}
