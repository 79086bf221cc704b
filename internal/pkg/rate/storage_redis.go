package rate

import (
	"context"
	"fmt"
	"time"

	"myapi/internal/pkg/redis/keys"

	"github.com/redis/go-redis/v9"
)

// incrementScript sets the expiry only when the window key is created
var incrementScript = redis.NewScript(`
	local value = redis.call('INCRBY', KEYS[1], ARGV[1])
	if value == tonumber(ARGV[1]) then
		redis.call('PEXPIRE', KEYS[1], ARGV[2])
	end
	return value
`)

// RedisStorage implements Storage using Redis counters, one key per window
type RedisStorage struct {
	client redis.Scripter
}

// NewRedisStorage creates a new Redis storage
func NewRedisStorage(client redis.Scripter) *RedisStorage {
	return &RedisStorage{client: client}
}

// Increment implements Storage
func (s *RedisStorage) Increment(ctx context.Context, key string, windowStart int64, n int, ttl time.Duration) (int64, error) {
	fullKey := keys.RateLimitKey(key, windowStart)

	result, err := incrementScript.Run(ctx, s.client, []string{fullKey}, n, ttl.Milliseconds()).Int64()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return result, nil
}

// Close is a no-op; the client is shared
func (s *RedisStorage) Close() error {
	return nil
}
