package keys

import "fmt"

// Namespaces/prefixes
const (
	PrefixSession     = "session"
	PrefixRateLimit   = "ratelimit"
	PrefixIdempotency = "idempotency"
)

// SessionKey returns the key holding a session record
// Example: session:<sessionID>
func SessionKey(prefix, sessionID string) string {
	if prefix == "" {
		prefix = PrefixSession
	}
	return fmt.Sprintf("%s:%s", prefix, sessionID)
}

// RateLimitKey returns the counter key for a limiter key and window start (unix seconds)
// Example: ratelimit:login:203.0.113.7:1735689600
func RateLimitKey(key string, windowStart int64) string {
	return fmt.Sprintf("%s:%s:%d", PrefixRateLimit, key, windowStart)
}

// IdempotencyKey returns the key holding a cached idempotent response
// Example: idempotency:products.create:<Idempotency-Key>
func IdempotencyKey(scope, key string) string {
	return fmt.Sprintf("%s:%s:%s", PrefixIdempotency, scope, key)
}
