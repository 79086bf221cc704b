package idempotency

import (
	"context"
	"time"
)

// Status represents the state of an idempotency record
type Status string

const (
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
)

// Record represents an idempotency record with state and result
type Record struct {
	Key         string    `json:"key"`
	Fingerprint string    `json:"fingerprint"`
	Status      Status    `json:"status"`
	Result      []byte    `json:"result,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Storage defines the interface for idempotency storage backends
type Storage interface {
	// Load retrieves a record by key, returns nil if not exists
	Load(ctx context.Context, key string) (*Record, error)

	// TryMarkProcessing atomically claims key; false means another caller holds it
	TryMarkProcessing(ctx context.Context, key, fingerprint string, ttl time.Duration) (bool, error)

	// SaveResult stores the completed result, replacing the processing marker
	SaveResult(ctx context.Context, key, fingerprint string, result []byte, ttl time.Duration) error

	// Release drops the key so a failed operation can be retried
	Release(ctx context.Context, key string) error

	Close() error
}

// Serializer defines the interface for serializing/deserializing results
type Serializer interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// Request identifies one idempotent operation
type Request struct {
	// Scope namespaces keys, e.g. per operation and caller
	Scope string
	// Key is the client supplied Idempotency-Key
	Key string
	// Fingerprint identifies the payload; reusing a key with another payload is rejected
	Fingerprint string
}
