package idempotency

import (
	"context"
	"fmt"
	"time"

	"myapi/internal/pkg/logger"
	"myapi/internal/pkg/redis/keys"

	"go.uber.org/zap"
)

// Service runs operations at most once per key within the TTL
type Service struct {
	storage    Storage
	serializer Serializer
	ttl        time.Duration
	logger     *logger.Logger
}

// NewService creates a new idempotency service
func NewService(storage Storage, serializer Serializer, ttl time.Duration, log *logger.Logger) *Service {
	if serializer == nil {
		serializer = NewJSONSerializer()
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{
		storage:    storage,
		serializer: serializer,
		ttl:        ttl,
		logger:     log,
	}
}

// Close releases the storage backend
func (s *Service) Close() error {
	return s.storage.Close()
}

// ExecuteTyped runs fn once for req. A repeated request with the same payload
// gets the stored result back and replayed is true. A failed fn releases the
// key so the client may retry.
func ExecuteTyped[T any](
	ctx context.Context,
	s *Service,
	req Request,
	fn func(ctx context.Context) (T, error),
) (result T, replayed bool, err error) {
	var zero T
	key := keys.IdempotencyKey(req.Scope, req.Key)

	record, err := s.storage.Load(ctx, key)
	if err != nil {
		return zero, false, fmt.Errorf("%w: failed to load record: %v", ErrStorageFailure, err)
	}

	if record != nil {
		if record.Fingerprint != req.Fingerprint {
			return zero, false, ErrKeyReused
		}
		switch record.Status {
		case StatusCompleted:
			var cached T
			if err := s.serializer.Unmarshal(record.Result, &cached); err != nil {
				return zero, false, fmt.Errorf("%w: failed to unmarshal cached result: %v", ErrSerializationFailure, err)
			}
			return cached, true, nil
		default:
			return zero, false, ErrAlreadyProcessing
		}
	}

	marked, err := s.storage.TryMarkProcessing(ctx, key, req.Fingerprint, s.ttl)
	if err != nil {
		return zero, false, fmt.Errorf("%w: failed to mark processing: %v", ErrStorageFailure, err)
	}
	if !marked {
		// Another request won the race
		return zero, false, ErrAlreadyProcessing
	}

	result, execErr := fn(ctx)
	if execErr != nil {
		// Use a fresh context; ctx may be the reason fn failed
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if relErr := s.storage.Release(releaseCtx, key); relErr != nil {
			s.logger.Warn("Failed to release idempotency key", zap.String("key", key), zap.Error(relErr))
		}
		return zero, false, execErr
	}

	data, err := s.serializer.Marshal(result)
	if err != nil {
		return zero, false, fmt.Errorf("%w: %v", ErrSerializationFailure, err)
	}

	if err := s.storage.SaveResult(ctx, key, req.Fingerprint, data, s.ttl); err != nil {
		// The operation already happened; report success and keep the marker until it expires
		s.logger.Error("Failed to save idempotent result", zap.String("key", key), zap.Error(err))
	}

	return result, false, nil
}
