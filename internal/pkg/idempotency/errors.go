package idempotency

import "errors"

var (
	// ErrAlreadyProcessing indicates another request is currently handling the key
	ErrAlreadyProcessing = errors.New("idempotency: key is already being processed")

	// ErrKeyReused indicates the key was used before with a different payload
	ErrKeyReused = errors.New("idempotency: key reused with a different payload")

	// ErrStorageFailure indicates a storage operation failed
	ErrStorageFailure = errors.New("idempotency: storage operation failed")

	// ErrSerializationFailure indicates serialization/deserialization failed
	ErrSerializationFailure = errors.New("idempotency: serialization failed")
)
