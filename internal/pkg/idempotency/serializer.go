package idempotency

import (
	"encoding/json"
)

// jsonSerializer implements Serializer using JSON encoding
type jsonSerializer struct{}

// NewJSONSerializer creates a new JSON-based serializer
func NewJSONSerializer() Serializer {
	return jsonSerializer{}
}

func (jsonSerializer) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonSerializer) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
