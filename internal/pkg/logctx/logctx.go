package logctx

import "context"

type requestKeyType struct{}

var requestKey = requestKeyType{}

// WithRequestID stores the request id in ctx
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestKey, requestID)
}

// RequestID returns the request id stored in ctx
func RequestID(ctx context.Context) (string, bool) {
	v := ctx.Value(requestKey)
	if v == nil {
		return "", false
	}
	if s, ok := v.(string); ok && s != "" {
		return s, true
	}
	return "", false
}
