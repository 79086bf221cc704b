package errorsx

import (
	"errors"
	"net/http"
)

// Kind classifies an error for the HTTP boundary
type Kind string

const (
	KindInternal      Kind = "internal_error"
	KindValidation    Kind = "validation_failed"
	KindAuth          Kind = "unauthenticated"
	KindNotFound      Kind = "not_found"
	KindRouteNotFound Kind = "route_not_found"
	KindConflict      Kind = "conflict"
	KindRateLimited   Kind = "rate_limited"
	KindUnavailable   Kind = "service_unavailable"
)

// Status returns the HTTP status code for the kind
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindAuth:
		return http.StatusUnauthorized
	case KindNotFound, KindRouteNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified error returned by services and handlers
type Error struct {
	Kind    Kind
	Message string
	// Fields holds per-field validation messages
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation builds a ValidationError
func Validation(message string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// Auth builds an AuthError wrapping the underlying cause
func Auth(message string, cause error) *Error {
	return &Error{Kind: KindAuth, Message: message, Err: cause}
}

// NotFound builds a NotFoundError for a resource
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// RouteNotFound builds the error returned when no route matches
func RouteNotFound(method, path string) *Error {
	return &Error{Kind: KindRouteNotFound, Message: "no route matches " + method + " " + path}
}

// Conflict builds a ConflictError
func Conflict(message string, cause error) *Error {
	return &Error{Kind: KindConflict, Message: message, Err: cause}
}

// RateLimited builds a RateLimitedError
func RateLimited(message string) *Error {
	return &Error{Kind: KindRateLimited, Message: message}
}

// Unavailable builds the error returned when a backend did not answer in time
func Unavailable(message string, cause error) *Error {
	return &Error{Kind: KindUnavailable, Message: message, Err: cause}
}

// KindOf returns the kind of the first classified error in the chain,
// or KindInternal when none is found
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// As extracts the classified error from the chain
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
