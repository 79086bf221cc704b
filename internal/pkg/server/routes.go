package server

import (
	"github.com/labstack/echo/v4"
)

// HeaderIdempotencyKey carries the client supplied idempotency key
const HeaderIdempotencyKey = "Idempotency-Key"

// Route is one entry of the route table
type Route struct {
	Name       string
	Method     string
	Path       string
	Middleware []echo.MiddlewareFunc
	Handler    echo.HandlerFunc
}

// Guard decides whether a request may reach the handler.
// A non-nil error rejects the request and is rendered by the error handler.
type Guard interface {
	Check(c echo.Context) error
}

// GuardFunc adapts a function to Guard
type GuardFunc func(c echo.Context) error

// Check implements Guard
func (f GuardFunc) Check(c echo.Context) error {
	return f(c)
}

// GuardMiddleware runs g before the next handler
func GuardMiddleware(g Guard) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := g.Check(c); err != nil {
				return err
			}
			return next(c)
		}
	}
}
