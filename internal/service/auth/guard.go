package auth

import (
	"context"
	"strings"

	"myapi/internal/pkg/errorsx"

	"github.com/labstack/echo/v4"
)

type identityKey struct{}

// contextKeyIdentity is the echo context key holding the *Identity
const contextKeyIdentity = "auth.identity"

// Guard authenticates bearer tokens against the session store
type Guard struct {
	service *AuthService
}

// NewGuard creates the bearer token guard
func NewGuard(service *AuthService) *Guard {
	return &Guard{service: service}
}

// Check implements server.Guard
func (g *Guard) Check(c echo.Context) error {
	token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
	if !ok {
		return errorsx.Auth("missing bearer token", nil)
	}

	identity, err := g.service.Authenticate(c.Request().Context(), token)
	if err != nil {
		return err
	}

	c.Set(contextKeyIdentity, identity)
	c.SetRequest(c.Request().WithContext(WithIdentity(c.Request().Context(), identity)))
	return nil
}

// WithIdentity returns a copy of ctx carrying the identity
func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFrom returns the identity stored by the guard, if any
func IdentityFrom(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(*Identity)
	return identity, ok && identity != nil
}

// CurrentIdentity returns the identity of an authenticated echo request
func CurrentIdentity(c echo.Context) (*Identity, error) {
	if identity, ok := c.Get(contextKeyIdentity).(*Identity); ok && identity != nil {
		return identity, nil
	}
	if identity, ok := IdentityFrom(c.Request().Context()); ok {
		return identity, nil
	}
	return nil, errorsx.Auth("unauthenticated", nil)
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, TokenType) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
