package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"myapi/internal/pkg/errorsx"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBearerToken(t *testing.T) {
	cases := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"BEARER   abc  ", "abc", true},
		{"Basic abc", "", false},
		{"Bearer", "", false},
		{"Bearer ", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		token, ok := bearerToken(tc.header)
		assert.Equal(t, tc.ok, ok, tc.header)
		assert.Equal(t, tc.token, token, tc.header)
	}
}

func TestGuard_SetsIdentity(t *testing.T) {
	s := newTestService(t)
	resp := register(t, s, "ada@example.com")
	guard := NewGuard(s)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/user", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+resp.Token)
	c := e.NewContext(req, httptest.NewRecorder())

	require.NoError(t, guard.Check(c))

	identity, err := CurrentIdentity(c)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, identity.UserID)

	fromCtx, ok := IdentityFrom(c.Request().Context())
	require.True(t, ok)
	assert.Equal(t, identity, fromCtx)
}

func TestGuard_MissingToken(t *testing.T) {
	guard := NewGuard(newTestService(t))

	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/user", nil), httptest.NewRecorder())

	err := guard.Check(c)
	assert.True(t, errorsx.IsKind(err, errorsx.KindAuth))

	_, err = CurrentIdentity(c)
	assert.True(t, errorsx.IsKind(err, errorsx.KindAuth))
}
