package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, "myapi")
	now := time.Now().UTC()
	user := &User{ID: 7, Name: "Ada", Email: "ada@example.com"}
	session := &Session{ID: "sess-1", UserID: 7, CreatedAt: now, ExpiresAt: now.Add(time.Hour)}

	token, err := issuer.Issue(user, session)
	require.NoError(t, err)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", claims.SessionID)
	assert.Equal(t, "sess-1", claims.ID)
	assert.Equal(t, "ada@example.com", claims.Email)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(7), id)
}

func TestTokenIssuer_RejectsOtherIssuerAndAlgorithm(t *testing.T) {
	now := time.Now().UTC()
	user := &User{ID: 1}
	session := &Session{ID: "s", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}

	token, err := NewTokenIssuer(testSecret, "someone-else").Issue(user, session)
	require.NoError(t, err)
	_, err = NewTokenIssuer(testSecret, "myapi").Parse(token)
	assert.Error(t, err)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		SessionID: "s",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "s",
			Subject:   "1",
			Issuer:    "myapi",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = NewTokenIssuer(testSecret, "myapi").Parse(raw)
	assert.Error(t, err)
}

func TestTokenIssuer_RejectsExpired(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, "myapi")
	past := time.Now().Add(-2 * time.Hour)
	token, err := issuer.Issue(&User{ID: 1}, &Session{ID: "s", CreatedAt: past, ExpiresAt: past.Add(time.Hour)})
	require.NoError(t, err)

	_, err = issuer.Parse(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}
