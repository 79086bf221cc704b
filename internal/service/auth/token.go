package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenType is the scheme clients must use in the Authorization header
const TokenType = "Bearer"

// Claims are the JWT claims carried by a session token.
// The registered ID (jti) equals SessionID.
type Claims struct {
	SessionID string `json:"sid"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	jwt.RegisteredClaims
}

// UserID returns the numeric subject
func (c *Claims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid subject %q: %w", c.Subject, err)
	}
	return uint(id), nil
}

// TokenIssuer signs and parses session tokens
type TokenIssuer struct {
	secret []byte
	issuer string
}

// NewTokenIssuer creates a HS256 token issuer
func NewTokenIssuer(secret, issuer string) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), issuer: issuer}
}

// Issue signs a token bound to the session
func (t *TokenIssuer) Issue(user *User, session *Session) (string, error) {
	claims := Claims{
		SessionID: session.ID,
		Email:     user.Email,
		Name:      user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID,
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			Issuer:    t.issuer,
			IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies the signature, issuer and expiry of a token
func (t *TokenIssuer) Parse(tokenString string) (*Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.issuer),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.ExpiresAt == nil || claims.SessionID == "" || claims.SessionID != claims.ID {
		return nil, errors.New("token is not bound to a session")
	}
	if claims.ExpiresAt.Before(time.Now()) {
		return nil, jwt.ErrTokenExpired
	}
	return &claims, nil
}
