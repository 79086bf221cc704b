package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"myapi/internal/pkg/errorsx"
	"myapi/internal/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrInvalidCredentials is returned when the email or password is wrong
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService handles authentication business logic
type AuthService struct {
	users    UserRepository
	sessions SessionStore
	tokens   *TokenIssuer
	hasher   PasswordHasher
	ttl      time.Duration
	logger   *logger.Logger
	now      func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService creates a new auth service
func NewAuthService(
	users UserRepository,
	sessions SessionStore,
	tokens *TokenIssuer,
	hasher PasswordHasher,
	ttl time.Duration,
	log *logger.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		hasher:   hasher,
		ttl:      ttl,
		logger:   log,
		now:      time.Now,
	}
}

// Register creates a user account and signs the new user in
func (s *AuthService) Register(ctx context.Context, dto RegisterDTO, client ClientInfo) (*TokenResponse, error) {
	dto.Normalize()

	taken, err := s.users.ExistsByEmail(ctx, dto.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, emailTaken()
	}

	hashed, err := s.hasher.Hash(dto.Password)
	if err != nil {
		if errors.Is(err, ErrPasswordTooLong) {
			return nil, errorsx.Validation("the given data was invalid", map[string]string{
				"password": "must be at most 72 bytes",
			})
		}
		return nil, err
	}

	user := &User{
		Name:         dto.Name,
		Email:        dto.Email,
		PasswordHash: hashed,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// A concurrent registration can still win between the check and the insert
		if errors.Is(err, ErrEmailTaken) {
			return nil, emailTaken()
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.WithContext(ctx).Info("User registered", zap.Uint("user_id", user.ID))
	return s.openSession(ctx, user, client)
}

// Login verifies credentials and issues a token for a new session
func (s *AuthService) Login(ctx context.Context, dto LoginDTO, client ClientInfo) (*TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, NormalizeEmail(dto.Email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			// Spend the same bcrypt work as a real comparison
			_ = s.hasher.Compare(s.dummy(), dto.Password)
			return nil, errorsx.Auth("invalid credentials", nil)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, dto.Password); err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return nil, errorsx.Auth("invalid credentials", nil)
		}
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}

	return s.openSession(ctx, user, client)
}

// Authenticate resolves a bearer token to the identity of its live session
func (s *AuthService) Authenticate(ctx context.Context, token string) (*Identity, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, errorsx.Auth("invalid token", err)
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, errorsx.Auth("invalid token", err)
	}

	session, err := s.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, errorsx.Auth("session expired or revoked", err)
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session.UserID != userID {
		return nil, errorsx.Auth("invalid token", errors.New("session belongs to another user"))
	}

	return &Identity{
		UserID:    userID,
		Email:     claims.Email,
		Name:      claims.Name,
		SessionID: session.ID,
	}, nil
}

// Logout revokes the session behind the identity
func (s *AuthService) Logout(ctx context.Context, identity *Identity) error {
	if err := s.sessions.Delete(ctx, identity.SessionID); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return errorsx.Auth("session expired or revoked", err)
		}
		return fmt.Errorf("failed to delete session: %w", err)
	}

	s.logger.WithContext(ctx).Info("User logged out",
		zap.Uint("user_id", identity.UserID),
		zap.String("session_id", identity.SessionID),
	)
	return nil
}

// Me returns the user behind the identity
func (s *AuthService) Me(ctx context.Context, identity *Identity) (*User, error) {
	user, err := s.users.GetByID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, errorsx.Auth("user no longer exists", err)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// PurgeExpired removes expired sessions from the store
func (s *AuthService) PurgeExpired(ctx context.Context) (int, error) {
	n, err := s.sessions.PurgeExpired(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to purge sessions: %w", err)
	}
	if n > 0 {
		s.logger.Info("Purged expired sessions", zap.Int("count", n))
	}
	return n, nil
}

func (s *AuthService) openSession(ctx context.Context, user *User, client ClientInfo) (*TokenResponse, error) {
	now := s.now().UTC()
	session := &Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
		IP:        client.IP,
		UserAgent: client.UserAgent,
	}

	token, err := s.tokens.Issue(user, session)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	return &TokenResponse{
		Token:     token,
		TokenType: TokenType,
		ExpiresAt: session.ExpiresAt,
		User:      user.ToUserResponse(),
	}, nil
}

func emailTaken() error {
	return errorsx.Validation("the given data was invalid", map[string]string{
		"email": "has already been taken",
	})
}

func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash(uuid.NewString())
		if err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}
