package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"myapi/internal/pkg/database"
)

var (
	// ErrUserNotFound is returned when no user matches
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken is returned when the email is already registered
	ErrEmailTaken = errors.New("email already registered")
)

// UserRepository stores users
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id uint) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// gormUserRepository handles database operations for users
type gormUserRepository struct {
	base *database.BaseRepository[User]
}

// NewGormUserRepository creates a postgres backed user repository
func NewGormUserRepository(db *database.Database) UserRepository {
	return &gormUserRepository{base: database.NewBaseRepository[User](db)}
}

func (r *gormUserRepository) Create(ctx context.Context, user *User) error {
	if err := r.base.Insert(ctx, user); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *gormUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	exists, err := r.base.Exists(ctx, "email", email)
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}

func (r *gormUserRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	user, err := r.base.GetByField(ctx, "email", email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

func (r *gormUserRepository) GetByID(ctx context.Context, id uint) (*User, error) {
	user, err := r.base.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

// memoryUserRepository keeps users in process memory
type memoryUserRepository struct {
	mu      sync.RWMutex
	nextID  uint
	byID    map[uint]User
	byEmail map[string]uint
}

// NewMemoryUserRepository creates an in-memory user repository
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{
		nextID:  1,
		byID:    make(map[uint]User),
		byEmail: make(map[string]uint),
	}
}

func (r *memoryUserRepository) Create(ctx context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[user.Email]; taken {
		return ErrEmailTaken
	}

	now := time.Now().UTC()
	user.ID = r.nextID
	user.CreatedAt = now
	user.UpdatedAt = now
	r.nextID++

	r.byID[user.ID] = *user
	r.byEmail[user.Email] = user.ID
	return nil
}

func (r *memoryUserRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	user := r.byID[id]
	return &user, nil
}

func (r *memoryUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byEmail[email]
	return ok, nil
}

func (r *memoryUserRepository) GetByID(ctx context.Context, id uint) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &user, nil
}
