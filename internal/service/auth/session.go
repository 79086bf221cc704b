package auth

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrSessionNotFound is returned for unknown, expired or deleted sessions
var ErrSessionNotFound = errors.New("session not found")

// SessionStore keeps the server side state of issued tokens
type SessionStore interface {
	Create(ctx context.Context, session *Session) error
	// Get returns ErrSessionNotFound if the session is absent or expired
	Get(ctx context.Context, id string) (*Session, error)
	// Delete returns ErrSessionNotFound if the session is absent
	Delete(ctx context.Context, id string) error
	// PurgeExpired removes expired sessions and returns how many were removed
	PurgeExpired(ctx context.Context) (int, error)
}

// memorySessionStore keeps sessions in process memory
type memorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	now      func() time.Time
}

// NewMemorySessionStore creates an in-memory session store
func NewMemorySessionStore() SessionStore {
	return &memorySessionStore{
		sessions: make(map[string]Session),
		now:      time.Now,
	}
}

func (s *memorySessionStore) Create(ctx context.Context, session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.ID] = *session
	return nil
}

func (s *memorySessionStore) Get(ctx context.Context, id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok || session.Expired(s.now()) {
		return nil, ErrSessionNotFound
	}
	return &session, nil
}

func (s *memorySessionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

func (s *memorySessionStore) PurgeExpired(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	purged := 0
	for id, session := range s.sessions {
		if session.Expired(now) {
			delete(s.sessions, id)
			purged++
		}
	}
	return purged, nil
}
