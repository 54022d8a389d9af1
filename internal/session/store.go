// Package session provides the in-process session store.
// The store exclusively owns session state: an opaque token issued at login
// maps to the authenticated user's id until logout destroys it. Sessions
// carry no server-side expiry; the cookie max-age is the only lifetime.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/prn-tf/zettel-notes/internal/domain"
)

// Store holds active sessions keyed by token.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*domain.Session),
	}
}

// Create issues a new session for the given user and returns it.
// Tokens are random UUIDs; collisions are not a practical concern.
func (s *Store) Create(userID int64) *domain.Session {
	sess := &domain.Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.sessions[sess.Token] = sess
	s.mu.Unlock()

	return sess
}

// Get resolves a token to its session.
// Returns domain.ErrSessionNotFound for unknown or destroyed tokens.
func (s *Store) Get(token string) (*domain.Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return sess, nil
}

// Destroy removes the session for the given token.
// Destroying an unknown token is a no-op, so logout is idempotent.
func (s *Store) Destroy(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// Len returns the number of active sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
