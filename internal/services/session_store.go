package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned for unknown and expired sessions.
var ErrSessionNotFound = errors.New("session not found")

type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
}

// SessionStore keeps server-side login sessions. A session stays valid until
// it expires or is deleted.
type SessionStore interface {
	Create(ctx context.Context, userID string) (*Session, error)
	// Get returns the user id of a live session.
	Get(ctx context.Context, sessionID string) (string, error)
	Delete(ctx context.Context, sessionID string) error
}

type memorySessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]Session
}

func NewMemorySessionStore(ttl time.Duration) SessionStore {
	return newMemorySessionStore(ttl, time.Now)
}

func newMemorySessionStore(ttl time.Duration, now func() time.Time) *memorySessionStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &memorySessionStore{ttl: ttl, now: now, sessions: map[string]Session{}}
}

func (s *memorySessionStore) Create(ctx context.Context, userID string) (*Session, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, errors.New("session requires a user id")
	}
	sess := Session{ID: uuid.NewString(), UserID: userID, ExpiresAt: s.now().Add(s.ttl)}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	s.sessions[sess.ID] = sess
	return &sess, nil
}

func (s *memorySessionStore) Get(ctx context.Context, sessionID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return "", ErrSessionNotFound
	}
	if !s.now().Before(sess.ExpiresAt) {
		delete(s.sessions, sessionID)
		return "", ErrSessionNotFound
	}
	return sess.UserID, nil
}

func (s *memorySessionStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

// sweepLocked drops expired sessions. Callers hold mu.
func (s *memorySessionStore) sweepLocked() {
	now := s.now()
	for id, sess := range s.sessions {
		if !now.Before(sess.ExpiresAt) {
			delete(s.sessions, id)
		}
	}
}
