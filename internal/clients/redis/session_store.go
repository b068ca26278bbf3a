package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/coincollector-backend/internal/platform/logger"
	"github.com/yungbote/coincollector-backend/internal/services"
)

const sessionKeyPrefix = "session:"

type sessionStore struct {
	log *logger.Logger
	rdb goredis.UniversalClient
	ttl time.Duration
}

// NewSessionStore keeps sessions as "session:<id>" keys holding the user id.
// Expiry is left to Redis.
func NewSessionStore(log *logger.Logger, rdb goredis.UniversalClient, ttl time.Duration) services.SessionStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &sessionStore{
		log: log.With("service", "RedisSessionStore"),
		rdb: rdb,
		ttl: ttl,
	}
}

func sessionKey(id string) string { return sessionKeyPrefix + id }

func (s *sessionStore) Create(ctx context.Context, userID string) (*services.Session, error) {
	if s == nil || s.rdb == nil {
		return nil, fmt.Errorf("redis session store not initialized")
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, errors.New("session requires a user id")
	}
	sess := &services.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(s.ttl),
	}
	ok, err := s.rdb.SetNX(ctx, sessionKey(sess.ID), userID, s.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("redis set session: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("session id collision")
	}
	return sess, nil
}

func (s *sessionStore) Get(ctx context.Context, sessionID string) (string, error) {
	if s == nil || s.rdb == nil {
		return "", fmt.Errorf("redis session store not initialized")
	}
	userID, err := s.rdb.Get(ctx, sessionKey(sessionID)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", services.ErrSessionNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get session: %w", err)
	}
	return userID, nil
}

func (s *sessionStore) Delete(ctx context.Context, sessionID string) error {
	if s == nil || s.rdb == nil {
		return nil
	}
	if err := s.rdb.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		s.log.Warn("Failed to delete session", "session_id", sessionID, "error", err)
		return fmt.Errorf("redis delete session: %w", err)
	}
	return nil
}
