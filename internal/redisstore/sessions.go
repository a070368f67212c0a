// Package redisstore keeps server-side sessions in Redis. Keys expire with
// the session, so no sweep is needed.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"worklog/internal/models"
	"worklog/internal/repository"
)

type SessionStore struct {
	client redis.Cmdable
	prefix string
	now    func() time.Time
}

var _ repository.SessionRepository = (*SessionStore)(nil)

func NewSessionStore(client redis.Cmdable, prefix string) *SessionStore {
	if client == nil {
		panic("redis client cannot be nil for SessionStore")
	}
	return &SessionStore{client: client, prefix: prefix, now: time.Now}
}

func (s *SessionStore) key(id string) string {
	return s.prefix + "session:" + id
}

func (s *SessionStore) CreateSession(ctx context.Context, session *models.Session) error {
	ttl := session.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return fmt.Errorf("redis: session %s already expired", session.ID)
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("redis: encode session: %w", err)
	}

	ok, err := s.client.SetNX(ctx, s.key(session.ID), data, ttl).Result()
	if err != nil {
		return fmt.Errorf("redis: create session: %w", err)
	}
	if !ok {
		return repository.ErrDuplicate
	}
	return nil
}

func (s *SessionStore) GetSession(ctx context.Context, id string) (*models.Session, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("redis: get session: %w", err)
	}

	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("redis: decode session: %w", err)
	}
	return &session, nil
}

func (s *SessionStore) DeleteSession(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("redis: delete session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions is a no-op: Redis evicts sessions at their TTL.
func (s *SessionStore) DeleteExpiredSessions(context.Context, time.Time) (int64, error) {
	return 0, nil
}
