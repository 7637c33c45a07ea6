package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/KxllSwxtch/patriki-bot/pkg/redis"
)

// RedisStore persists sessions in Redis so a restart does not lose a
// half-filled form. TTL of zero keeps sessions until overwritten.
type RedisStore struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		redis: client,
		ttl:   ttl,
	}
}

func sessionKey(userID int64) string {
	return fmt.Sprintf("session:%d", userID)
}

func (s *RedisStore) Get(ctx context.Context, userID int64) (Session, error) {
	data, err := s.redis.Get(ctx, sessionKey(userID))
	if err != nil {
		if errors.Is(err, redis.ErrNotFound) {
			return Session{}, ErrNotFound
		}
		return Session{}, fmt.Errorf("failed to get session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return Session{}, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return sess, nil
}

func (s *RedisStore) save(ctx context.Context, userID int64, sess Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.redis.Set(ctx, sessionKey(userID), data, s.ttl); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *RedisStore) Start(ctx context.Context, userID int64) (Session, error) {
	sess := Session{Step: StepName}
	if err := s.save(ctx, userID, sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

func (s *RedisStore) Advance(ctx context.Context, userID int64, field Field, v Value) (Session, error) {
	sess, err := s.Get(ctx, userID)
	if err != nil {
		return Session{}, err
	}
	if err := apply(&sess, field, v); err != nil {
		return Session{}, err
	}
	if err := s.save(ctx, userID, sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

func (s *RedisStore) Complete(ctx context.Context, userID int64) (Draft, error) {
	sess, err := s.Get(ctx, userID)
	if err != nil {
		return Draft{}, err
	}
	if sess.Step != StepComplete {
		return Draft{}, ErrNotComplete
	}

	draft := sess.Draft
	if err := s.save(ctx, userID, Session{Step: StepIdle}); err != nil {
		return Draft{}, err
	}
	return draft, nil
}

func (s *RedisStore) RestoreFromHistory(ctx context.Context, userID int64, h History) (Session, error) {
	sess := Session{
		Step: StepProduct,
		Draft: Draft{
			Name:    h.Name,
			Contact: h.Contact,
		},
	}
	if err := s.save(ctx, userID, sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// RedisHistory persists last-order history in Redis without expiry so the
// repeat-order shortcut survives restarts.
type RedisHistory struct {
	redis *redis.Client
}

func NewRedisHistory(client *redis.Client) *RedisHistory {
	return &RedisHistory{redis: client}
}

func historyKey(userID int64) string {
	return fmt.Sprintf("history:%d", userID)
}

func (s *RedisHistory) Get(ctx context.Context, userID int64) (History, error) {
	data, err := s.redis.Get(ctx, historyKey(userID))
	if err != nil {
		if errors.Is(err, redis.ErrNotFound) {
			return History{}, ErrNotFound
		}
		return History{}, fmt.Errorf("failed to get history: %w", err)
	}

	var h History
	if err := json.Unmarshal(data, &h); err != nil {
		return History{}, fmt.Errorf("failed to unmarshal history: %w", err)
	}
	return h, nil
}

func (s *RedisHistory) Put(ctx context.Context, userID int64, h History) error {
	data, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}
	if err := s.redis.Set(ctx, historyKey(userID), data, 0); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}
