package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix  = "call:session:"
	defaultSessionTTL = 24 * time.Hour
)

// RedisSessionStore is a SessionStore backed by Redis with TTL eviction, for
// deployments where the webhook server is restarted or scaled. Updates are
// read-modify-write with last-writer-wins semantics, which is the stated
// consistency bar for duplicate webhook retries.
type RedisSessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisSessionStore creates a Redis-backed session store.
func NewRedisSessionStore(rdb *redis.Client, ttl time.Duration) *RedisSessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &RedisSessionStore{rdb: rdb, ttl: ttl}
}

func sessionKey(callID string) string {
	return sessionKeyPrefix + callID
}

// Create registers a fresh session for callID, replacing any previous one.
func (s *RedisSessionStore) Create(ctx context.Context, callID string) (*CallSession, error) {
	now := time.Now().UTC()
	sess := &CallSession{CallID: callID, CreatedAt: now, LastActivityAt: now}
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Get retrieves a session, or nil when absent or expired.
func (s *RedisSessionStore) Get(ctx context.Context, callID string) (*CallSession, error) {
	data, err := s.rdb.Get(ctx, sessionKey(callID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("call session: get: %w", err)
	}
	var sess CallSession
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("call session: unmarshal: %w", err)
	}
	return &sess, nil
}

// Update loads the session, applies fn, and writes it back, refreshing the
// TTL. Missing sessions are created first so a late webhook still lands.
func (s *RedisSessionStore) Update(ctx context.Context, callID string, fn func(*CallSession)) error {
	sess, err := s.Get(ctx, callID)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	if sess == nil {
		sess = &CallSession{CallID: callID, CreatedAt: now}
	}
	fn(sess)
	sess.LastActivityAt = now
	return s.save(ctx, sess)
}

func (s *RedisSessionStore) save(ctx context.Context, sess *CallSession) error {
	if sess == nil || sess.CallID == "" {
		return fmt.Errorf("call session: call_id required")
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("call session: marshal: %w", err)
	}
	return s.rdb.Set(ctx, sessionKey(sess.CallID), data, s.ttl).Err()
}
