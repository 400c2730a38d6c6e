package conversation

import (
	"context"
	"sync"
	"time"
)

// Turn is one exchange within a call: what the caller said and, once
// composed, what the agent answered.
type Turn struct {
	User      string    `json:"user"`
	Assistant string    `json:"assistant,omitempty"`
	At        time.Time `json:"at"`
}

// CallSession is the transient per-call state, keyed by the telephony call
// identifier and shared across otherwise-stateless webhook turns.
type CallSession struct {
	CallID         string    `json:"call_id"`
	Phone          string    `json:"phone,omitempty"`
	History        []Turn    `json:"history,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
}

// SessionStore manages call sessions. Webhook retries can race on the same
// key, so Update must apply its mutation atomically per key; Get returns
// (nil, nil) for unknown call IDs.
type SessionStore interface {
	Create(ctx context.Context, callID string) (*CallSession, error)
	Get(ctx context.Context, callID string) (*CallSession, error)
	Update(ctx context.Context, callID string, fn func(*CallSession)) error
}

// MemorySessionStore is a SessionStore backed by a mutex-guarded map.
// Entries older than ttl are dropped lazily on access; a ttl of zero keeps
// sessions for the process lifetime.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]*CallSession
	ttl      time.Duration
	now      func() time.Time
}

// NewMemorySessionStore creates an in-memory session store.
func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]*CallSession),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create registers a fresh session for callID, replacing any previous one.
func (s *MemorySessionStore) Create(ctx context.Context, callID string) (*CallSession, error) {
	now := s.now().UTC()
	sess := &CallSession{CallID: callID, CreatedAt: now, LastActivityAt: now}

	s.mu.Lock()
	s.sessions[callID] = sess
	s.mu.Unlock()

	out := *sess
	return &out, nil
}

// Get returns a copy of the session, or nil when absent or expired.
func (s *MemorySessionStore) Get(ctx context.Context, callID string) (*CallSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.live(callID)
	if sess == nil {
		return nil, nil
	}
	out := *sess
	out.History = append([]Turn(nil), sess.History...)
	return &out, nil
}

// Update applies fn to the stored session under the store lock, creating the
// session first if none exists. Concurrent updates to the same key never
// observe partial writes.
func (s *MemorySessionStore) Update(ctx context.Context, callID string, fn func(*CallSession)) error {
	now := s.now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.live(callID)
	if sess == nil {
		sess = &CallSession{CallID: callID, CreatedAt: now}
		s.sessions[callID] = sess
	}
	fn(sess)
	sess.LastActivityAt = now
	return nil
}

// live returns the stored session, evicting it first when expired. Caller
// holds s.mu.
func (s *MemorySessionStore) live(callID string) *CallSession {
	sess, ok := s.sessions[callID]
	if !ok {
		return nil
	}
	if s.ttl > 0 && s.now().UTC().Sub(sess.LastActivityAt) > s.ttl {
		delete(s.sessions, callID)
		return nil
	}
	return sess
}

// Len reports the number of live sessions, for tests and diagnostics.
func (s *MemorySessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
