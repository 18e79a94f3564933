package web

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/matsen/modelgraph/internal/gate"
)

// Session is one browser's gate state plus its graph version.
type Session struct {
	ID   string
	Gate *gate.Session

	version  atomic.Uint64
	lastSeen time.Time // guarded by SessionStore.mu
}

// Version returns the graph version the session last requested.
func (s *Session) Version() uint64 {
	return s.version.Load()
}

// Bump increments the graph version and returns the new value.
func (s *Session) Bump() uint64 {
	return s.version.Add(1)
}

// SessionStore holds live sessions keyed by a random id. Sessions idle for
// longer than the TTL are dropped.
type SessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]*Session
}

// NewSessionStore creates an empty store.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Get returns the live session for id and marks it as used.
func (st *SessionStore) Get(id string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[id]
	if !ok {
		return nil, false
	}
	now := st.now()
	if st.expired(s, now) {
		delete(st.sessions, id)
		return nil, false
	}
	s.lastSeen = now
	return s, true
}

// Create starts a new unverified session. Expired sessions are swept first.
func (st *SessionStore) Create() *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	now := st.now()
	st.sweepLocked(now)

	s := &Session{
		ID:       uuid.NewString(),
		Gate:     &gate.Session{},
		lastSeen: now,
	}
	st.sessions[s.ID] = s
	return s
}

// Len returns the number of sessions held, expired or not.
func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Sweep removes expired sessions and returns how many were removed.
func (st *SessionStore) Sweep() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.sweepLocked(st.now())
}

func (st *SessionStore) sweepLocked(now time.Time) int {
	removed := 0
	for id, s := range st.sessions {
		if st.expired(s, now) {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

func (st *SessionStore) expired(s *Session, now time.Time) bool {
	return st.ttl > 0 && now.Sub(s.lastSeen) > st.ttl
}
