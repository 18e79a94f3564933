package web

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matsen/modelgraph/internal/gate"
)

// fakeClock is a settable time source.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newClockedStore(ttl time.Duration) (*SessionStore, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	st := NewSessionStore(ttl)
	st.now = clock.Now
	return st, clock
}

func TestSessionStore_CreateGet(t *testing.T) {
	st, _ := newClockedStore(time.Hour)

	s := st.Create()
	require.NotEmpty(t, s.ID)
	assert.Equal(t, gate.Unverified, s.Gate.State())
	assert.Equal(t, uint64(0), s.Version())

	got, ok := st.Get(s.ID)
	require.True(t, ok)
	assert.Same(t, s, got)

	_, ok = st.Get("missing")
	assert.False(t, ok)
}

func TestSessionStore_UniqueIDs(t *testing.T) {
	st, _ := newClockedStore(time.Hour)
	seen := make(map[string]bool)
	for range 100 {
		id := st.Create().ID
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestSessionStore_Expiry(t *testing.T) {
	st, clock := newClockedStore(time.Minute)
	s := st.Create()

	clock.Advance(30 * time.Second)
	_, ok := st.Get(s.ID)
	require.True(t, ok, "touched within TTL")

	clock.Advance(50 * time.Second)
	_, ok = st.Get(s.ID)
	assert.True(t, ok, "TTL counts from last use")

	clock.Advance(2 * time.Minute)
	_, ok = st.Get(s.ID)
	assert.False(t, ok)
	assert.Equal(t, 0, st.Len())
}

func TestSessionStore_Sweep(t *testing.T) {
	st, clock := newClockedStore(time.Minute)
	st.Create()
	st.Create()
	clock.Advance(2 * time.Minute)
	fresh := st.Create() // sweeps the two stale sessions

	assert.Equal(t, 1, st.Len())
	_, ok := st.Get(fresh.ID)
	assert.True(t, ok)

	clock.Advance(2 * time.Minute)
	assert.Equal(t, 1, st.Sweep())
	assert.Equal(t, 0, st.Len())
}

func TestSessionStore_ZeroTTLNeverExpires(t *testing.T) {
	st, clock := newClockedStore(0)
	s := st.Create()
	clock.Advance(24 * 365 * time.Hour)
	_, ok := st.Get(s.ID)
	assert.True(t, ok)
}

func TestSession_BumpIsMonotonic(t *testing.T) {
	s := &Session{}
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Bump()
		}()
	}
	wg.Wait()
	assert.Equal(t, uint64(50), s.Version())
	assert.Equal(t, uint64(51), s.Bump())
}
