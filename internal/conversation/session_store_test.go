package conversation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessionStore_CreateAndGet(t *testing.T) {
	store := NewMemorySessionStore(0)
	ctx := context.Background()

	created, err := store.Create(ctx, "CA123")
	require.NoError(t, err)
	assert.Equal(t, "CA123", created.CallID)

	got, err := store.Get(ctx, "CA123")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "CA123", got.CallID)
	assert.Empty(t, got.Phone)
}

func TestMemorySessionStore_GetUnknown(t *testing.T) {
	store := NewMemorySessionStore(0)

	got, err := store.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemorySessionStore_Update(t *testing.T) {
	store := NewMemorySessionStore(0)
	ctx := context.Background()

	_, err := store.Create(ctx, "CA123")
	require.NoError(t, err)

	err = store.Update(ctx, "CA123", func(s *CallSession) {
		s.Phone = "+919876543210"
	})
	require.NoError(t, err)

	got, err := store.Get(ctx, "CA123")
	require.NoError(t, err)
	assert.Equal(t, "+919876543210", got.Phone)
}

// A late webhook for a session that was never greeted still lands.
func TestMemorySessionStore_UpdateCreatesMissing(t *testing.T) {
	store := NewMemorySessionStore(0)
	ctx := context.Background()

	err := store.Update(ctx, "CA999", func(s *CallSession) {
		s.Phone = "+919812345678"
	})
	require.NoError(t, err)

	got, err := store.Get(ctx, "CA999")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "+919812345678", got.Phone)
}

// Get hands out copies; appending to a returned history must not mutate the
// stored session.
func TestMemorySessionStore_GetReturnsCopy(t *testing.T) {
	store := NewMemorySessionStore(0)
	ctx := context.Background()

	_, err := store.Create(ctx, "CA123")
	require.NoError(t, err)
	require.NoError(t, store.Update(ctx, "CA123", func(s *CallSession) {
		s.History = append(s.History, Turn{User: "hi"})
	}))

	got, _ := store.Get(ctx, "CA123")
	got.Phone = "tampered"
	got.History[0].User = "tampered"

	again, _ := store.Get(ctx, "CA123")
	assert.Empty(t, again.Phone)
	assert.Equal(t, "hi", again.History[0].User)
}

func TestMemorySessionStore_ConcurrentUpdates(t *testing.T) {
	store := NewMemorySessionStore(0)
	ctx := context.Background()

	_, err := store.Create(ctx, "CA123")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Update(ctx, "CA123", func(s *CallSession) {
				s.History = append(s.History, Turn{User: "turn"})
			})
		}()
	}
	wg.Wait()

	got, err := store.Get(ctx, "CA123")
	require.NoError(t, err)
	assert.Len(t, got.History, 100)
}

func TestMemorySessionStore_TTLEviction(t *testing.T) {
	store := NewMemorySessionStore(time.Minute)
	now := time.Now()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	_, err := store.Create(ctx, "CA123")
	require.NoError(t, err)

	got, _ := store.Get(ctx, "CA123")
	require.NotNil(t, got)

	store.now = func() time.Time { return now.Add(2 * time.Minute) }
	got, err = store.Get(ctx, "CA123")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, 0, store.Len())
}

func TestMemorySessionStore_CreateReplacesExisting(t *testing.T) {
	store := NewMemorySessionStore(0)
	ctx := context.Background()

	_, err := store.Create(ctx, "CA123")
	require.NoError(t, err)
	require.NoError(t, store.Update(ctx, "CA123", func(s *CallSession) {
		s.Phone = "+919876543210"
	}))

	_, err = store.Create(ctx, "CA123")
	require.NoError(t, err)

	got, _ := store.Get(ctx, "CA123")
	assert.Empty(t, got.Phone)
}
