package dashboard

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Notify(t *testing.T) {
	var mu sync.Mutex
	var got []Event

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/conversation", r.URL.Path)
		var ev Event
		require.NoError(t, json.NewDecoder(r.Body).Decode(&ev))
		mu.Lock()
		got = append(got, ev)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	c.Notify("user", "what is my balance")

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "user", got[0].Role)
	assert.Equal(t, "what is my balance", got[0].Text)
}

// Notify never blocks the caller, even when the mirror is slow.
func TestClient_Notify_DoesNotBlock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(5 * time.Second)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)

	start := time.Now()
	c.Notify("user", "hello")
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

// A nil or unconfigured client is a no-op, not a panic.
func TestClient_Notify_Disabled(t *testing.T) {
	var c *Client
	c.Notify("user", "hello")

	c = NewClient("", nil)
	c.Notify("user", "hello")
}

// Mirror failures are swallowed; there is exactly one attempt.
func TestClient_Notify_FailureSwallowed(t *testing.T) {
	var mu sync.Mutex
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		attempts++
		mu.Unlock()
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	c.Notify("assistant", "answer")

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return attempts == 1
	}, time.Second, 10*time.Millisecond)

	time.Sleep(100 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, attempts)
}
