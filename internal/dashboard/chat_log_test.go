package dashboard

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatLog_AppendAndList(t *testing.T) {
	log := NewChatLog(10)
	log.Append(Event{Role: "user", Text: "hello"})
	log.Append(Event{Role: "assistant", Text: "hi"})

	events := log.List()
	require.Len(t, events, 2)
	assert.Equal(t, "hello", events[0].Text)
	assert.Equal(t, "hi", events[1].Text)
}

// The log is a bounded ring: exceeding the cap drops the oldest entries.
func TestChatLog_CapDropsOldest(t *testing.T) {
	log := NewChatLog(3)
	for i := 0; i < 5; i++ {
		log.Append(Event{Role: "user", Text: fmt.Sprintf("msg-%d", i)})
	}

	events := log.List()
	require.Len(t, events, 3)
	assert.Equal(t, "msg-2", events[0].Text)
	assert.Equal(t, "msg-4", events[2].Text)
}

func TestChatLog_ListReturnsCopy(t *testing.T) {
	log := NewChatLog(10)
	log.Append(Event{Role: "user", Text: "original"})

	events := log.List()
	events[0].Text = "tampered"

	assert.Equal(t, "original", log.List()[0].Text)
}

func TestChatLog_Concurrent(t *testing.T) {
	log := NewChatLog(1000)
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Append(Event{Role: "user", Text: "x"})
			_ = log.List()
		}()
	}
	wg.Wait()
	assert.Equal(t, 100, log.Len())
}
