// Package dashboard implements the demo dashboard mirror: a capped
// in-memory chat log, fixture display data, a live websocket feed, and the
// client the voice side uses to push events over.
package dashboard

import (
	"sync"
	"time"
)

// Event is one mirrored conversation entry.
type Event struct {
	Role string    `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"at,omitempty"`
}

// ChatLog is a bounded in-memory event list; once cap is reached the oldest
// entries are dropped so the mirror can run indefinitely.
type ChatLog struct {
	mu      sync.RWMutex
	events  []Event
	maxSize int
}

// NewChatLog creates a chat log bounded to maxSize entries.
func NewChatLog(maxSize int) *ChatLog {
	if maxSize <= 0 {
		maxSize = 500
	}
	return &ChatLog{maxSize: maxSize}
}

// Append adds an event, evicting the oldest entry when full.
func (l *ChatLog) Append(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
	if len(l.events) > l.maxSize {
		l.events = l.events[len(l.events)-l.maxSize:]
	}
}

// List returns a copy of the events in append order.
func (l *ChatLog) List() []Event {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Event(nil), l.events...)
}

// Len reports the number of stored events.
func (l *ChatLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.events)
}
