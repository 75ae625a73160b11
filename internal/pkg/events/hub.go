package events

import (
	"sync"
	"time"
)

// Transition is a present/absent flip observed for one employee, emitted
// by the reconciliation paths for observability. Consumers are
// in-process; the dashboard still polls.
type Transition struct {
	EmployeeID string
	FullName   string
	From       bool
	To         bool
	LastSeen   *time.Time
	ObservedAt time.Time
	Origin     string // "sweep" or "report"
}

// Hub fans transitions out to in-process subscribers.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[chan Transition]struct{}
}

// NewHub creates a new transition hub
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[chan Transition]struct{}),
	}
}

// Subscribe registers a subscriber and returns its channel plus a
// cleanup function
func (h *Hub) Subscribe() (chan Transition, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Transition, 16)
	h.subscribers[ch] = struct{}{}

	cleanup := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subscribers[ch]; ok {
			delete(h.subscribers, ch)
			close(ch)
		}
	}

	return ch, cleanup
}

// Publish sends a transition to all subscribers without blocking; a slow
// subscriber drops events rather than stalling a sweep.
func (h *Hub) Publish(t Transition) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers {
		select {
		case ch <- t:
		default:
		}
	}
}

// SubscriberCount returns the number of active subscribers
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}
