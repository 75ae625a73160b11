package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesSubscribers(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	ch1, cleanup1 := hub.Subscribe()
	defer cleanup1()
	ch2, cleanup2 := hub.Subscribe()
	defer cleanup2()

	assert.Equal(t, 2, hub.SubscriberCount())

	hub.Publish(Transition{EmployeeID: "emp-1", From: false, To: true, Origin: "report"})

	for _, ch := range []chan Transition{ch1, ch2} {
		select {
		case tr := <-ch:
			assert.Equal(t, "emp-1", tr.EmployeeID)
			assert.True(t, tr.To)
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive the transition")
		}
	}
}

func TestHub_CleanupRemovesSubscriber(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	ch, cleanup := hub.Subscribe()

	cleanup()
	assert.Equal(t, 0, hub.SubscriberCount())

	// The channel is closed, not left dangling
	_, ok := <-ch
	assert.False(t, ok)

	// Cleaning up twice must not panic or close twice
	cleanup()
}

func TestHub_PublishNeverBlocksOnSlowSubscriber(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	_, cleanup := hub.Subscribe()
	defer cleanup()

	done := make(chan struct{})
	go func() {
		defer close(done)
		// Nobody is draining; publishes beyond the buffer must drop
		for i := 0; i < 100; i++ {
			hub.Publish(Transition{EmployeeID: "emp-1"})
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}

func TestHub_PublishWithNoSubscribers(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	require.NotPanics(t, func() {
		hub.Publish(Transition{EmployeeID: "emp-1"})
	})
}
