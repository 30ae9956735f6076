package websocket

import (
	"testing"
	"time"

	"ai-chatspace-gateway/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registered(hub *Hub, userId uuid.UUID) func() bool {
	return func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		_, ok := hub.clients[userId]
		return ok
	}
}

func TestSlowClientDroppedWithoutPanic(t *testing.T) {
	hub := NewHub(nil, logger.NewNop())
	go hub.Run()

	userId := uuid.New()
	client := &Client{Hub: hub, UserID: userId, Send: make(chan []byte, 1)}
	hub.register <- client
	require.Eventually(t, registered(hub, userId), time.Second, 10*time.Millisecond)

	// The first push fills the one-slot buffer, the second overflows it and
	// must hand the client to unregister exactly once.
	hub.Send(userId, EventSessionMutated, "first")
	hub.Send(userId, EventSessionMutated, "second")

	assert.Eventually(t, func() bool { return !registered(hub, userId)() }, time.Second, 10*time.Millisecond)

	<-client.Send
	_, open := <-client.Send
	assert.False(t, open, "unregister owns the channel close")

	// Pushes to a departed user are a no-op.
	hub.Send(userId, EventSessionMutated, "third")
}

func TestBroadcastDropsOnlySlowClients(t *testing.T) {
	hub := NewHub(nil, logger.NewNop())
	go hub.Run()

	slowId := uuid.New()
	fastId := uuid.New()
	slow := &Client{Hub: hub, UserID: slowId, Send: make(chan []byte)}
	fast := &Client{Hub: hub, UserID: fastId, Send: make(chan []byte, 4)}
	hub.register <- slow
	hub.register <- fast
	require.Eventually(t, registered(hub, slowId), time.Second, 10*time.Millisecond)
	require.Eventually(t, registered(hub, fastId), time.Second, 10*time.Millisecond)

	hub.Broadcast(EventReplyFinalized, "payload")

	assert.Eventually(t, func() bool { return !registered(hub, slowId)() }, time.Second, 10*time.Millisecond)
	assert.True(t, registered(hub, fastId)(), "responsive clients stay connected")
	assert.Len(t, fast.Send, 1)
}
