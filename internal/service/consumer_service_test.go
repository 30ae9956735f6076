package service

import (
	"context"
	"testing"
	"time"

	"ai-chatspace-gateway/internal/pkg/logger"
	"ai-chatspace-gateway/internal/repository/memory"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsumerRefreshesHistoryCache(t *testing.T) {
	repo := newFakeSessionRepo()
	cache := memory.NewHistoryCache()
	userId := uuid.New()
	workspaceId := uuid.New()
	session := seedStoredSession(t, repo, userId, workspaceId, time.Now())

	cs := &consumerService{
		sessionRepo:  repo,
		historyCache: cache,
		logger:       logger.NewNop(),
	}

	payload, err := marshalRefresh(workspaceId)
	require.NoError(t, err)
	msg := message.NewMessage("1", payload)

	cs.processMessage(context.Background(), msg)

	sessions, ok := cache.List(workspaceId)
	require.True(t, ok, "cache must be warm after a refresh")
	require.Len(t, sessions, 1)
	assert.Equal(t, session.Id, sessions[0].Id)
	assert.True(t, acked(msg))
}

func TestConsumerAcksMalformedMessages(t *testing.T) {
	cache := memory.NewHistoryCache()
	cs := &consumerService{
		sessionRepo:  newFakeSessionRepo(),
		historyCache: cache,
		logger:       logger.NewNop(),
	}

	msg := message.NewMessage("1", []byte("not json"))
	cs.processMessage(context.Background(), msg)

	assert.True(t, acked(msg), "malformed messages must not be redelivered forever")
}

func TestConsumerDeliversOverGoChannel(t *testing.T) {
	repo := newFakeSessionRepo()
	cache := memory.NewHistoryCache()
	workspaceId := uuid.New()
	seedStoredSession(t, repo, uuid.New(), workspaceId, time.Now())

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	cs := NewConsumerService(pubSub, "history.refresh.test", repo, cache, logger.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, cs.Consume(ctx))

	publisher := NewPublisherService("history.refresh.test", pubSub)
	payload, err := marshalRefresh(workspaceId)
	require.NoError(t, err)
	require.NoError(t, publisher.Publish(ctx, payload))

	assert.Eventually(t, func() bool {
		sessions, ok := cache.List(workspaceId)
		return ok && len(sessions) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

// acked reports whether a message has been acked without blocking.
func acked(msg *message.Message) bool {
	select {
	case <-msg.Acked():
		return true
	default:
		return false
	}
}
