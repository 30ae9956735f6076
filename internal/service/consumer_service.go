package service

import (
	"context"
	"encoding/json"

	"ai-chatspace-gateway/internal/dto"
	"ai-chatspace-gateway/internal/pkg/logger"
	"ai-chatspace-gateway/internal/repository/contract"
	"ai-chatspace-gateway/internal/repository/memory"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService keeps the history cache aligned with the document store.
// Session mutations publish a refresh request; this worker re-pulls the
// workspace's session list in the background so the next view hit is warm.
type consumerService struct {
	pubSub       *gochannel.GoChannel
	topicName    string
	sessionRepo  contract.ChatSessionRepository
	historyCache *memory.HistoryCache
	logger       logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	sessionRepo contract.ChatSessionRepository,
	historyCache *memory.HistoryCache,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:       pubSub,
		topicName:    topicName,
		sessionRepo:  sessionRepo,
		historyCache: historyCache,
		logger:       log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.RefreshHistoryMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("consumer", "failed to unmarshal refresh message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	sessions, err := cs.sessionRepo.FindAllByWorkspaceId(ctx, payload.WorkspaceId)
	if err != nil {
		cs.logger.Error("consumer", "failed to refresh session list", map[string]interface{}{
			"workspace_id": payload.WorkspaceId,
			"error":        err.Error(),
		})
		msg.Nack() // Nack for retriable errors
		return
	}

	cs.historyCache.Put(payload.WorkspaceId, sessions)
	cs.logger.Debug("consumer", "history refreshed", map[string]interface{}{
		"workspace_id": payload.WorkspaceId,
		"sessions":     len(sessions),
	})
	msg.Ack()
}
