package service

import (
	"context"
	"io"
	"strings"
	"time"

	"ai-chatspace-gateway/internal/constant"
	"ai-chatspace-gateway/internal/dto"
	"ai-chatspace-gateway/internal/entity"
	"ai-chatspace-gateway/internal/pkg/apperr"
	"ai-chatspace-gateway/internal/pkg/logger"
	"ai-chatspace-gateway/internal/repository/contract"
	"ai-chatspace-gateway/internal/repository/memory"
	"ai-chatspace-gateway/internal/websocket"
	"ai-chatspace-gateway/pkg/ingest"
	"ai-chatspace-gateway/pkg/query"

	"github.com/google/uuid"
)

type IChatService interface {
	// SendMessage runs one full exchange: optimistic append, dispatch,
	// placeholder reconciliation, persistence and push.
	SendMessage(ctx context.Context, userId uuid.UUID, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error)
	UploadFile(ctx context.Context, userId, sessionId uuid.UUID, fileName string, content io.Reader) (*dto.UploadMessageResponse, error)
}

type chatService struct {
	sessionRepo      contract.ChatSessionRepository
	sessionService   ISessionService
	historyCache     *memory.HistoryCache
	dispatcher       query.Dispatcher
	uploader         ingest.Uploader
	hub              *websocket.Hub
	publisherService IPublisherService
	queryTimeout     time.Duration
	logger           logger.ILogger
}

func NewChatService(
	sessionRepo contract.ChatSessionRepository,
	sessionService ISessionService,
	historyCache *memory.HistoryCache,
	dispatcher query.Dispatcher,
	uploader ingest.Uploader,
	hub *websocket.Hub,
	publisherService IPublisherService,
	queryTimeout time.Duration,
	log logger.ILogger,
) IChatService {
	return &chatService{
		sessionRepo:      sessionRepo,
		sessionService:   sessionService,
		historyCache:     historyCache,
		dispatcher:       dispatcher,
		uploader:         uploader,
		hub:              hub,
		publisherService: publisherService,
		queryTimeout:     queryTimeout,
		logger:           log,
	}
}

func (c *chatService) SendMessage(ctx context.Context, userId uuid.UUID, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
	session, err := c.targetSession(ctx, userId, req)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	userMsg := entity.ChatMessage{
		Id:        uuid.New(),
		Sender:    entity.MessageSenderUser,
		Kind:      entity.MessageKindText,
		Content:   req.Content,
		CreatedAt: now,
	}
	// The placeholder's Id is the correlation id: the finalized reply
	// replaces exactly this entry, never "the last assistant message".
	placeholder := entity.ChatMessage{
		Id:        uuid.New(),
		Sender:    entity.MessageSenderAssistant,
		Kind:      entity.MessageKindText,
		Content:   constant.PendingReplyContent,
		Pending:   true,
		CreatedAt: now,
	}

	// Optimistic view update before any network round trip.
	session.Messages = append(session.Messages, userMsg, placeholder)
	session.UpdatedAt = &now
	c.historyCache.Upsert(session)

	// The user's message must be durable before the dispatch; a failed
	// dispatch may lose the reply but never the question.
	if err := c.sessionRepo.AppendMessage(ctx, session.Id, userMsg); err != nil {
		c.rollbackOptimistic(session, userMsg.Id, placeholder.Id)
		return nil, err
	}
	if err := c.sessionRepo.AppendMessage(ctx, session.Id, placeholder); err != nil {
		c.logger.Warn("chat", "failed to persist placeholder", map[string]interface{}{
			"session_id": session.Id,
			"error":      err.Error(),
		})
	}

	final := c.dispatch(ctx, session, userMsg)
	final.Id = placeholder.Id
	final.CreatedAt = time.Now()

	c.reconcile(ctx, session, final)
	c.maybeNameSession(ctx, session, userMsg.Content)

	c.hub.Send(userId, websocket.EventReplyFinalized, dto.SendMessageResponse{
		SessionId: session.Id,
		User:      messageToResponse(userMsg),
		Assistant: messageToResponse(final),
	})
	c.publishRefresh(ctx, session.WorkspaceId)

	return &dto.SendMessageResponse{
		SessionId: session.Id,
		User:      messageToResponse(userMsg),
		Assistant: messageToResponse(final),
	}, nil
}

// targetSession resolves the addressed session, creating one lazily from
// the first message when the request does not name one yet.
func (c *chatService) targetSession(ctx context.Context, userId uuid.UUID, req *dto.SendMessageRequest) (*entity.ChatSession, error) {
	if req.SessionId != uuid.Nil {
		return c.sessionService.ResolveOwned(ctx, userId, req.SessionId)
	}
	if req.WorkspaceId == uuid.Nil {
		return nil, apperr.Validation("workspace_id is required when session_id is empty")
	}
	variant := entity.SessionVariant(req.Variant)
	if req.Variant == "" {
		variant = entity.SessionVariantPlain
	}
	return c.sessionService.EnsureForMessage(ctx, userId, req.WorkspaceId, variant, req.Content)
}

// dispatch runs the query round trip and maps the outcome onto the final
// assistant message. Failures become the fixed error surrogate instead of
// propagating, the exchange itself already happened from the user's side.
func (c *chatService) dispatch(ctx context.Context, session *entity.ChatSession, userMsg entity.ChatMessage) entity.ChatMessage {
	dispatchCtx, cancel := context.WithTimeout(ctx, c.queryTimeout)
	defer cancel()

	result, err := c.dispatcher.Dispatch(dispatchCtx, query.Request{
		Query:       userMsg.Content,
		UserId:      session.UserId,
		WorkspaceId: session.WorkspaceId,
		SessionId:   session.Id,
	})
	if err != nil {
		c.logger.Error("chat", "query dispatch failed", map[string]interface{}{
			"session_id": session.Id,
			"variant":    string(session.Variant),
			"error":      err.Error(),
		})
		return entity.ChatMessage{
			Sender:  entity.MessageSenderAssistant,
			Kind:    entity.MessageKindError,
			Content: constant.ReplyErrorContent,
		}
	}

	content := result.Content()
	if content == "" {
		content = constant.EmptyReplyContent
	}
	kind, known := entity.ParseMessageKind(result.Type)
	if !known {
		c.logger.Warn("chat", "unknown content kind from query service", map[string]interface{}{
			"session_id": session.Id,
			"kind":       result.Type,
		})
	}
	return entity.ChatMessage{
		Sender:  entity.MessageSenderAssistant,
		Kind:    kind,
		Content: content,
	}
}

// reconcile swaps the placeholder for the finalized reply, in the cached
// view and in the durable log. It runs once per exchange, keyed by the
// correlation id carried in final.Id.
func (c *chatService) reconcile(ctx context.Context, session *entity.ChatSession, final entity.ChatMessage) {
	replaced := false
	for i := range session.Messages {
		if session.Messages[i].Id == final.Id {
			session.Messages[i] = final
			replaced = true
			break
		}
	}
	if !replaced {
		// Placeholder vanished (cache refreshed underneath us), append so
		// the reply is not lost.
		session.Messages = append(session.Messages, final)
	}
	now := time.Now()
	session.UpdatedAt = &now
	c.historyCache.Upsert(session)

	if err := c.sessionRepo.ReplaceMessage(ctx, session.Id, final); err != nil {
		c.logger.Error("chat", "failed to persist finalized reply", map[string]interface{}{
			"session_id": session.Id,
			"message_id": final.Id,
			"error":      err.Error(),
		})
	}
}

// rollbackOptimistic drops the optimistic entries after a failed user-message
// persist so the view does not show a question that was never stored.
func (c *chatService) rollbackOptimistic(session *entity.ChatSession, ids ...uuid.UUID) {
	drop := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := session.Messages[:0]
	for _, msg := range session.Messages {
		if !drop[msg.Id] {
			kept = append(kept, msg)
		}
	}
	session.Messages = kept
	c.historyCache.Upsert(session)
}

// maybeNameSession derives a display name from the first user message for
// sessions still carrying their default name.
func (c *chatService) maybeNameSession(ctx context.Context, session *entity.ChatSession, firstContent string) {
	if session.Name != constant.UnnamedSessionName && session.Name != "" {
		return
	}
	if session.FirstUserContent() != firstContent {
		return
	}

	session.Name = nameFromMessage(firstContent)
	if err := c.sessionRepo.Update(ctx, session); err != nil {
		c.logger.Warn("chat", "failed to persist derived session name", map[string]interface{}{
			"session_id": session.Id,
			"error":      err.Error(),
		})
		return
	}
	c.historyCache.Upsert(session)
}

func (c *chatService) UploadFile(ctx context.Context, userId, sessionId uuid.UUID, fileName string, content io.Reader) (*dto.UploadMessageResponse, error) {
	// The ingestion service only indexes PDF documents.
	if !strings.HasSuffix(strings.ToLower(fileName), ".pdf") {
		return nil, apperr.Validation("only PDF files can be uploaded")
	}

	session, err := c.sessionService.ResolveOwned(ctx, userId, sessionId)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	msg := entity.ChatMessage{
		Id:        uuid.New(),
		Sender:    entity.MessageSenderUser,
		Kind:      entity.MessageKindFileReference,
		Content:   fileName,
		FileName:  fileName,
		CreatedAt: now,
	}
	status := "ok"

	result, err := c.uploader.UploadPdf(ctx, fileName, content)
	if err != nil {
		c.logger.Error("chat", "file upload failed", map[string]interface{}{
			"session_id": sessionId,
			"file_name":  fileName,
			"error":      err.Error(),
		})
		msg.Kind = entity.MessageKindError
		msg.Content = constant.UploadFailedContentPrefix + err.Error()
		status = "failed"
	} else if result.Status != "" {
		status = result.Status
	}

	session.Messages = append(session.Messages, msg)
	session.UpdatedAt = &now
	c.historyCache.Upsert(session)

	if err := c.sessionRepo.AppendMessage(ctx, sessionId, msg); err != nil {
		return nil, err
	}

	c.hub.Send(userId, websocket.EventSessionMutated, dto.UploadMessageResponse{
		SessionId: sessionId,
		Message:   messageToResponse(msg),
		Status:    status,
	})
	c.publishRefresh(ctx, session.WorkspaceId)

	return &dto.UploadMessageResponse{
		SessionId: sessionId,
		Message:   messageToResponse(msg),
		Status:    status,
	}, nil
}

func (c *chatService) publishRefresh(ctx context.Context, workspaceId uuid.UUID) {
	payload, err := marshalRefresh(workspaceId)
	if err != nil {
		return
	}
	if err := c.publisherService.Publish(ctx, payload); err != nil {
		c.logger.Warn("chat", "failed to publish history refresh", map[string]interface{}{
			"workspace_id": workspaceId,
			"error":        err.Error(),
		})
	}
}
