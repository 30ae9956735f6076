package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ai-chatspace-gateway/internal/constant"
	"ai-chatspace-gateway/internal/dto"
	"ai-chatspace-gateway/internal/entity"
	"ai-chatspace-gateway/internal/pkg/apperr"
	"ai-chatspace-gateway/internal/pkg/logger"
	"ai-chatspace-gateway/internal/repository/contract"
	"ai-chatspace-gateway/internal/repository/memory"
	"ai-chatspace-gateway/pkg/events"
	pktNats "ai-chatspace-gateway/pkg/nats"
	"ai-chatspace-gateway/pkg/resolver"

	"github.com/google/uuid"
)

type ISessionService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateSessionRequest) (*dto.SessionResponse, error)
	GetAll(ctx context.Context, userId uuid.UUID, workspaceId uuid.UUID) ([]*dto.SessionResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.SessionDetailResponse, error)
	Rename(ctx context.Context, userId uuid.UUID, req *dto.RenameSessionRequest) (*dto.SessionResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.DeleteSessionResponse, error)
	Select(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.SelectSessionResponse, error)

	// ResolveOwned loads a session through the replication-lag retry and
	// verifies ownership. Other services build on it.
	ResolveOwned(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*entity.ChatSession, error)
	// EnsureForMessage returns an existing owned session, or lazily creates
	// one named after the first outgoing message.
	EnsureForMessage(ctx context.Context, userId, workspaceId uuid.UUID, variant entity.SessionVariant, firstMessage string) (*entity.ChatSession, error)
}

type sessionService struct {
	sessionRepo      contract.ChatSessionRepository
	sessionResolver  *resolver.Resolver
	historyCache     *memory.HistoryCache
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	logger           logger.ILogger
}

func NewSessionService(
	sessionRepo contract.ChatSessionRepository,
	sessionResolver *resolver.Resolver,
	historyCache *memory.HistoryCache,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) ISessionService {
	return &sessionService{
		sessionRepo:      sessionRepo,
		sessionResolver:  sessionResolver,
		historyCache:     historyCache,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		logger:           log,
	}
}

func (c *sessionService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	variant := entity.SessionVariant(req.Variant)
	if req.Variant == "" {
		variant = entity.SessionVariantPlain
	}

	session := newSession(userId, req.WorkspaceId, variant, req.Name)
	if err := c.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	c.historyCache.Upsert(session)
	c.publishRefresh(ctx, session.WorkspaceId)
	c.publishLifecycle(ctx, "SESSION_CREATED", session)

	resp := sessionToResponse(session)
	return &resp, nil
}

func (c *sessionService) GetAll(ctx context.Context, userId uuid.UUID, workspaceId uuid.UUID) ([]*dto.SessionResponse, error) {
	sessions, ok := c.historyCache.List(workspaceId)
	if !ok {
		var err error
		sessions, err = c.sessionRepo.FindAllByWorkspaceId(ctx, workspaceId)
		if err != nil {
			return nil, err
		}
		c.historyCache.Put(workspaceId, sessions)
	}

	result := make([]*dto.SessionResponse, 0, len(sessions))
	for _, session := range sessions {
		if session.UserId != userId {
			continue
		}
		resp := sessionToResponse(session)
		result = append(result, &resp)
	}
	return result, nil
}

func (c *sessionService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.SessionDetailResponse, error) {
	session, err := c.ResolveOwned(ctx, userId, id)
	if err != nil {
		return nil, err
	}

	resp := &dto.SessionDetailResponse{
		SessionResponse: sessionToResponse(session),
		Messages:        make([]dto.MessageResponse, 0, len(session.Messages)),
	}
	for i := range session.Messages {
		resp.Messages = append(resp.Messages, messageToResponse(session.Messages[i]))
	}
	return resp, nil
}

func (c *sessionService) Rename(ctx context.Context, userId uuid.UUID, req *dto.RenameSessionRequest) (*dto.SessionResponse, error) {
	session, err := c.ResolveOwned(ctx, userId, req.Id)
	if err != nil {
		return nil, err
	}

	session.Name = truncateName(req.Name, constant.SessionNameMaxLen)
	now := time.Now()
	session.UpdatedAt = &now
	if err := c.sessionRepo.Update(ctx, session); err != nil {
		return nil, err
	}

	c.historyCache.Upsert(session)
	c.publishRefresh(ctx, session.WorkspaceId)
	c.publishLifecycle(ctx, "SESSION_RENAMED", session)

	resp := sessionToResponse(session)
	return &resp, nil
}

func (c *sessionService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.DeleteSessionResponse, error) {
	session, err := c.ResolveOwned(ctx, userId, id)
	if err != nil {
		return nil, err
	}

	if err := c.sessionRepo.Delete(ctx, id); err != nil {
		return nil, err
	}

	fallback, selectionChanged, known := c.historyCache.Remove(session.WorkspaceId, id)
	if selectionChanged && !known {
		fallback = c.fallbackFromStore(ctx, session.WorkspaceId, id)
	}
	c.publishRefresh(ctx, session.WorkspaceId)
	c.publishLifecycle(ctx, "SESSION_DELETED", session)

	resp := &dto.DeleteSessionResponse{
		Id:               id,
		SelectionChanged: selectionChanged,
	}
	if fallback != nil {
		resp.FallbackId = &fallback.Id
	}
	return resp, nil
}

// fallbackFromStore re-pulls the workspace's sessions when the cache was cold
// and could not name a fallback, so deleting the selected session stays
// deterministic across restarts. The just-deleted session may still appear in
// the listing because of read-after-write lag, so it is filtered out.
func (c *sessionService) fallbackFromStore(ctx context.Context, workspaceId, deletedId uuid.UUID) *entity.ChatSession {
	sessions, err := c.sessionRepo.FindAllByWorkspaceId(ctx, workspaceId)
	if err != nil {
		c.logger.Warn("session", "fallback listing failed after delete", map[string]interface{}{
			"workspace_id": workspaceId,
			"error":        err.Error(),
		})
		return nil
	}

	remaining := make([]*entity.ChatSession, 0, len(sessions))
	for _, session := range sessions {
		if session.Id != deletedId {
			remaining = append(remaining, session)
		}
	}
	c.historyCache.Put(workspaceId, remaining)
	if len(remaining) == 0 {
		return nil
	}

	// Put re-sorts updated-descending, so the cached head is the fallback.
	cached, _ := c.historyCache.List(workspaceId)
	c.historyCache.Select(workspaceId, cached[0].Id)
	return cached[0]
}

func (c *sessionService) Select(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.SelectSessionResponse, error) {
	session, err := c.ResolveOwned(ctx, userId, id)
	if err != nil {
		return nil, err
	}

	c.historyCache.Upsert(session)
	c.historyCache.Select(session.WorkspaceId, session.Id)
	return &dto.SelectSessionResponse{Id: session.Id}, nil
}

func (c *sessionService) ResolveOwned(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*entity.ChatSession, error) {
	session, err := c.sessionResolver.Resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.UserId != userId {
		// Ownership failures look identical to absence from the outside.
		return nil, apperr.NotFound("chat session")
	}
	return session, nil
}

func (c *sessionService) EnsureForMessage(ctx context.Context, userId, workspaceId uuid.UUID, variant entity.SessionVariant, firstMessage string) (*entity.ChatSession, error) {
	session := newSession(userId, workspaceId, variant, "")
	if !variant.RequiresEagerCreation() {
		session.Name = nameFromMessage(firstMessage)
	}

	if err := c.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	c.historyCache.Upsert(session)
	c.historyCache.Select(workspaceId, session.Id)
	c.publishRefresh(ctx, workspaceId)
	c.publishLifecycle(ctx, "SESSION_CREATED", session)
	return session, nil
}

func (c *sessionService) publishRefresh(ctx context.Context, workspaceId uuid.UUID) {
	payload, err := marshalRefresh(workspaceId)
	if err != nil {
		return
	}
	if err := c.publisherService.Publish(ctx, payload); err != nil {
		c.logger.Warn("session", "failed to publish history refresh", map[string]interface{}{
			"workspace_id": workspaceId,
			"error":        err.Error(),
		})
	}
}

func (c *sessionService) publishLifecycle(ctx context.Context, eventType string, session *entity.ChatSession) {
	if c.eventPublisher == nil {
		return
	}
	evt := events.BaseEvent{
		Type: eventType,
		Data: map[string]interface{}{
			"session_id":   session.Id,
			"workspace_id": session.WorkspaceId,
			"user_id":      session.UserId,
			"variant":      string(session.Variant),
		},
		OccurredAt: time.Now(),
	}
	// Auxiliary bus, a failed publish never fails the request.
	if err := c.eventPublisher.Publish(ctx, evt); err != nil {
		fmt.Printf("[WARN] Failed to publish %s event: %v\n", eventType, err)
	}
}

// newSession builds a session with the variant's default name and
// description filled in.
func newSession(userId, workspaceId uuid.UUID, variant entity.SessionVariant, name string) *entity.ChatSession {
	session := &entity.ChatSession{
		Id:          uuid.New(),
		UserId:      userId,
		WorkspaceId: workspaceId,
		Variant:     variant,
		Name:        truncateName(name, constant.SessionNameMaxLen),
		Sharing:     constant.DefaultSharing,
		Messages:    make([]entity.ChatMessage, 0),
		CreatedAt:   time.Now(),
	}

	switch variant {
	case entity.SessionVariantNews:
		session.Description = constant.NewsSessionDescription
		if session.Name == "" {
			session.Name = constant.NewsSessionName
		}
	case entity.SessionVariantRetrieval:
		session.Description = constant.RetrievalSessionDesc
		if session.Name == "" {
			session.Name = constant.RetrievalSessionName
		}
	default:
		session.Description = constant.PlainSessionDescription
		if session.Name == "" {
			session.Name = constant.UnnamedSessionName
		}
	}
	return session
}

// nameFromMessage derives a session display name from the first outgoing
// message, truncated rune-safe.
func nameFromMessage(content string) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return constant.UnnamedSessionName
	}
	return truncateName(content, constant.SessionNameMaxLen)
}

func truncateName(name string, max int) string {
	runes := []rune(name)
	if len(runes) <= max {
		return name
	}
	return string(runes[:max])
}

func sessionToResponse(session *entity.ChatSession) dto.SessionResponse {
	return dto.SessionResponse{
		Id:          session.Id,
		WorkspaceId: session.WorkspaceId,
		Variant:     string(session.Variant),
		Name:        session.Name,
		ShortTitle:  truncateName(session.Name, constant.SessionNameShortLen),
		Description: session.Description,
		Sharing:     session.Sharing,
		CreatedAt:   session.CreatedAt,
		UpdatedAt:   session.UpdatedAt,
	}
}

func messageToResponse(message entity.ChatMessage) dto.MessageResponse {
	return dto.MessageResponse{
		Id:        message.Id,
		Sender:    string(message.Sender),
		Content:   message.Content,
		Type:      string(message.Kind),
		FileName:  message.FileName,
		FileUrl:   message.FileUrl,
		Pending:   message.Pending,
		CreatedAt: message.CreatedAt,
	}
}
