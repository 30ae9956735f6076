package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"ai-chatspace-gateway/internal/constant"
	"ai-chatspace-gateway/internal/dto"
	"ai-chatspace-gateway/internal/entity"
	"ai-chatspace-gateway/internal/pkg/apperr"
	"ai-chatspace-gateway/internal/pkg/logger"
	"ai-chatspace-gateway/internal/repository/memory"
	"ai-chatspace-gateway/pkg/query"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatFixture struct {
	repo       *fakeSessionRepo
	cache      *memory.HistoryCache
	dispatcher *fakeDispatcher
	uploader   *fakeUploader
	service    IChatService

	userId      uuid.UUID
	workspaceId uuid.UUID
}

func newChatFixture(dispatcher *fakeDispatcher) *chatFixture {
	repo := newFakeSessionRepo()
	cache := memory.NewHistoryCache()
	uploader := &fakeUploader{}
	sessionService := newTestSessionService(repo, cache)

	f := &chatFixture{
		repo:        repo,
		cache:       cache,
		dispatcher:  dispatcher,
		uploader:    uploader,
		userId:      uuid.New(),
		workspaceId: uuid.New(),
	}
	f.service = NewChatService(
		repo,
		sessionService,
		cache,
		dispatcher,
		uploader,
		newTestHub(),
		&capturePublisher{},
		time.Second,
		logger.NewNop(),
	)
	return f
}

func (f *chatFixture) seedSession(t *testing.T) *entity.ChatSession {
	t.Helper()
	session := &entity.ChatSession{
		Id:          uuid.New(),
		UserId:      f.userId,
		WorkspaceId: f.workspaceId,
		Variant:     entity.SessionVariantRetrieval,
		Name:        constant.UnnamedSessionName,
		Sharing:     constant.DefaultSharing,
		CreatedAt:   time.Now(),
	}
	require.NoError(t, f.repo.Create(context.Background(), session))
	return session
}

func TestSendMessageFinalizesPlaceholder(t *testing.T) {
	f := newChatFixture(&fakeDispatcher{
		resp: &query.Response{Text: "오늘의 주요 AI 뉴스입니다.", Type: "text"},
	})
	session := f.seedSession(t)

	res, err := f.service.SendMessage(context.Background(), f.userId, &dto.SendMessageRequest{
		SessionId: session.Id,
		Content:   "최신 AI 뉴스는?",
	})
	require.NoError(t, err)

	assert.Equal(t, "최신 AI 뉴스는?", res.User.Content)
	assert.Equal(t, "오늘의 주요 AI 뉴스입니다.", res.Assistant.Content)
	assert.False(t, res.Assistant.Pending)

	stored := f.repo.stored(session.Id)
	require.Len(t, stored.Messages, 2)
	assert.Equal(t, "최신 AI 뉴스는?", stored.Messages[0].Content)
	assert.Equal(t, "오늘의 주요 AI 뉴스입니다.", stored.Messages[1].Content)
	assert.False(t, stored.Messages[1].Pending, "placeholder must be reconciled in the durable log")
	assert.Equal(t, 1, f.repo.replaceCalls, "reconciliation runs exactly once")

	// The query goes out with the full correlation context.
	require.Len(t, f.dispatcher.requests, 1)
	assert.Equal(t, session.Id, f.dispatcher.requests[0].SessionId)
	assert.Equal(t, f.workspaceId, f.dispatcher.requests[0].WorkspaceId)
}

func TestSendMessageDispatchFailureKeepsUserMessage(t *testing.T) {
	f := newChatFixture(&fakeDispatcher{err: errors.New("connection refused")})
	session := f.seedSession(t)

	res, err := f.service.SendMessage(context.Background(), f.userId, &dto.SendMessageRequest{
		SessionId: session.Id,
		Content:   "최신 AI 뉴스는?",
	})
	require.NoError(t, err, "a failed dispatch is a degraded reply, not a request failure")

	assert.Equal(t, constant.ReplyErrorContent, res.Assistant.Content)
	assert.Equal(t, string(entity.MessageKindError), res.Assistant.Type)

	stored := f.repo.stored(session.Id)
	require.Len(t, stored.Messages, 2)
	assert.Equal(t, "최신 AI 뉴스는?", stored.Messages[0].Content, "the question must survive a lost reply")
	assert.Equal(t, constant.ReplyErrorContent, stored.Messages[1].Content)
}

func TestSendMessageEmptyReplyGetsSurrogate(t *testing.T) {
	f := newChatFixture(&fakeDispatcher{resp: &query.Response{Type: "text"}})
	session := f.seedSession(t)

	res, err := f.service.SendMessage(context.Background(), f.userId, &dto.SendMessageRequest{
		SessionId: session.Id,
		Content:   "질문입니다",
	})
	require.NoError(t, err)

	assert.Equal(t, constant.EmptyReplyContent, res.Assistant.Content)
}

func TestSendMessagePrefersStructuredContent(t *testing.T) {
	f := newChatFixture(&fakeDispatcher{
		resp: &query.Response{ReactCode: "<Chart data={data} />", Type: "react"},
	})
	session := f.seedSession(t)

	res, err := f.service.SendMessage(context.Background(), f.userId, &dto.SendMessageRequest{
		SessionId: session.Id,
		Content:   "차트로 보여줘",
	})
	require.NoError(t, err)

	assert.Equal(t, "<Chart data={data} />", res.Assistant.Content)
	assert.Equal(t, string(entity.MessageKindReactSnippet), res.Assistant.Type)
}

func TestSendMessageCreatesSessionLazily(t *testing.T) {
	f := newChatFixture(&fakeDispatcher{
		resp: &query.Response{Text: "답변", Type: "text"},
	})

	res, err := f.service.SendMessage(context.Background(), f.userId, &dto.SendMessageRequest{
		WorkspaceId: f.workspaceId,
		Content:     "처음 보내는 메시지입니다",
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, res.SessionId)

	stored := f.repo.stored(res.SessionId)
	require.NotNil(t, stored)
	assert.Equal(t, "처음 보내는 메시지입니다", stored.Name, "lazy session is named after the first message")
	assert.Equal(t, entity.SessionVariantPlain, stored.Variant)
}

func TestSendMessageDerivesNameFromLongFirstMessage(t *testing.T) {
	f := newChatFixture(&fakeDispatcher{
		resp: &query.Response{Text: "답변", Type: "text"},
	})

	long := strings.Repeat("가", 150)
	res, err := f.service.SendMessage(context.Background(), f.userId, &dto.SendMessageRequest{
		WorkspaceId: f.workspaceId,
		Content:     long,
	})
	require.NoError(t, err)

	stored := f.repo.stored(res.SessionId)
	require.NotNil(t, stored)
	assert.Equal(t, constant.SessionNameMaxLen, len([]rune(stored.Name)))
}

func TestSendMessageUnknownSessionAfterRetries(t *testing.T) {
	f := newChatFixture(&fakeDispatcher{})

	_, err := f.service.SendMessage(context.Background(), f.userId, &dto.SendMessageRequest{
		SessionId: uuid.New(),
		Content:   "유령 세션",
	})
	assert.Error(t, err)
	assert.Empty(t, f.dispatcher.requests, "no dispatch for an unresolvable session")
}

func TestUploadFileRejectsNonPdf(t *testing.T) {
	f := newChatFixture(&fakeDispatcher{})
	session := f.seedSession(t)

	_, err := f.service.UploadFile(context.Background(), f.userId, session.Id, "notes.docx", strings.NewReader("data"))
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestUploadFileFailureAppendsErrorMessage(t *testing.T) {
	f := newChatFixture(&fakeDispatcher{})
	f.uploader.err = errors.New("ingestion service down")
	session := f.seedSession(t)

	res, err := f.service.UploadFile(context.Background(), f.userId, session.Id, "report.pdf", strings.NewReader("%PDF"))
	require.NoError(t, err)

	assert.Equal(t, "failed", res.Status)
	assert.True(t, strings.HasPrefix(res.Message.Content, constant.UploadFailedContentPrefix))

	stored := f.repo.stored(session.Id)
	require.Len(t, stored.Messages, 1)
	assert.Equal(t, entity.MessageKindError, stored.Messages[0].Kind)
}
