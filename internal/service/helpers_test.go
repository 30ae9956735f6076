package service

import (
	"context"
	"io"
	"sync"

	"ai-chatspace-gateway/internal/entity"
	"ai-chatspace-gateway/internal/pkg/logger"
	"ai-chatspace-gateway/internal/repository/memory"
	"ai-chatspace-gateway/internal/websocket"
	"ai-chatspace-gateway/pkg/ingest"
	"ai-chatspace-gateway/pkg/query"
	"ai-chatspace-gateway/pkg/resolver"

	"github.com/google/uuid"
)

// fakeSessionRepo is an in-memory stand-in for the document store.
type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*entity.ChatSession

	replaceCalls int
	appendErr    error
	replaceErr   error
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[uuid.UUID]*entity.ChatSession)}
}

func (f *fakeSessionRepo) Create(ctx context.Context, session *entity.ChatSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *session
	f.sessions[session.Id] = &stored
	return nil
}

func (f *fakeSessionRepo) Update(ctx context.Context, session *entity.ChatSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *session
	f.sessions[session.Id] = &stored
	return nil
}

func (f *fakeSessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, id)
	return nil
}

func (f *fakeSessionRepo) FindById(ctx context.Context, id uuid.UUID) (*entity.ChatSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.sessions[id]
	if !ok {
		return nil, nil
	}
	clone := *session
	clone.Messages = append([]entity.ChatMessage(nil), session.Messages...)
	return &clone, nil
}

func (f *fakeSessionRepo) FindAllByWorkspaceId(ctx context.Context, workspaceId uuid.UUID) ([]*entity.ChatSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*entity.ChatSession
	for _, session := range f.sessions {
		if session.WorkspaceId == workspaceId {
			clone := *session
			result = append(result, &clone)
		}
	}
	return result, nil
}

func (f *fakeSessionRepo) AppendMessage(ctx context.Context, sessionId uuid.UUID, message entity.ChatMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	session, ok := f.sessions[sessionId]
	if !ok {
		return nil
	}
	session.Messages = append(session.Messages, message)
	return nil
}

func (f *fakeSessionRepo) ReplaceMessage(ctx context.Context, sessionId uuid.UUID, message entity.ChatMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replaceCalls++
	if f.replaceErr != nil {
		return f.replaceErr
	}
	session, ok := f.sessions[sessionId]
	if !ok {
		return nil
	}
	for i := range session.Messages {
		if session.Messages[i].Id == message.Id {
			session.Messages[i] = message
			break
		}
	}
	return nil
}

func (f *fakeSessionRepo) stored(id uuid.UUID) *entity.ChatSession {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sessions[id]
}

// fakeWorkspaceRepo serves scripted workspaces.
type fakeWorkspaceRepo struct {
	mu         sync.Mutex
	workspaces map[uuid.UUID]*entity.Workspace
	created    []*entity.Workspace
	findDelay  func()
	findErr    error
}

func newFakeWorkspaceRepo() *fakeWorkspaceRepo {
	return &fakeWorkspaceRepo{workspaces: make(map[uuid.UUID]*entity.Workspace)}
}

func (f *fakeWorkspaceRepo) Create(ctx context.Context, workspace *entity.Workspace) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *workspace
	f.workspaces[workspace.Id] = &stored
	f.created = append(f.created, &stored)
	return nil
}

func (f *fakeWorkspaceRepo) Update(ctx context.Context, workspace *entity.Workspace) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *workspace
	f.workspaces[workspace.Id] = &stored
	return nil
}

func (f *fakeWorkspaceRepo) FindById(ctx context.Context, id uuid.UUID) (*entity.Workspace, error) {
	if f.findDelay != nil {
		f.findDelay()
	}
	if f.findErr != nil {
		return nil, f.findErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	workspace, ok := f.workspaces[id]
	if !ok {
		return nil, nil
	}
	clone := *workspace
	return &clone, nil
}

func (f *fakeWorkspaceRepo) FindAllByUserId(ctx context.Context, userId uuid.UUID) ([]*entity.Workspace, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*entity.Workspace
	for _, workspace := range f.workspaces {
		if workspace.UserId == userId {
			clone := *workspace
			result = append(result, &clone)
		}
	}
	return result, nil
}

func (f *fakeWorkspaceRepo) FindHomeByUserId(ctx context.Context, userId uuid.UUID) (*entity.Workspace, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, workspace := range f.workspaces {
		if workspace.UserId == userId && workspace.IsHome {
			clone := *workspace
			return &clone, nil
		}
	}
	return nil, nil
}

// fakeDispatcher returns a scripted query outcome.
type fakeDispatcher struct {
	resp     *query.Response
	err      error
	requests []query.Request
}

func (f *fakeDispatcher) Dispatch(ctx context.Context, req query.Request) (*query.Response, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

// fakeUploader returns a scripted ingestion outcome.
type fakeUploader struct {
	result *ingest.Result
	err    error
}

func (f *fakeUploader) UploadPdf(ctx context.Context, fileName string, content io.Reader) (*ingest.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

// capturePublisher records refresh payloads instead of publishing them.
type capturePublisher struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (c *capturePublisher) Publish(ctx context.Context, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.payloads = append(c.payloads, payload)
	return nil
}

func newTestSessionService(repo *fakeSessionRepo, cache *memory.HistoryCache) ISessionService {
	return NewSessionService(
		repo,
		resolver.New(repo, 3, 0),
		cache,
		&capturePublisher{},
		nil,
		logger.NewNop(),
	)
}

func newTestHub() *websocket.Hub {
	// Not running; Send with no registered clients and no Redis is a no-op.
	return websocket.NewHub(nil, logger.NewNop())
}
