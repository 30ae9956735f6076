package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"ai-chatspace-gateway/internal/constant"
	"ai-chatspace-gateway/internal/entity"
	"ai-chatspace-gateway/internal/pkg/logger"
	"ai-chatspace-gateway/internal/repository/memory"
	"ai-chatspace-gateway/pkg/loader"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticFetcher(items []entity.WorkspaceResource, err error) loader.ResourceFetcher {
	return func(ctx context.Context, workspaceId uuid.UUID) ([]entity.WorkspaceResource, error) {
		return items, err
	}
}

func newTestLoader(fetchers map[entity.ResourceKind]loader.ResourceFetcher, sessions loader.SessionLister) *loader.ParallelLoader {
	return loader.New(fetchers, sessions, nil, logger.NewNop())
}

func newTestWorkspaceService(repo *fakeWorkspaceRepo, l *loader.ParallelLoader, cache *memory.HistoryCache, readinessTimeout time.Duration) IWorkspaceService {
	return NewWorkspaceService(repo, l, cache, readinessTimeout, time.Second, logger.NewNop())
}

func TestSnapshotDerivesFallbackChatSettings(t *testing.T) {
	repo := newFakeWorkspaceRepo()
	userId := uuid.New()
	workspace := &entity.Workspace{Id: uuid.New(), UserId: userId, Name: "작업 공간", CreatedAt: time.Now()}
	require.NoError(t, repo.Create(context.Background(), workspace))

	fetchers := map[entity.ResourceKind]loader.ResourceFetcher{
		entity.ResourceAssistants: staticFetcher(nil, nil),
	}
	sessions := func(ctx context.Context, workspaceId uuid.UUID) ([]*entity.ChatSession, error) {
		return nil, nil
	}

	svc := newTestWorkspaceService(repo, newTestLoader(fetchers, sessions), memory.NewHistoryCache(), time.Second)
	snapshot, err := svc.Snapshot(context.Background(), userId, workspace.Id)
	require.NoError(t, err)

	assert.Equal(t, string(entity.LoadPhaseReady), snapshot.Phase)
	assert.False(t, snapshot.Partial)
	assert.Equal(t, entity.FallbackModel, snapshot.ChatSettings.Model)
	assert.Equal(t, entity.FallbackPrompt, snapshot.ChatSettings.Prompt)
	assert.Equal(t, entity.FallbackTemperature, snapshot.ChatSettings.Temperature)
	assert.Equal(t, entity.FallbackContextLength, snapshot.ChatSettings.ContextLength)
}

func TestSnapshotPartialFailureKeepsLoadedKinds(t *testing.T) {
	repo := newFakeWorkspaceRepo()
	userId := uuid.New()
	workspace := &entity.Workspace{Id: uuid.New(), UserId: userId, Name: "ws", CreatedAt: time.Now()}
	require.NoError(t, repo.Create(context.Background(), workspace))

	prompts := []entity.WorkspaceResource{{Id: uuid.New(), Name: "기본 프롬프트"}}
	fetchers := map[entity.ResourceKind]loader.ResourceFetcher{
		entity.ResourcePrompts: staticFetcher(prompts, nil),
		entity.ResourceFiles:   staticFetcher(nil, errors.New("connection refused")),
	}
	sessions := func(ctx context.Context, workspaceId uuid.UUID) ([]*entity.ChatSession, error) {
		return []*entity.ChatSession{{Id: uuid.New(), WorkspaceId: workspaceId, CreatedAt: time.Now()}}, nil
	}

	cache := memory.NewHistoryCache()
	svc := newTestWorkspaceService(repo, newTestLoader(fetchers, sessions), cache, time.Second)
	snapshot, err := svc.Snapshot(context.Background(), userId, workspace.Id)
	require.NoError(t, err, "a partial load is not an error")

	assert.True(t, snapshot.Partial)
	assert.Equal(t, "ok", snapshot.Resources[string(entity.ResourcePrompts)].Status)
	assert.Len(t, snapshot.Resources[string(entity.ResourcePrompts)].Items, 1)
	assert.Equal(t, "failed", snapshot.Resources[string(entity.ResourceFiles)].Status)
	assert.Len(t, snapshot.Sessions, 1, "sessions load independently of failed kinds")

	cached, ok := cache.List(workspace.Id)
	assert.True(t, ok)
	assert.Len(t, cached, 1)
}

func TestSnapshotForcedAfterReadinessTimeout(t *testing.T) {
	repo := newFakeWorkspaceRepo()
	release := make(chan struct{})
	repo.findDelay = func() { <-release }
	defer close(release)

	svc := newTestWorkspaceService(repo, newTestLoader(nil, nil), memory.NewHistoryCache(), 20*time.Millisecond)
	snapshot, err := svc.Snapshot(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)

	assert.Equal(t, string(entity.LoadPhaseTimedOut), snapshot.Phase)
	assert.True(t, snapshot.Partial)
	assert.Equal(t, entity.FallbackModel, snapshot.ChatSettings.Model, "forced proceed renders with defaults")
	assert.Empty(t, snapshot.Sessions)
}

func TestSnapshotStoreErrorSurfacesBeforeTimeout(t *testing.T) {
	repo := newFakeWorkspaceRepo()
	repo.findErr = errors.New("document store unreachable")

	svc := newTestWorkspaceService(repo, newTestLoader(nil, nil), memory.NewHistoryCache(), 300*time.Millisecond)

	start := time.Now()
	snapshot, err := svc.Snapshot(context.Background(), uuid.New(), uuid.New())

	require.Error(t, err)
	assert.Nil(t, snapshot)
	assert.ErrorContains(t, err, "document store unreachable")
	assert.Less(t, time.Since(start), 100*time.Millisecond, "a definite store failure must not wait out the gate")
}

func TestSnapshotProvisionsHomeWorkspace(t *testing.T) {
	repo := newFakeWorkspaceRepo()
	userId := uuid.New()

	sessions := func(ctx context.Context, workspaceId uuid.UUID) ([]*entity.ChatSession, error) {
		return nil, nil
	}

	svc := newTestWorkspaceService(repo, newTestLoader(nil, sessions), memory.NewHistoryCache(), time.Second)
	snapshot, err := svc.Snapshot(context.Background(), userId, uuid.Nil)
	require.NoError(t, err)

	require.Len(t, repo.created, 1)
	assert.Equal(t, constant.HomeWorkspaceName, repo.created[0].Name)
	assert.True(t, repo.created[0].IsHome)
	assert.Equal(t, repo.created[0].Id, snapshot.Workspace.Id)
}

func TestSnapshotFallsBackToHomeForForeignWorkspace(t *testing.T) {
	repo := newFakeWorkspaceRepo()
	userId := uuid.New()
	home := &entity.Workspace{Id: uuid.New(), UserId: userId, Name: constant.HomeWorkspaceName, IsHome: true, CreatedAt: time.Now()}
	require.NoError(t, repo.Create(context.Background(), home))

	other := &entity.Workspace{Id: uuid.New(), UserId: uuid.New(), Name: "남의 것", CreatedAt: time.Now()}
	require.NoError(t, repo.Create(context.Background(), other))

	sessions := func(ctx context.Context, workspaceId uuid.UUID) ([]*entity.ChatSession, error) {
		return nil, nil
	}

	svc := newTestWorkspaceService(repo, newTestLoader(nil, sessions), memory.NewHistoryCache(), time.Second)
	snapshot, err := svc.Snapshot(context.Background(), userId, other.Id)
	require.NoError(t, err)

	assert.Equal(t, home.Id, snapshot.Workspace.Id, "foreign workspaces resolve to the user's home")
}
