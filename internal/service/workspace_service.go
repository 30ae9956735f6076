package service

import (
	"context"
	"time"

	"ai-chatspace-gateway/internal/constant"
	"ai-chatspace-gateway/internal/dto"
	"ai-chatspace-gateway/internal/entity"
	"ai-chatspace-gateway/internal/pkg/logger"
	"ai-chatspace-gateway/internal/repository/contract"
	"ai-chatspace-gateway/internal/repository/memory"
	"ai-chatspace-gateway/pkg/loader"
	"ai-chatspace-gateway/pkg/readiness"

	"github.com/google/uuid"
)

type IWorkspaceService interface {
	GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.WorkspaceResponse, error)
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateWorkspaceRequest) (*dto.WorkspaceResponse, error)
	// Snapshot assembles the full workspace view: readiness-gated workspace
	// resolution, parallel resource load, chat settings and session history.
	Snapshot(ctx context.Context, userId uuid.UUID, workspaceId uuid.UUID) (*dto.WorkspaceSnapshotResponse, error)
}

type workspaceService struct {
	workspaceRepo    contract.WorkspaceRepository
	resourceLoader   *loader.ParallelLoader
	historyCache     *memory.HistoryCache
	readinessTimeout time.Duration
	loadTimeout      time.Duration
	logger           logger.ILogger
}

func NewWorkspaceService(
	workspaceRepo contract.WorkspaceRepository,
	resourceLoader *loader.ParallelLoader,
	historyCache *memory.HistoryCache,
	readinessTimeout time.Duration,
	loadTimeout time.Duration,
	log logger.ILogger,
) IWorkspaceService {
	return &workspaceService{
		workspaceRepo:    workspaceRepo,
		resourceLoader:   resourceLoader,
		historyCache:     historyCache,
		readinessTimeout: readinessTimeout,
		loadTimeout:      loadTimeout,
		logger:           log,
	}
}

func (c *workspaceService) GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.WorkspaceResponse, error) {
	workspaces, err := c.workspaceRepo.FindAllByUserId(ctx, userId)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.WorkspaceResponse, 0, len(workspaces))
	for _, workspace := range workspaces {
		resp := workspaceToResponse(workspace)
		result = append(result, &resp)
	}
	return result, nil
}

func (c *workspaceService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateWorkspaceRequest) (*dto.WorkspaceResponse, error) {
	workspace := &entity.Workspace{
		Id:        uuid.New(),
		UserId:    userId,
		Name:      req.Name,
		CreatedAt: time.Now(),
	}
	if err := c.workspaceRepo.Create(ctx, workspace); err != nil {
		return nil, err
	}

	resp := workspaceToResponse(workspace)
	return &resp, nil
}

type workspaceResult struct {
	workspace *entity.Workspace
	err       error
}

func (c *workspaceService) Snapshot(ctx context.Context, userId uuid.UUID, workspaceId uuid.UUID) (*dto.WorkspaceSnapshotResponse, error) {
	gate := readiness.NewGate(c.readinessTimeout)
	defer gate.Close()

	// Identity came through the authenticated request itself.
	gate.IdentityAvailable()

	resultCh := make(chan workspaceResult, 1)
	go func() {
		workspace, err := c.resolveWorkspace(ctx, userId, workspaceId)
		if err == nil && workspace != nil {
			gate.WorkspaceSelected()
		}
		resultCh <- workspaceResult{workspace: workspace, err: err}
	}()

	// A resolved fetch beats the gate either way. Forcing is reserved for
	// a store that never answers, not one that answered with an error.
	var result workspaceResult
	select {
	case result = <-resultCh:
	case state := <-gate.Done():
		if state == readiness.StateForced {
			c.logger.Warn("workspace", "readiness gate forced, proceeding with defaults", map[string]interface{}{
				"user_id":      userId,
				"workspace_id": workspaceId,
			})
			return c.degradedSnapshot(workspaceId), nil
		}
		result = <-resultCh
	}
	if result.err != nil {
		return nil, result.err
	}
	workspace := result.workspace

	loadState := entity.NewLoadState()

	loadCtx, cancel := context.WithTimeout(ctx, c.loadTimeout)
	defer cancel()
	agg, partial := c.resourceLoader.Load(loadCtx, workspace.Id)

	// Switching workspaces resets the session view completely.
	c.historyCache.Reset(workspace.Id)
	if agg.Status[entity.ResourceSessions] == entity.ResourceStatusOk {
		c.historyCache.Put(workspace.Id, agg.Sessions)
	}

	if partial != nil {
		loadState.To(entity.LoadPhaseError, partial.Error())
		c.logger.Warn("workspace", "partial resource load", map[string]interface{}{
			"workspace_id": workspace.Id,
			"failed":       agg.FailedKinds(),
		})
	} else {
		loadState.To(entity.LoadPhaseReady, "")
	}

	return c.buildSnapshot(workspace, agg, loadState), nil
}

// resolveWorkspace loads the addressed workspace, falling back to the user's
// home workspace and provisioning one when the user has none at all.
func (c *workspaceService) resolveWorkspace(ctx context.Context, userId uuid.UUID, workspaceId uuid.UUID) (*entity.Workspace, error) {
	if workspaceId != uuid.Nil {
		workspace, err := c.workspaceRepo.FindById(ctx, workspaceId)
		if err != nil {
			return nil, err
		}
		if workspace != nil && workspace.UserId == userId {
			return workspace, nil
		}
	}

	home, err := c.workspaceRepo.FindHomeByUserId(ctx, userId)
	if err != nil {
		return nil, err
	}
	if home != nil {
		return home, nil
	}

	// First visit: provision the personal home workspace.
	home = &entity.Workspace{
		Id:        uuid.New(),
		UserId:    userId,
		Name:      constant.HomeWorkspaceName,
		IsHome:    true,
		CreatedAt: time.Now(),
	}
	if err := c.workspaceRepo.Create(ctx, home); err != nil {
		return nil, err
	}
	c.logger.Info("workspace", "provisioned home workspace", map[string]interface{}{
		"user_id":      userId,
		"workspace_id": home.Id,
	})
	return home, nil
}

func (c *workspaceService) buildSnapshot(workspace *entity.Workspace, agg *entity.ResourceAggregate, loadState entity.LoadState) *dto.WorkspaceSnapshotResponse {
	settings := workspace.DeriveChatSettings()

	resources := make(map[string]dto.ResourceGroupResponse, len(entity.AllResourceKinds))
	for _, kind := range entity.AllResourceKinds {
		if kind == entity.ResourceSessions {
			continue
		}
		group := dto.ResourceGroupResponse{
			Status: string(agg.Status[kind]),
			Reason: agg.Reasons[kind],
			Items:  make([]dto.ResourceItemResponse, 0, len(agg.Items[kind])),
		}
		for _, item := range agg.Items[kind] {
			resp := dto.ResourceItemResponse{
				Id:          item.Id,
				Name:        item.Name,
				Description: item.Description,
			}
			if kind == entity.ResourceAssistants {
				resp.ImagePreview = agg.AssistantPreviews[item.Id]
			}
			group.Items = append(group.Items, resp)
		}
		resources[string(kind)] = group
	}

	sessions := make([]dto.SessionResponse, 0, len(agg.Sessions))
	for _, session := range agg.Sessions {
		sessions = append(sessions, sessionToResponse(session))
	}

	return &dto.WorkspaceSnapshotResponse{
		Phase:     string(loadState.Phase),
		Reason:    loadState.Reason,
		Workspace: workspaceToResponse(workspace),
		ChatSettings: dto.ChatSettingsResponse{
			Model:              settings.Model,
			Prompt:             settings.Prompt,
			Temperature:        settings.Temperature,
			ContextLength:      settings.ContextLength,
			EmbeddingsProvider: settings.EmbeddingsProvider,
		},
		Resources: resources,
		Sessions:  sessions,
		Partial:   loadState.Phase != entity.LoadPhaseReady,
	}
}

// degradedSnapshot is the forced-proceed rendering: fallback chat settings,
// no resources, everything flagged so the client can retry narrowly.
func (c *workspaceService) degradedSnapshot(workspaceId uuid.UUID) *dto.WorkspaceSnapshotResponse {
	fallback := (&entity.Workspace{}).DeriveChatSettings()

	loadState := entity.NewLoadState()
	loadState.To(entity.LoadPhaseTimedOut, "workspace resolution timed out")

	return &dto.WorkspaceSnapshotResponse{
		Phase:  string(loadState.Phase),
		Reason: loadState.Reason,
		Workspace: dto.WorkspaceResponse{
			Id: workspaceId,
		},
		ChatSettings: dto.ChatSettingsResponse{
			Model:              fallback.Model,
			Prompt:             fallback.Prompt,
			Temperature:        fallback.Temperature,
			ContextLength:      fallback.ContextLength,
			EmbeddingsProvider: fallback.EmbeddingsProvider,
		},
		Resources: make(map[string]dto.ResourceGroupResponse),
		Sessions:  make([]dto.SessionResponse, 0),
		Partial:   true,
	}
}

func workspaceToResponse(workspace *entity.Workspace) dto.WorkspaceResponse {
	return dto.WorkspaceResponse{
		Id:                 workspace.Id,
		Name:               workspace.Name,
		IsHome:             workspace.IsHome,
		DefaultModel:       workspace.DefaultModel,
		DefaultPrompt:      workspace.DefaultPrompt,
		DefaultTemperature: workspace.DefaultTemperature,
		EmbeddingsProvider: workspace.EmbeddingsProvider,
		CreatedAt:          workspace.CreatedAt,
		UpdatedAt:          workspace.UpdatedAt,
	}
}
