package docstore

import (
	"context"

	"ai-chatspace-gateway/internal/entity"
	"ai-chatspace-gateway/internal/mapper"
	"ai-chatspace-gateway/internal/model"
	"ai-chatspace-gateway/internal/repository/contract"

	"github.com/google/uuid"
)

type WorkspaceRepositoryImpl struct {
	client *Client
	mapper *mapper.WorkspaceMapper
}

func NewWorkspaceRepository(client *Client) contract.WorkspaceRepository {
	return &WorkspaceRepositoryImpl{
		client: client,
		mapper: mapper.NewWorkspaceMapper(),
	}
}

func (r *WorkspaceRepositoryImpl) Create(ctx context.Context, workspace *entity.Workspace) error {
	record := r.mapper.ToRecord(workspace)
	var created model.WorkspaceRecord
	if err := r.client.postJSON(ctx, "/workspaces", record, &created); err != nil {
		return err
	}
	stored, err := r.mapper.ToEntity(&created)
	if err != nil {
		return err
	}
	*workspace = *stored
	return nil
}

func (r *WorkspaceRepositoryImpl) Update(ctx context.Context, workspace *entity.Workspace) error {
	record := r.mapper.ToRecord(workspace)
	var updated model.WorkspaceRecord
	if err := r.client.putJSON(ctx, "/workspaces/"+workspace.Id.String(), record, &updated); err != nil {
		return err
	}
	stored, err := r.mapper.ToEntity(&updated)
	if err != nil {
		return err
	}
	*workspace = *stored
	return nil
}

func (r *WorkspaceRepositoryImpl) FindById(ctx context.Context, id uuid.UUID) (*entity.Workspace, error) {
	var record model.WorkspaceRecord
	found, err := r.client.getJSON(ctx, "/workspaces/"+id.String(), &record)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return r.mapper.ToEntity(&record)
}

func (r *WorkspaceRepositoryImpl) FindAllByUserId(ctx context.Context, userId uuid.UUID) ([]*entity.Workspace, error) {
	var records []model.WorkspaceRecord
	found, err := r.client.getJSON(ctx, "/users/"+userId.String()+"/workspaces", &records)
	if err != nil {
		return nil, err
	}
	if !found {
		return []*entity.Workspace{}, nil
	}

	workspaces := make([]*entity.Workspace, 0, len(records))
	for i := range records {
		workspace, err := r.mapper.ToEntity(&records[i])
		if err != nil {
			return nil, err
		}
		workspaces = append(workspaces, workspace)
	}
	return workspaces, nil
}

func (r *WorkspaceRepositoryImpl) FindHomeByUserId(ctx context.Context, userId uuid.UUID) (*entity.Workspace, error) {
	workspaces, err := r.FindAllByUserId(ctx, userId)
	if err != nil {
		return nil, err
	}
	for _, workspace := range workspaces {
		if workspace.IsHome {
			return workspace, nil
		}
	}
	if len(workspaces) > 0 {
		return workspaces[0], nil
	}
	return nil, nil
}
