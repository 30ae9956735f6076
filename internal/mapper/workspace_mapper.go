package mapper

import (
	"ai-chatspace-gateway/internal/entity"
	"ai-chatspace-gateway/internal/model"

	"github.com/google/uuid"
)

type WorkspaceMapper struct{}

func NewWorkspaceMapper() *WorkspaceMapper {
	return &WorkspaceMapper{}
}

func (m *WorkspaceMapper) ToEntity(record *model.WorkspaceRecord) (*entity.Workspace, error) {
	id, err := uuid.Parse(record.Id)
	if err != nil {
		return nil, err
	}
	userId, err := uuid.Parse(record.UserId)
	if err != nil {
		return nil, err
	}

	return &entity.Workspace{
		Id:                   id,
		UserId:               userId,
		Name:                 record.Name,
		IsHome:               record.IsHome,
		DefaultModel:         record.DefaultModel,
		DefaultPrompt:        record.DefaultPrompt,
		DefaultTemperature:   record.DefaultTemperature,
		DefaultContextLength: record.DefaultContextLength,
		EmbeddingsProvider:   record.EmbeddingsProvider,
		InterestTags:         record.InterestTags,
		CreatedAt:            record.CreatedAt,
		UpdatedAt:            record.UpdatedAt,
	}, nil
}

func (m *WorkspaceMapper) ToRecord(workspace *entity.Workspace) *model.WorkspaceRecord {
	return &model.WorkspaceRecord{
		Id:                   workspace.Id.String(),
		UserId:               workspace.UserId.String(),
		Name:                 workspace.Name,
		IsHome:               workspace.IsHome,
		DefaultModel:         workspace.DefaultModel,
		DefaultPrompt:        workspace.DefaultPrompt,
		DefaultTemperature:   workspace.DefaultTemperature,
		DefaultContextLength: workspace.DefaultContextLength,
		EmbeddingsProvider:   workspace.EmbeddingsProvider,
		InterestTags:         workspace.InterestTags,
		CreatedAt:            workspace.CreatedAt,
		UpdatedAt:            workspace.UpdatedAt,
	}
}

func (m *WorkspaceMapper) ResourceToEntity(record model.ResourceRecord) (entity.WorkspaceResource, error) {
	id, err := uuid.Parse(record.Id)
	if err != nil {
		return entity.WorkspaceResource{}, err
	}
	return entity.WorkspaceResource{
		Id:          id,
		Name:        record.Name,
		Description: record.Description,
		ImagePath:   record.ImagePath,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}, nil
}
