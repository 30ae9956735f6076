package contract

import (
	"context"

	"ai-chatspace-gateway/internal/entity"

	"github.com/google/uuid"
)

// WorkspaceRepository is the document-store boundary for workspaces.
// FindById returns (nil, nil) when the workspace does not exist; callers
// decide whether absence is an error.
type WorkspaceRepository interface {
	Create(ctx context.Context, workspace *entity.Workspace) error
	Update(ctx context.Context, workspace *entity.Workspace) error
	FindById(ctx context.Context, id uuid.UUID) (*entity.Workspace, error)
	FindAllByUserId(ctx context.Context, userId uuid.UUID) ([]*entity.Workspace, error)
	FindHomeByUserId(ctx context.Context, userId uuid.UUID) (*entity.Workspace, error)
}
