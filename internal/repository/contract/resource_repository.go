package contract

import (
	"context"

	"ai-chatspace-gateway/internal/entity"

	"github.com/google/uuid"
)

// ResourceRepository lists the generic workspace collections (folders, files,
// presets, prompts, assistants, tools, models, collections).
type ResourceRepository interface {
	ListByWorkspaceId(ctx context.Context, kind entity.ResourceKind, workspaceId uuid.UUID) ([]entity.WorkspaceResource, error)
}

// AssetRepository resolves stored binary assets to base64 previews.
type AssetRepository interface {
	FetchPreview(ctx context.Context, imagePath string) (string, error)
}
