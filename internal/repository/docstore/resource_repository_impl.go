package docstore

import (
	"context"
	"encoding/base64"
	"net/url"

	"ai-chatspace-gateway/internal/entity"
	"ai-chatspace-gateway/internal/mapper"
	"ai-chatspace-gateway/internal/model"
	"ai-chatspace-gateway/internal/repository/contract"

	"github.com/google/uuid"
)

type ResourceRepositoryImpl struct {
	client *Client
	mapper *mapper.WorkspaceMapper
}

func NewResourceRepository(client *Client) contract.ResourceRepository {
	return &ResourceRepositoryImpl{
		client: client,
		mapper: mapper.NewWorkspaceMapper(),
	}
}

func (r *ResourceRepositoryImpl) ListByWorkspaceId(ctx context.Context, kind entity.ResourceKind, workspaceId uuid.UUID) ([]entity.WorkspaceResource, error) {
	var records []model.ResourceRecord
	path := "/workspaces/" + workspaceId.String() + "/" + string(kind)
	found, err := r.client.getJSON(ctx, path, &records)
	if err != nil {
		return nil, err
	}
	if !found {
		return []entity.WorkspaceResource{}, nil
	}

	items := make([]entity.WorkspaceResource, 0, len(records))
	for _, record := range records {
		item, err := r.mapper.ResourceToEntity(record)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

type AssetRepositoryImpl struct {
	client *Client
}

func NewAssetRepository(client *Client) contract.AssetRepository {
	return &AssetRepositoryImpl{client: client}
}

// FetchPreview downloads the stored binary and returns it base64-encoded for
// inline display.
func (r *AssetRepositoryImpl) FetchPreview(ctx context.Context, imagePath string) (string, error) {
	raw, err := r.client.getBytes(ctx, "/storage/"+url.PathEscape(imagePath))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}
