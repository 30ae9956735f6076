package docstore

import (
	"context"
	"sort"

	"ai-chatspace-gateway/internal/entity"
	"ai-chatspace-gateway/internal/mapper"
	"ai-chatspace-gateway/internal/model"
	"ai-chatspace-gateway/internal/repository/contract"

	"github.com/google/uuid"
)

type ChatSessionRepositoryImpl struct {
	client *Client
	mapper *mapper.ChatMapper
}

func NewChatSessionRepository(client *Client) contract.ChatSessionRepository {
	return &ChatSessionRepositoryImpl{
		client: client,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *ChatSessionRepositoryImpl) Create(ctx context.Context, session *entity.ChatSession) error {
	record, err := r.mapper.SessionToRecord(session)
	if err != nil {
		return err
	}
	var created model.SessionRecord
	if err := r.client.postJSON(ctx, "/sessions", record, &created); err != nil {
		return err
	}
	stored, err := r.mapper.SessionToEntity(&created)
	if err != nil {
		return err
	}
	*session = *stored
	return nil
}

func (r *ChatSessionRepositoryImpl) Update(ctx context.Context, session *entity.ChatSession) error {
	record, err := r.mapper.SessionToRecord(session)
	if err != nil {
		return err
	}
	var updated model.SessionRecord
	if err := r.client.putJSON(ctx, "/sessions/"+session.Id.String(), record, &updated); err != nil {
		return err
	}
	stored, err := r.mapper.SessionToEntity(&updated)
	if err != nil {
		return err
	}
	*session = *stored
	return nil
}

func (r *ChatSessionRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.client.delete(ctx, "/sessions/"+id.String())
}

func (r *ChatSessionRepositoryImpl) FindById(ctx context.Context, id uuid.UUID) (*entity.ChatSession, error) {
	var record model.SessionRecord
	found, err := r.client.getJSON(ctx, "/sessions/"+id.String(), &record)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return r.mapper.SessionToEntity(&record)
}

func (r *ChatSessionRepositoryImpl) FindAllByWorkspaceId(ctx context.Context, workspaceId uuid.UUID) ([]*entity.ChatSession, error) {
	var records []model.SessionRecord
	found, err := r.client.getJSON(ctx, "/workspaces/"+workspaceId.String()+"/sessions", &records)
	if err != nil {
		return nil, err
	}
	if !found {
		return []*entity.ChatSession{}, nil
	}

	sessions := make([]*entity.ChatSession, 0, len(records))
	for i := range records {
		session, err := r.mapper.SessionToEntity(&records[i])
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}

	// The store does not guarantee ordering; enforce updated-descending here.
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].LastUpdated().After(sessions[j].LastUpdated())
	})
	return sessions, nil
}

func (r *ChatSessionRepositoryImpl) AppendMessage(ctx context.Context, sessionId uuid.UUID, message entity.ChatMessage) error {
	record := r.mapper.MessageToRecord(message)
	return r.client.postJSON(ctx, "/sessions/"+sessionId.String()+"/messages", record, nil)
}

func (r *ChatSessionRepositoryImpl) ReplaceMessage(ctx context.Context, sessionId uuid.UUID, message entity.ChatMessage) error {
	record := r.mapper.MessageToRecord(message)
	return r.client.putJSON(ctx, "/sessions/"+sessionId.String()+"/messages/"+message.Id.String(), record, nil)
}
