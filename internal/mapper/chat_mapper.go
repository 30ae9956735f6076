package mapper

import (
	"encoding/json"

	"ai-chatspace-gateway/internal/entity"
	"ai-chatspace-gateway/internal/model"

	"github.com/google/uuid"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

func (m *ChatMapper) SessionToEntity(record *model.SessionRecord) (*entity.ChatSession, error) {
	id, err := uuid.Parse(record.Id)
	if err != nil {
		return nil, err
	}
	userId, err := uuid.Parse(record.UserId)
	if err != nil {
		return nil, err
	}
	workspaceId, err := uuid.Parse(record.WorkspaceId)
	if err != nil {
		return nil, err
	}

	messages, err := m.decodeMessages(record.Messages)
	if err != nil {
		return nil, err
	}

	variant := entity.SessionVariant(record.Variant)
	if variant == "" {
		variant = entity.SessionVariantPlain
	}

	return &entity.ChatSession{
		Id:          id,
		UserId:      userId,
		WorkspaceId: workspaceId,
		Variant:     variant,
		Name:        record.Name,
		Description: record.Description,
		Sharing:     record.Sharing,
		Messages:    messages,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}, nil
}

// decodeMessages tolerates both encodings found in the store: a plain JSON
// array and an array double-encoded as a JSON string.
func (m *ChatMapper) decodeMessages(raw json.RawMessage) ([]entity.ChatMessage, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return []entity.ChatMessage{}, nil
	}

	var records []model.MessageRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		var encoded string
		if err := json.Unmarshal(raw, &encoded); err != nil {
			return nil, err
		}
		if encoded == "" {
			return []entity.ChatMessage{}, nil
		}
		if err := json.Unmarshal([]byte(encoded), &records); err != nil {
			return nil, err
		}
	}

	messages := make([]entity.ChatMessage, 0, len(records))
	for _, r := range records {
		messages = append(messages, m.MessageToEntity(r))
	}
	return messages, nil
}

func (m *ChatMapper) MessageToEntity(record model.MessageRecord) entity.ChatMessage {
	id, err := uuid.Parse(record.Id)
	if err != nil {
		// Legacy messages persisted without ids still need a stable identity
		// in memory for placeholder correlation.
		id = uuid.New()
	}
	kind, _ := entity.ParseMessageKind(record.Type)

	msg := entity.ChatMessage{
		Id:       id,
		Sender:   entity.MessageSender(record.Sender),
		Kind:     kind,
		Content:  record.Content,
		FileName: record.FileName,
		FileUrl:  record.FileUrl,
		Pending:  record.Pending,
	}
	if record.CreatedAt != nil {
		msg.CreatedAt = *record.CreatedAt
	}
	return msg
}

func (m *ChatMapper) SessionToRecord(session *entity.ChatSession) (*model.SessionRecord, error) {
	records := make([]model.MessageRecord, 0, len(session.Messages))
	for _, msg := range session.Messages {
		records = append(records, m.MessageToRecord(msg))
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return nil, err
	}

	return &model.SessionRecord{
		Id:          session.Id.String(),
		UserId:      session.UserId.String(),
		WorkspaceId: session.WorkspaceId.String(),
		Variant:     string(session.Variant),
		Name:        session.Name,
		Description: session.Description,
		Sharing:     session.Sharing,
		Messages:    raw,
		CreatedAt:   session.CreatedAt,
		UpdatedAt:   session.UpdatedAt,
	}, nil
}

func (m *ChatMapper) MessageToRecord(msg entity.ChatMessage) model.MessageRecord {
	record := model.MessageRecord{
		Id:       msg.Id.String(),
		Sender:   string(msg.Sender),
		Content:  msg.Content,
		Type:     string(msg.Kind),
		FileName: msg.FileName,
		FileUrl:  msg.FileUrl,
		Pending:  msg.Pending,
	}
	if !msg.CreatedAt.IsZero() {
		createdAt := msg.CreatedAt
		record.CreatedAt = &createdAt
	}
	return record
}
