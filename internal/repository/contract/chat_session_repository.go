package contract

import (
	"context"

	"ai-chatspace-gateway/internal/entity"

	"github.com/google/uuid"
)

// ChatSessionRepository is the document-store boundary for sessions. The
// store is eventually consistent: a session created elsewhere may not be
// readable immediately, so FindById returning (nil, nil) does not prove
// absence. Callers retry before concluding NotFound.
type ChatSessionRepository interface {
	Create(ctx context.Context, session *entity.ChatSession) error
	Update(ctx context.Context, session *entity.ChatSession) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindById(ctx context.Context, id uuid.UUID) (*entity.ChatSession, error)
	// FindAllByWorkspaceId lists sessions ordered by last update, newest first.
	FindAllByWorkspaceId(ctx context.Context, workspaceId uuid.UUID) ([]*entity.ChatSession, error)
	// AppendMessage appends one message to the session's durable log.
	AppendMessage(ctx context.Context, sessionId uuid.UUID, message entity.ChatMessage) error
	// ReplaceMessage overwrites the message with the same id in the durable log.
	ReplaceMessage(ctx context.Context, sessionId uuid.UUID, message entity.ChatMessage) error
}
