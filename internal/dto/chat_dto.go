package dto

import (
	"time"

	"github.com/google/uuid"
)

// SendMessageRequest targets an existing session when SessionId is set.
// When it is empty the session is created lazily from this first message,
// which requires WorkspaceId.
type SendMessageRequest struct {
	SessionId   uuid.UUID `json:"session_id"`
	WorkspaceId uuid.UUID `json:"workspace_id"`
	Variant     string    `json:"variant" validate:"omitempty,oneof=plain retrieval news"`
	Content     string    `json:"content" validate:"required"`
}

type MessageResponse struct {
	Id        uuid.UUID `json:"id"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	Type      string    `json:"type"`
	FileName  string    `json:"file_name,omitempty"`
	FileUrl   string    `json:"file_url,omitempty"`
	Pending   bool      `json:"pending,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SendMessageResponse returns both halves of one exchange: the persisted
// user message and the finalized assistant reply that replaced its
// placeholder.
type SendMessageResponse struct {
	SessionId uuid.UUID       `json:"session_id"`
	User      MessageResponse `json:"user"`
	Assistant MessageResponse `json:"assistant"`
}

type UploadMessageResponse struct {
	SessionId uuid.UUID       `json:"session_id"`
	Message   MessageResponse `json:"message"`
	Status    string          `json:"status"`
}
