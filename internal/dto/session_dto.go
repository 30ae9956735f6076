package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateSessionRequest struct {
	WorkspaceId uuid.UUID `json:"workspace_id" validate:"required"`
	Variant     string    `json:"variant" validate:"omitempty,oneof=plain retrieval news"`
	Name        string    `json:"name" validate:"omitempty,max=100"`
}

type RenameSessionRequest struct {
	Id   uuid.UUID
	Name string `json:"name" validate:"required,max=100"`
}

// SessionResponse carries one history entry. ShortTitle is the truncated
// form rendered in the history dropdown.
type SessionResponse struct {
	Id          uuid.UUID  `json:"id"`
	WorkspaceId uuid.UUID  `json:"workspace_id"`
	Variant     string     `json:"variant"`
	Name        string     `json:"name"`
	ShortTitle  string     `json:"short_title"`
	Description string     `json:"description,omitempty"`
	Sharing     string     `json:"sharing"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

// SessionDetailResponse includes the message history.
type SessionDetailResponse struct {
	SessionResponse
	Messages []MessageResponse `json:"messages"`
}

// DeleteSessionResponse reports which session the client should switch to
// after a deletion, if the deleted one was selected.
type DeleteSessionResponse struct {
	Id               uuid.UUID  `json:"id"`
	FallbackId       *uuid.UUID `json:"fallback_id,omitempty"`
	SelectionChanged bool       `json:"selection_changed"`
}

type SelectSessionResponse struct {
	Id uuid.UUID `json:"id"`
}
