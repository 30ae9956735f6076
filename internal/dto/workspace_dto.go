package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateWorkspaceRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type WorkspaceResponse struct {
	Id                 uuid.UUID  `json:"id"`
	Name               string     `json:"name"`
	IsHome             bool       `json:"is_home"`
	DefaultModel       string     `json:"default_model"`
	DefaultPrompt      string     `json:"default_prompt"`
	DefaultTemperature float64    `json:"default_temperature"`
	EmbeddingsProvider string     `json:"embeddings_provider"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          *time.Time `json:"updated_at"`
}

type ChatSettingsResponse struct {
	Model              string  `json:"model"`
	Prompt             string  `json:"prompt"`
	Temperature        float64 `json:"temperature"`
	ContextLength      int     `json:"context_length"`
	EmbeddingsProvider string  `json:"embeddings_provider"`
}

// ResourceItemResponse is one named resource inside a workspace snapshot.
type ResourceItemResponse struct {
	Id           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	ImagePreview string    `json:"image_preview,omitempty"`
}

// ResourceGroupResponse carries one resource kind's items plus the outcome
// of its fetch, so a partial failure still renders the kinds that loaded.
type ResourceGroupResponse struct {
	Status string                 `json:"status"`
	Reason string                 `json:"reason,omitempty"`
	Items  []ResourceItemResponse `json:"items"`
}

type WorkspaceSnapshotResponse struct {
	Phase        string                           `json:"phase"`
	Reason       string                           `json:"reason,omitempty"`
	Workspace    WorkspaceResponse                `json:"workspace"`
	ChatSettings ChatSettingsResponse             `json:"chat_settings"`
	Resources    map[string]ResourceGroupResponse `json:"resources"`
	Sessions     []SessionResponse                `json:"sessions"`
	Partial      bool                             `json:"partial"`
}
