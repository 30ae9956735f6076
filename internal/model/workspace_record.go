package model

import "time"

type WorkspaceRecord struct {
	Id                   string     `json:"id"`
	UserId               string     `json:"user_id"`
	Name                 string     `json:"name"`
	IsHome               bool       `json:"is_home,omitempty"`
	DefaultModel         string     `json:"default_model,omitempty"`
	DefaultPrompt        string     `json:"default_prompt,omitempty"`
	DefaultTemperature   float64    `json:"default_temperature,omitempty"`
	DefaultContextLength int        `json:"default_context_length,omitempty"`
	EmbeddingsProvider   string     `json:"embeddings_provider,omitempty"`
	InterestTags         []string   `json:"interest_tags,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            *time.Time `json:"updated_at,omitempty"`
}

type ResourceRecord struct {
	Id          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	ImagePath   string     `json:"image_path,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}
