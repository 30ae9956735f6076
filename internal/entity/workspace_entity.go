package entity

import (
	"time"

	"github.com/google/uuid"
)

// Fallback generation settings applied when a workspace has no explicit defaults.
const (
	FallbackModel              = "gpt-4-1106-preview"
	FallbackPrompt             = "You are a friendly, helpful AI assistant."
	FallbackTemperature        = 0.5
	FallbackContextLength      = 4096
	FallbackEmbeddingsProvider = "openai"
)

type Workspace struct {
	Id                   uuid.UUID
	UserId               uuid.UUID
	Name                 string
	IsHome               bool
	DefaultModel         string
	DefaultPrompt        string
	DefaultTemperature   float64
	DefaultContextLength int
	EmbeddingsProvider   string
	InterestTags         []string
	CreatedAt            time.Time
	UpdatedAt            *time.Time
}

// ChatSettings is the per-workspace generation profile handed to the query services.
type ChatSettings struct {
	Model              string
	Prompt             string
	Temperature        float64
	ContextLength      int
	EmbeddingsProvider string
}

// DeriveChatSettings resolves the workspace defaults, falling back field by field.
func (w *Workspace) DeriveChatSettings() ChatSettings {
	settings := ChatSettings{
		Model:              w.DefaultModel,
		Prompt:             w.DefaultPrompt,
		Temperature:        w.DefaultTemperature,
		ContextLength:      w.DefaultContextLength,
		EmbeddingsProvider: w.EmbeddingsProvider,
	}
	if settings.Model == "" {
		settings.Model = FallbackModel
	}
	if settings.Prompt == "" {
		settings.Prompt = FallbackPrompt
	}
	if settings.Temperature == 0 {
		settings.Temperature = FallbackTemperature
	}
	if settings.ContextLength == 0 {
		settings.ContextLength = FallbackContextLength
	}
	if settings.EmbeddingsProvider == "" {
		settings.EmbeddingsProvider = FallbackEmbeddingsProvider
	}
	return settings
}
