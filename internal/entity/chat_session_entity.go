package entity

import (
	"time"

	"github.com/google/uuid"
)

type SessionVariant string

const (
	SessionVariantPlain     SessionVariant = "plain"
	SessionVariantRetrieval SessionVariant = "retrieval"
	SessionVariantNews      SessionVariant = "news"
)

// RequiresEagerCreation reports whether the variant must be created up front.
// News sessions redirect straight to a freshly minted session URL, so there
// is no first outgoing message to defer creation to.
func (v SessionVariant) RequiresEagerCreation() bool {
	return v == SessionVariantNews
}

type ChatSession struct {
	Id          uuid.UUID
	UserId      uuid.UUID
	WorkspaceId uuid.UUID
	Variant     SessionVariant
	Name        string
	Description string
	Sharing     string
	Messages    []ChatMessage
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// LastUpdated falls back to the creation time for sessions never touched
// after creation, keeping updated-descending ordering total.
func (s *ChatSession) LastUpdated() time.Time {
	if s.UpdatedAt != nil {
		return *s.UpdatedAt
	}
	return s.CreatedAt
}

// FirstUserContent returns the first user message content, or empty when the
// session has no user turn yet. Used for display-name derivation.
func (s *ChatSession) FirstUserContent() string {
	for i := range s.Messages {
		if s.Messages[i].Sender == MessageSenderUser {
			return s.Messages[i].Content
		}
	}
	return ""
}
