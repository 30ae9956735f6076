package model

import (
	"encoding/json"
	"time"
)

// MessageRecord is the wire shape of one message inside a session document.
type MessageRecord struct {
	Id        string     `json:"id,omitempty"`
	Sender    string     `json:"sender"`
	Content   string     `json:"content"`
	Type      string     `json:"type,omitempty"`
	FileName  string     `json:"file_name,omitempty"`
	FileUrl   string     `json:"file_url,omitempty"`
	Pending   bool       `json:"pending,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// SessionRecord is the document-store shape of a session. Messages stays raw
// because older documents store the array double-encoded as a JSON string.
type SessionRecord struct {
	Id          string          `json:"id"`
	UserId      string          `json:"user_id"`
	WorkspaceId string          `json:"workspace_id"`
	Variant     string          `json:"variant,omitempty"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Sharing     string          `json:"sharing,omitempty"`
	Messages    json.RawMessage `json:"messages,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   *time.Time      `json:"updated_at,omitempty"`
}
