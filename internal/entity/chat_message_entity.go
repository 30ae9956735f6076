package entity

import (
	"time"

	"github.com/google/uuid"
)

type MessageSender string

const (
	MessageSenderUser      MessageSender = "user"
	MessageSenderAssistant MessageSender = "assistant"
	MessageSenderError     MessageSender = "error"
)

// MessageKind is the closed set of content kinds a message body can carry.
// The wire values match what the query services declare in their responses.
type MessageKind string

const (
	MessageKindText          MessageKind = "text"
	MessageKindReactSnippet  MessageKind = "react"
	MessageKindDashboard     MessageKind = "dashboard"
	MessageKindFileReference MessageKind = "file"
	MessageKindError         MessageKind = "error"
)

// ParseMessageKind maps a declared content kind onto the closed variant.
// Unknown kinds degrade to text rather than dropping the content.
func ParseMessageKind(raw string) (MessageKind, bool) {
	switch MessageKind(raw) {
	case MessageKindText, MessageKindReactSnippet, MessageKindDashboard,
		MessageKindFileReference, MessageKindError:
		return MessageKind(raw), true
	case "":
		return MessageKindText, true
	}
	return MessageKindText, false
}

// ChatMessage is one entry in a session's ordered message sequence.
// Id doubles as the correlation identifier for placeholder reconciliation:
// an in-flight send locates its pending assistant entry by Id, never by
// position in the slice.
type ChatMessage struct {
	Id        uuid.UUID
	Sender    MessageSender
	Kind      MessageKind
	Content   string
	FileName  string
	FileUrl   string
	Pending   bool
	CreatedAt time.Time
}
