package dto

import "github.com/google/uuid"

// RefreshHistoryMessage asks the background consumer to re-pull a
// workspace's session list from the document store into the history cache.
type RefreshHistoryMessage struct {
	WorkspaceId uuid.UUID `json:"workspace_id"`
}
