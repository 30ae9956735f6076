package entity

import (
	"time"

	"github.com/google/uuid"
)

// ResourceKind identifies one workspace-scoped collection in the document store.
type ResourceKind string

const (
	ResourceAssistants  ResourceKind = "assistants"
	ResourceSessions    ResourceKind = "sessions"
	ResourceCollections ResourceKind = "collections"
	ResourceFolders     ResourceKind = "folders"
	ResourceFiles       ResourceKind = "files"
	ResourcePresets     ResourceKind = "presets"
	ResourcePrompts     ResourceKind = "prompts"
	ResourceTools       ResourceKind = "tools"
	ResourceModels      ResourceKind = "models"
)

type ResourceStatus string

const (
	ResourceStatusPending ResourceStatus = "pending"
	ResourceStatusOk      ResourceStatus = "ok"
	ResourceStatusFailed  ResourceStatus = "failed"
)

// WorkspaceResource is a generic item of any non-session collection.
type WorkspaceResource struct {
	Id          uuid.UUID
	Name        string
	Description string
	ImagePath   string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// ResourceAggregate is the best-effort snapshot of every collection of one
// workspace. Each kind carries its own status; a failed kind never blocks the
// others from being populated.
type ResourceAggregate struct {
	WorkspaceId uuid.UUID
	Items       map[ResourceKind][]WorkspaceResource
	Sessions    []*ChatSession
	Status      map[ResourceKind]ResourceStatus
	Reasons     map[ResourceKind]string

	// AssistantPreviews maps assistant id to its base64-encoded avatar. An
	// assistant whose secondary preview fetch failed has an empty entry.
	AssistantPreviews map[uuid.UUID]string
}

// AllResourceKinds lists kinds in the order the loader fans them out.
var AllResourceKinds = []ResourceKind{
	ResourceAssistants,
	ResourceSessions,
	ResourceCollections,
	ResourceFolders,
	ResourceFiles,
	ResourcePresets,
	ResourcePrompts,
	ResourceTools,
	ResourceModels,
}

func NewResourceAggregate(workspaceId uuid.UUID) *ResourceAggregate {
	agg := &ResourceAggregate{
		WorkspaceId:       workspaceId,
		Items:             make(map[ResourceKind][]WorkspaceResource),
		Status:            make(map[ResourceKind]ResourceStatus),
		Reasons:           make(map[ResourceKind]string),
		AssistantPreviews: make(map[uuid.UUID]string),
	}
	for _, kind := range AllResourceKinds {
		agg.Status[kind] = ResourceStatusPending
	}
	return agg
}

func (a *ResourceAggregate) MarkOk(kind ResourceKind, items []WorkspaceResource) {
	a.Items[kind] = items
	a.Status[kind] = ResourceStatusOk
}

func (a *ResourceAggregate) MarkSessionsOk(sessions []*ChatSession) {
	a.Sessions = sessions
	a.Status[ResourceSessions] = ResourceStatusOk
}

func (a *ResourceAggregate) MarkFailed(kind ResourceKind, err error) {
	a.Status[kind] = ResourceStatusFailed
	if err != nil {
		a.Reasons[kind] = err.Error()
	}
}

// FailedKinds returns the kinds whose fetch failed, in fan-out order.
func (a *ResourceAggregate) FailedKinds() []ResourceKind {
	var failed []ResourceKind
	for _, kind := range AllResourceKinds {
		if a.Status[kind] == ResourceStatusFailed {
			failed = append(failed, kind)
		}
	}
	return failed
}
