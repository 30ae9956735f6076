package memory

import (
	"sort"
	"sync"
	"time"

	"ai-chatspace-gateway/internal/entity"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// HistoryCache keeps the ordered session list of each workspace plus the
// current selection. It is a cached projection of the remote store: it never
// subscribes to remote changes, and stays fresh only because mutating code
// paths patch or refresh it afterwards.
type HistoryCache struct {
	cache *cache.Cache

	mu       sync.RWMutex
	selected map[uuid.UUID]uuid.UUID
}

func NewHistoryCache() *HistoryCache {
	// Lists expire after an hour of disuse; expired entries are purged
	// every 10 minutes.
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &HistoryCache{
		cache:    c,
		selected: make(map[uuid.UUID]uuid.UUID),
	}
}

// Put replaces the cached list for a workspace, re-sorted updated-descending.
func (h *HistoryCache) Put(workspaceId uuid.UUID, sessions []*entity.ChatSession) {
	sorted := make([]*entity.ChatSession, len(sessions))
	copy(sorted, sessions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].LastUpdated().After(sorted[j].LastUpdated())
	})
	h.cache.Set(workspaceId.String(), sorted, cache.DefaultExpiration)
}

// List returns the cached list, newest first. ok is false on a cache miss.
func (h *HistoryCache) List(workspaceId uuid.UUID) ([]*entity.ChatSession, bool) {
	raw, found := h.cache.Get(workspaceId.String())
	if !found {
		return nil, false
	}
	cached := raw.([]*entity.ChatSession)
	out := make([]*entity.ChatSession, len(cached))
	copy(out, cached)
	return out, true
}

// Upsert patches one session into its workspace list, keeping order.
// A miss on the workspace list is not an error: the next List refresh will
// pick the session up from the store.
func (h *HistoryCache) Upsert(session *entity.ChatSession) {
	raw, found := h.cache.Get(session.WorkspaceId.String())
	if !found {
		h.Put(session.WorkspaceId, []*entity.ChatSession{session})
		return
	}

	cached := raw.([]*entity.ChatSession)
	next := make([]*entity.ChatSession, 0, len(cached)+1)
	replaced := false
	for _, existing := range cached {
		if existing.Id == session.Id {
			next = append(next, session)
			replaced = true
			continue
		}
		next = append(next, existing)
	}
	if !replaced {
		next = append(next, session)
	}
	h.Put(session.WorkspaceId, next)
}

// Select marks a session as the active one for its workspace.
func (h *HistoryCache) Select(workspaceId, sessionId uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.selected[workspaceId] = sessionId
}

// Selected returns the active session id for a workspace.
func (h *HistoryCache) Selected(workspaceId uuid.UUID) (uuid.UUID, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	id, ok := h.selected[workspaceId]
	return id, ok
}

// Remove drops a session from the cache. When the removed session was the
// selected one, the selection moves to the most recently updated remaining
// session; with nothing left the selection is cleared. known reports whether
// the workspace list was cached at all: on a cold cache the remaining
// sessions cannot be determined here, so the selection is cleared and the
// caller must derive the fallback from the store.
func (h *HistoryCache) Remove(workspaceId, sessionId uuid.UUID) (fallback *entity.ChatSession, selectionChanged bool, known bool) {
	var remaining []*entity.ChatSession
	raw, found := h.cache.Get(workspaceId.String())
	if found {
		for _, existing := range raw.([]*entity.ChatSession) {
			if existing.Id != sessionId {
				remaining = append(remaining, existing)
			}
		}
		h.Put(workspaceId, remaining)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.selected[workspaceId] != sessionId {
		return nil, false, found
	}

	if len(remaining) == 0 {
		delete(h.selected, workspaceId)
		return nil, true, found
	}
	// Put keeps updated-descending order, so the head is the fallback.
	h.selected[workspaceId] = remaining[0].Id
	return remaining[0], true, found
}

// Reset wipes a workspace's list and selection. Used on workspace switch so
// the previous workspace's sessions can never bleed into the next view.
func (h *HistoryCache) Reset(workspaceId uuid.UUID) {
	h.cache.Delete(workspaceId.String())
	h.mu.Lock()
	delete(h.selected, workspaceId)
	h.mu.Unlock()
}

// Invalidate drops only the cached list, forcing the next List to miss.
func (h *HistoryCache) Invalidate(workspaceId uuid.UUID) {
	h.cache.Delete(workspaceId.String())
}
