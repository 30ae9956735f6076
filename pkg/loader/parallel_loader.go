package loader

import (
	"context"
	"sync"

	"ai-chatspace-gateway/internal/entity"
	"ai-chatspace-gateway/internal/pkg/apperr"
	"ai-chatspace-gateway/internal/pkg/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ResourceFetcher produces the items of one workspace collection.
type ResourceFetcher func(ctx context.Context, workspaceId uuid.UUID) ([]entity.WorkspaceResource, error)

// SessionLister produces the session collection, which keeps its full type.
type SessionLister func(ctx context.Context, workspaceId uuid.UUID) ([]*entity.ChatSession, error)

// PreviewFetcher resolves an assistant image path to a base64 preview.
type PreviewFetcher func(ctx context.Context, imagePath string) (string, error)

// ParallelLoader fans out every resource fetch of one workspace concurrently
// and merges the outcomes into a best-effort ResourceAggregate. One fetch
// failing never cancels or blocks the others; the failed kind is flagged and
// the rest of the snapshot stays usable.
type ParallelLoader struct {
	fetchers map[entity.ResourceKind]ResourceFetcher
	sessions SessionLister
	previews PreviewFetcher
	logger   logger.ILogger
}

func New(
	fetchers map[entity.ResourceKind]ResourceFetcher,
	sessions SessionLister,
	previews PreviewFetcher,
	log logger.ILogger,
) *ParallelLoader {
	return &ParallelLoader{
		fetchers: fetchers,
		sessions: sessions,
		previews: previews,
		logger:   log,
	}
}

// Load fetches every kind concurrently. The returned aggregate is always
// non-nil; the PartialAggregateError is non-nil when at least one kind
// failed, and is informational only.
func (l *ParallelLoader) Load(ctx context.Context, workspaceId uuid.UUID) (*entity.ResourceAggregate, *apperr.PartialAggregateError) {
	agg := entity.NewResourceAggregate(workspaceId)

	var mu sync.Mutex
	var wg sync.WaitGroup

	for kind, fetch := range l.fetchers {
		wg.Add(1)
		go func(kind entity.ResourceKind, fetch ResourceFetcher) {
			defer wg.Done()
			items, err := fetch(ctx, workspaceId)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				agg.MarkFailed(kind, err)
				l.logger.Error("ParallelLoader", "resource fetch failed", map[string]interface{}{
					"workspace_id": workspaceId,
					"kind":         kind,
					"error":        err.Error(),
				})
				return
			}
			agg.MarkOk(kind, items)
		}(kind, fetch)
	}

	if l.sessions != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sessions, err := l.sessions(ctx, workspaceId)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				agg.MarkFailed(entity.ResourceSessions, err)
				l.logger.Error("ParallelLoader", "session list fetch failed", map[string]interface{}{
					"workspace_id": workspaceId,
					"kind":         entity.ResourceSessions,
					"error":        err.Error(),
				})
				return
			}
			agg.MarkSessionsOk(sessions)
		}()
	}

	wg.Wait()

	if agg.Status[entity.ResourceAssistants] == entity.ResourceStatusOk {
		l.loadAssistantPreviews(ctx, agg)
	}

	if failed := agg.FailedKinds(); len(failed) > 0 {
		partial := &apperr.PartialAggregateError{Failed: make(map[string]error)}
		for _, kind := range failed {
			partial.Failed[string(kind)] = apperr.NotFound(agg.Reasons[kind])
		}
		return agg, partial
	}
	return agg, nil
}

// LoadKind re-fetches a single kind, for callers reacting to a failed status
// with a narrower manual retry.
func (l *ParallelLoader) LoadKind(ctx context.Context, agg *entity.ResourceAggregate, kind entity.ResourceKind) error {
	if kind == entity.ResourceSessions {
		sessions, err := l.sessions(ctx, agg.WorkspaceId)
		if err != nil {
			agg.MarkFailed(kind, err)
			return err
		}
		agg.MarkSessionsOk(sessions)
		return nil
	}

	fetch, ok := l.fetchers[kind]
	if !ok {
		return apperr.Validation("unknown resource kind " + string(kind))
	}
	items, err := fetch(ctx, agg.WorkspaceId)
	if err != nil {
		agg.MarkFailed(kind, err)
		return err
	}
	agg.MarkOk(kind, items)
	if kind == entity.ResourceAssistants {
		l.loadAssistantPreviews(ctx, agg)
	}
	return nil
}

// loadAssistantPreviews is the secondary fan-out stage: each assistant with
// an image path gets a per-item best-effort preview fetch. A failed item
// yields an empty preview for that assistant only, never a stage abort.
func (l *ParallelLoader) loadAssistantPreviews(ctx context.Context, agg *entity.ResourceAggregate) {
	if l.previews == nil {
		return
	}

	var mu sync.Mutex
	group, groupCtx := errgroup.WithContext(ctx)

	for _, assistant := range agg.Items[entity.ResourceAssistants] {
		if assistant.ImagePath == "" {
			continue
		}
		group.Go(func() error {
			preview, err := l.previews(groupCtx, assistant.ImagePath)
			if err != nil {
				l.logger.Warn("ParallelLoader", "assistant preview fetch failed", map[string]interface{}{
					"assistant_id": assistant.Id,
					"image_path":   assistant.ImagePath,
					"error":        err.Error(),
				})
				preview = ""
			}
			mu.Lock()
			agg.AssistantPreviews[assistant.Id] = preview
			mu.Unlock()
			// Per-item failures are absorbed above; never cancel siblings.
			return nil
		})
	}

	_ = group.Wait()
}
