package resolver

import (
	"context"
	"errors"
	"time"

	"ai-chatspace-gateway/internal/entity"
	"ai-chatspace-gateway/internal/pkg/apperr"
	"ai-chatspace-gateway/pkg/retry"

	"github.com/google/uuid"
)

// SessionSource is the read side of the session store. (nil, nil) means the
// session was not visible on this attempt, which for an eventually
// consistent store is not yet proof of absence.
type SessionSource interface {
	FindById(ctx context.Context, id uuid.UUID) (*entity.ChatSession, error)
}

// Resolver loads a session by id, retrying over the store's replication lag
// before concluding the session really does not exist.
type Resolver struct {
	source SessionSource
	cfg    retry.Config
}

func New(source SessionSource, attempts int, delay time.Duration) *Resolver {
	return &Resolver{
		source: source,
		cfg:    retry.Config{Attempts: attempts, Delay: delay},
	}
}

// Resolve returns the session, or apperr.ErrNotFound once every attempt has
// come back empty. Transport errors are retried the same way as misses.
func (r *Resolver) Resolve(ctx context.Context, id uuid.UUID) (*entity.ChatSession, error) {
	session, err := retry.DoValue(ctx, r.cfg, func(ctx context.Context) (*entity.ChatSession, error) {
		s, err := r.source.FindById(ctx, id)
		if err != nil {
			return nil, err
		}
		if s == nil {
			return nil, apperr.NotFound("chat session")
		}
		return s, nil
	})
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.NotFound("chat session")
		}
		return nil, err
	}
	return session, nil
}
