package resolver

import (
	"context"
	"errors"
	"testing"
	"time"

	"ai-chatspace-gateway/internal/entity"
	"ai-chatspace-gateway/internal/pkg/apperr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type scriptedSource struct {
	calls    int
	attempts []func() (*entity.ChatSession, error)
}

func (s *scriptedSource) FindById(ctx context.Context, id uuid.UUID) (*entity.ChatSession, error) {
	idx := s.calls
	s.calls++
	if idx >= len(s.attempts) {
		idx = len(s.attempts) - 1
	}
	return s.attempts[idx]()
}

func miss() (*entity.ChatSession, error) { return nil, nil }
func hit(s *entity.ChatSession) func() (*entity.ChatSession, error) {
	return func() (*entity.ChatSession, error) { return s, nil }
}

func TestResolveSucceedsOnThirdAttempt(t *testing.T) {
	want := &entity.ChatSession{Id: uuid.New()}
	src := &scriptedSource{attempts: []func() (*entity.ChatSession, error){miss, miss, hit(want)}}

	r := New(src, 3, time.Millisecond)
	got, err := r.Resolve(context.Background(), want.Id)

	assert.NoError(t, err)
	assert.Equal(t, want.Id, got.Id)
	assert.Equal(t, 3, src.calls)
}

func TestResolveNotFoundAfterExhaustion(t *testing.T) {
	src := &scriptedSource{attempts: []func() (*entity.ChatSession, error){miss}}

	r := New(src, 3, time.Millisecond)
	got, err := r.Resolve(context.Background(), uuid.New())

	assert.Nil(t, got)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Equal(t, 3, src.calls, "must try exactly the configured number of attempts")
}

func TestResolveRetriesTransportErrors(t *testing.T) {
	boom := errors.New("connection refused")
	want := &entity.ChatSession{Id: uuid.New()}
	src := &scriptedSource{attempts: []func() (*entity.ChatSession, error){
		func() (*entity.ChatSession, error) { return nil, boom },
		hit(want),
	}}

	r := New(src, 3, time.Millisecond)
	got, err := r.Resolve(context.Background(), want.Id)

	assert.NoError(t, err)
	assert.Equal(t, want.Id, got.Id)
}
