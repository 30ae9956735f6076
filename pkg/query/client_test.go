package query

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ai-chatspace-gateway/internal/pkg/apperr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchDeadlineMapsToTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := client.Dispatch(ctx, Request{Query: "질문", UserId: uuid.New()})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrTimeout)
	assert.NotErrorIs(t, err, apperr.ErrNetworkUnavailable)
}

func TestDispatchConnectFailureMapsToNetwork(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")

	_, err := client.Dispatch(context.Background(), Request{Query: "질문", UserId: uuid.New()})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrNetworkUnavailable)
}
