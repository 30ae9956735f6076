package query

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"ai-chatspace-gateway/internal/pkg/apperr"

	"github.com/google/uuid"
)

// Request carries one user question to the retrieval query service.
type Request struct {
	Query       string    `json:"query"`
	UserId      uuid.UUID `json:"user_id"`
	WorkspaceId uuid.UUID `json:"workspace_id"`
	SessionId   uuid.UUID `json:"chat_id"`
}

// Response is the raw answer from the retrieval query service. Exactly one
// of the content fields is expected to be populated, tagged by Type.
type Response struct {
	Text          string `json:"text,omitempty"`
	ReactCode     string `json:"react_code,omitempty"`
	DashboardHTML string `json:"dashboard_html,omitempty"`
	Type          string `json:"type,omitempty"`
}

// Content returns the populated content field, preferring plain text.
func (r *Response) Content() string {
	if r.Text != "" {
		return r.Text
	}
	if r.ReactCode != "" {
		return r.ReactCode
	}
	return r.DashboardHTML
}

// Dispatcher sends questions to the retrieval query service.
type Dispatcher interface {
	Dispatch(ctx context.Context, req Request) (*Response, error)
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{},
	}
}

func (c *Client) Dispatch(ctx context.Context, req Request) (*Response, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query request: %w", err)
	}

	url := fmt.Sprintf("%s/rag-chat", c.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create query request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperr.Timeout("query dispatch", err)
		}
		return nil, apperr.Network("query dispatch", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("query service error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var out Response
	if err := json.Unmarshal(bodyBytes, &out); err != nil {
		return nil, apperr.Validation(fmt.Sprintf("query response: %v", err))
	}
	return &out, nil
}
