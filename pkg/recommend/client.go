package recommend

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

// FallbackErrorMessage is returned inside a degraded response when the
// recommendation service cannot be reached.
const FallbackErrorMessage = "추천 서비스에 연결할 수 없습니다."

// Request asks the recommendation service for personalized news.
type Request struct {
	UserId             uuid.UUID `json:"user_id"`
	Query              string    `json:"query"`
	ProfileContext     *string   `json:"profile_context"`
	NumRecommendations int       `json:"num_recommendations"`
}

// Article is one recommended news item.
type Article struct {
	Id              string    `json:"id"`
	Title           string    `json:"title,omitempty"`
	Url             string    `json:"url,omitempty"`
	Summary         string    `json:"summary,omitempty"`
	PublishedAt     string    `json:"published_at,omitempty"`
	SimilarityScore float64   `json:"similarity_score"`
	ImageUrl        string    `json:"image_url,omitempty"`
	Keywords        []string  `json:"keywords,omitempty"`
	RelatedNews     []Article `json:"related_news,omitempty"`
	Upvotes         int       `json:"upvotes"`
	Downvotes       int       `json:"downvotes"`
}

// Response is the recommendation result. Degraded responses carry
// Success=false plus an ErrorMessage and empty slices, never an error.
type Response struct {
	Success           bool      `json:"success"`
	ErrorMessage      string    `json:"error_message,omitempty"`
	UserQueryKeywords []string  `json:"user_query_keywords"`
	RecommendedNews   []Article `json:"recommended_news"`
}

// Fallback builds the degraded response used when the service is down.
func Fallback() *Response {
	return &Response{
		Success:           false,
		ErrorMessage:      FallbackErrorMessage,
		UserQueryKeywords: []string{},
		RecommendedNews:   []Article{},
	}
}

// Recommender fetches personalized news recommendations.
type Recommender interface {
	Recommend(ctx context.Context, req Request) (*Response, error)
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

func (c *Client) Recommend(ctx context.Context, req Request) (*Response, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal recommendation request: %w", err)
	}

	url := fmt.Sprintf("%s/recommendations", c.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create recommendation request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperr.Timeout("recommendation fetch", err)
		}
		return nil, apperr.Network("recommendation fetch", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("recommendation service error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var out Response
	if err := json.Unmarshal(bodyBytes, &out); err != nil {
		return nil, apperr.Validation(fmt.Sprintf("recommendation response: %v", err))
	}
	return &out, nil
}
