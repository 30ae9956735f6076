package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"ai-chatspace-gateway/internal/pkg/apperr"
)

// Result is the ingestion service's acknowledgement for one uploaded file.
type Result struct {
	Status          string            `json:"status,omitempty"`
	Message         string            `json:"message,omitempty"`
	DerivedMetadata map[string]string `json:"derivedMetadata,omitempty"`
}

// Uploader hands document files to the ingestion service for indexing.
type Uploader interface {
	UploadPdf(ctx context.Context, fileName string, content io.Reader) (*Result, error)
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

func (c *Client) UploadPdf(ctx context.Context, fileName string, content io.Reader) (*Result, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("failed to buffer upload file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize upload form: %w", err)
	}

	url := fmt.Sprintf("%s/upload-pdf", c.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperr.Timeout("pdf upload", err)
		}
		return nil, apperr.Network("pdf upload", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ingestion service error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var out Result
	if err := json.Unmarshal(bodyBytes, &out); err != nil {
		return nil, apperr.Validation(fmt.Sprintf("ingestion response: %v", err))
	}
	return &out, nil
}
