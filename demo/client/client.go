// Package client is a small HTTP client for the cronos API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"cronos/deduplication"
	"cronos/orchestrator"
	"cronos/types"
)

// Client talks to a running cronos service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// APIError is a non-2xx answer carrying the service's error message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// GetEnvOrDefault returns the value of an environment variable or a default value.
func GetEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// Import runs the server-side article import for rawURL.
func (c *Client) Import(ctx context.Context, rawURL string) (*types.ImportResult, error) {
	var res types.ImportResult
	if err := c.doJSONRequest(ctx, http.MethodPost, "/api/articles/import", map[string]string{"url": rawURL}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// CheckDuplicate compares an import result against published articles.
func (c *Client) CheckDuplicate(ctx context.Context, res *types.ImportResult) (*deduplication.DeduplicationResult, error) {
	payload := map[string]string{
		"title":       res.Title,
		"url":         res.SourceURL,
		"contentText": res.ContentText,
	}
	var out deduplication.DeduplicationResult
	if err := c.doJSONRequest(ctx, http.MethodPost, "/api/deduplication/check", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SaveDraft stores an import result as a draft article.
func (c *Client) SaveDraft(ctx context.Context, res *types.ImportResult) (*types.Article, error) {
	payload := map[string]string{
		"title":     res.Title,
		"excerpt":   res.Excerpt,
		"imageUrl":  res.ImageURL,
		"sourceUrl": res.SourceURL,
		"author":    res.Byline,
		"content":   res.ContentText,
	}
	var a types.Article
	if err := c.doJSONRequest(ctx, http.MethodPost, "/api/articles", payload, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// RefreshFeeds starts a feed run on the server.
func (c *Client) RefreshFeeds(ctx context.Context) error {
	return c.doJSONRequest(ctx, http.MethodPost, "/api/feeds/refresh", nil, nil)
}

// FeedStatus returns the feed pipeline state.
func (c *Client) FeedStatus(ctx context.Context) (*orchestrator.StatusResponse, error) {
	var status orchestrator.StatusResponse
	if err := c.doJSONRequest(ctx, http.MethodGet, "/api/feeds/status", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *Client) doJSONRequest(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: string(data)}
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &e) == nil && e.Error != "" {
			apiErr.Message = e.Error
		}
		return apiErr
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
