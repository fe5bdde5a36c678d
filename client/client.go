// Package client is a typed HTTP client for the studyground API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dsvdev/studyground/ai"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// QueryResult mirrors the /api/query response.
type QueryResult struct {
	Answer    string      `json:"answer"`
	Sources   []ai.Source `json:"sources"`
	SessionID string      `json:"session_id"`
}

// Courses mirrors the /api/courses response.
type Courses struct {
	TotalCourses int      `json:"total_courses"`
	CourseTitles []string `json:"course_titles"`
}

// Query asks a question. Pass the session id from a previous result to keep
// conversation context, or "" to start fresh.
func (c *Client) Query(ctx context.Context, text, sessionID string) (*QueryResult, error) {
	body := map[string]string{"query": text, "session_id": sessionID}
	var result QueryResult
	if err := c.do(ctx, http.MethodPost, "/api/query", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Courses(ctx context.Context) (*Courses, error) {
	var result Courses
	if err := c.do(ctx, http.MethodGet, "/api/courses", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ClearSession(ctx context.Context, sessionID string) error {
	return c.do(ctx, http.MethodDelete, "/api/sessions/"+sessionID, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, bytes.TrimSpace(raw))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
