package cms

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"postforge/internal/config"
	"postforge/internal/core"
	"postforge/internal/logger"
)

// Publisher is the CMS collaborator contract: structured post fields in,
// structured result out.
type Publisher interface {
	Publish(ctx context.Context, post Post) core.PublishResult
}

// Post carries everything the CMS needs to create one article.
type Post struct {
	Title      string
	HTML       string
	Excerpt    string
	Status     string // "publish" or "draft"
	CategoryID int
	Tags       []string
}

// Client publishes posts to a WordPress-style REST endpoint. It is the only
// collaborator that retries internally: bounded exponential backoff over a
// small fixed attempt count.
type Client struct {
	http       *resty.Client
	baseURL    string
	maxRetries int
	baseDelay  time.Duration
}

// NewClient builds the publish client from configuration.
func NewClient(cfg config.CMS) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("cms base_url is required")
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	httpClient := resty.New().
		SetTimeout(config.Duration(cfg.Timeout, 30*time.Second)).
		SetBasicAuth(cfg.Username, cfg.AppPassword)

	return &Client{
		http:       httpClient,
		baseURL:    cfg.BaseURL,
		maxRetries: maxRetries,
		baseDelay:  time.Second,
	}, nil
}

type createPostRequest struct {
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Excerpt    string   `json:"excerpt,omitempty"`
	Status     string   `json:"status"`
	Categories []int    `json:"categories,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}

type createPostResponse struct {
	ID   int    `json:"id"`
	Link string `json:"link"`
}

// Publish creates the post, retrying transient failures with exponential
// backoff. The returned result is always structured; it never panics or
// propagates a raw error.
func (c *Client) Publish(ctx context.Context, post Post) core.PublishResult {
	status := post.Status
	if status != "draft" {
		status = "publish"
	}

	req := createPostRequest{
		Title:   post.Title,
		Content: post.HTML,
		Excerpt: post.Excerpt,
		Status:  status,
		Tags:    post.Tags,
	}
	if post.CategoryID > 0 {
		req.Categories = []int{post.CategoryID}
	}

	var lastErr string
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		var created createPostResponse
		resp, err := c.http.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/json").
			SetBody(req).
			SetResult(&created).
			Post(c.baseURL + "/wp-json/wp/v2/posts")

		switch {
		case err != nil:
			lastErr = err.Error()
		case resp.StatusCode() >= 500 || resp.StatusCode() == 429:
			lastErr = fmt.Sprintf("cms returned status %d", resp.StatusCode())
		case resp.IsError():
			// Client errors will not improve with retries.
			return core.PublishResult{
				Success: false,
				Error:   fmt.Sprintf("cms rejected post: status %d", resp.StatusCode()),
			}
		default:
			return core.PublishResult{
				Success: true,
				PostID:  strconv.Itoa(created.ID),
				URL:     created.Link,
			}
		}

		if attempt < c.maxRetries {
			delay := c.baseDelay * time.Duration(1<<(attempt-1))
			logger.Warn("publish attempt failed, backing off",
				"attempt", attempt, "delay", delay.String(), "error", lastErr)
			select {
			case <-ctx.Done():
				return core.PublishResult{Success: false, Error: ctx.Err().Error()}
			case <-time.After(delay):
			}
		}
	}

	return core.PublishResult{
		Success: false,
		Error:   fmt.Sprintf("publish failed after %d attempts: %s", c.maxRetries, lastErr),
	}
}

// MockPublisher records publish calls for tests and dry runs.
type MockPublisher struct {
	Calls  []Post
	Result core.PublishResult
}

// Publish records the call and returns the configured result.
func (m *MockPublisher) Publish(ctx context.Context, post Post) core.PublishResult {
	m.Calls = append(m.Calls, post)
	if m.Result.PostID == "" && !m.Result.Success && m.Result.Error == "" {
		return core.PublishResult{Success: true, PostID: "1", URL: "https://example.com/?p=1"}
	}
	return m.Result
}
