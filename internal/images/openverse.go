package images

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"postforge/internal/core"
)

const openverseBaseURL = "https://api.openverse.org/v1/images/"

// OpenverseSearcher resolves images through the Openverse API, which serves
// openly licensed images without an API key.
type OpenverseSearcher struct {
	client *resty.Client
}

// NewOpenverseSearcher creates an Openverse-backed image searcher.
func NewOpenverseSearcher(timeout time.Duration) *OpenverseSearcher {
	return &OpenverseSearcher{
		client: resty.New().SetTimeout(timeout),
	}
}

type openverseResponse struct {
	Results []struct {
		URL         string `json:"url"`
		Title       string `json:"title"`
		Creator     string `json:"creator"`
		License     string `json:"license"`
		Attribution string `json:"attribution"`
	} `json:"results"`
}

// Resolve searches for up to count images matching the query.
func (o *OpenverseSearcher) Resolve(ctx context.Context, query string, count int) ([]core.ImageAsset, error) {
	if count <= 0 {
		count = 1
	}

	var result openverseResponse
	resp, err := o.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":            query,
			"page_size":    fmt.Sprintf("%d", count),
			"license_type": "commercial",
		}).
		SetResult(&result).
		Get(openverseBaseURL)
	if err != nil {
		return nil, fmt.Errorf("openverse request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("openverse returned status %d", resp.StatusCode())
	}

	var assets []core.ImageAsset
	for _, r := range result.Results {
		if r.URL == "" {
			continue
		}
		alt := r.Title
		if alt == "" {
			alt = query
		}
		assets = append(assets, core.ImageAsset{
			URL:         r.URL,
			Alt:         alt,
			Attribution: r.Attribution,
		})
	}
	return assets, nil
}

// MockSearcher returns deterministic assets for tests and dry runs.
type MockSearcher struct {
	Assets []core.ImageAsset
	Err    error
}

// Resolve returns the configured assets, truncated to count.
func (m *MockSearcher) Resolve(ctx context.Context, query string, count int) ([]core.ImageAsset, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	assets := m.Assets
	if assets == nil {
		for i := 0; i < count; i++ {
			assets = append(assets, core.ImageAsset{
				URL: fmt.Sprintf("https://images.example.com/%s-%d.jpg", query, i+1),
				Alt: query,
			})
		}
	}
	if len(assets) > count {
		assets = assets[:count]
	}
	return assets, nil
}
