package sources

import (
	"context"
	"fmt"
)

// MockProvider returns canned results for testing and offline dry runs.
type MockProvider struct {
	Results []Result
	Err     error
}

// NewMockProvider creates a mock provider with generic results.
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

// GetName returns the name of this provider.
func (m *MockProvider) GetName() string { return "Mock" }

// Search returns the configured results, or three generated ones.
func (m *MockProvider) Search(ctx context.Context, query string, config Config) ([]Result, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Results != nil {
		return m.Results, nil
	}
	var results []Result
	for i := 1; i <= 3; i++ {
		results = append(results, Result{
			URL:     fmt.Sprintf("https://example.com/%s/%d", query, i),
			Title:   fmt.Sprintf("%s 관련 기사 %d", query, i),
			Snippet: fmt.Sprintf("%s에 대한 요약 내용 %d", query, i),
			Source:  "Mock",
			Rank:    i,
		})
	}
	return results, nil
}

// MockTrendSource returns a fixed candidate list.
type MockTrendSource struct {
	Candidates []string
	Err        error
}

// FetchCandidates returns the configured candidates up to limit.
func (m *MockTrendSource) FetchCandidates(ctx context.Context, limit int) ([]string, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if limit > 0 && len(m.Candidates) > limit {
		return m.Candidates[:limit], nil
	}
	return m.Candidates, nil
}
