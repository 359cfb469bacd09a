package sources

import (
	"context"
	"errors"
	"time"
)

// Provider is the unified interface for context-search providers.
type Provider interface {
	// Search performs a search with configuration.
	Search(ctx context.Context, query string, config Config) ([]Result, error)

	// GetName returns the name of the provider.
	GetName() string
}

// TrendSource supplies ranked candidate keywords. An empty slice on upstream
// trouble is a degraded result, not an error.
type TrendSource interface {
	FetchCandidates(ctx context.Context, limit int) ([]string, error)
}

// Config holds configuration for search requests.
type Config struct {
	MaxResults int           // Maximum number of results to return
	SinceTime  time.Duration // Only return results newer than this duration
	Language   string        // Language preference (e.g., "ko", "en")
}

// Result represents a unified search result.
type Result struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Source  string `json:"source"`
	Rank    int    `json:"rank"`
}

var (
	// ErrMissingAPIKey is returned when a required API key is not provided.
	ErrMissingAPIKey = errors.New("API key is required")

	// ErrMissingSearchID is returned when a required search ID is not provided.
	ErrMissingSearchID = errors.New("search ID is required")

	// ErrUnsupportedProvider is returned for unknown provider names.
	ErrUnsupportedProvider = errors.New("unsupported search provider")
)

// NewProvider creates a search provider by name.
func NewProvider(name, apiKey, searchID string) (Provider, error) {
	switch name {
	case "google":
		if apiKey == "" {
			return nil, ErrMissingAPIKey
		}
		if searchID == "" {
			return nil, ErrMissingSearchID
		}
		return NewGoogleProvider(apiKey, searchID), nil
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, ErrUnsupportedProvider
	}
}
