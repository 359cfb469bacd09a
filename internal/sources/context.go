package sources

import (
	"context"
	"fmt"
	"strings"
	"time"

	"postforge/internal/logger"
)

// ContextBuilder turns search results into the prompt's reference-material
// block. It is strictly best-effort: any provider failure yields an empty
// context, never an error.
type ContextBuilder struct {
	provider   Provider
	maxResults int
	language   string
}

// NewContextBuilder wires a context builder over a search provider.
func NewContextBuilder(provider Provider, maxResults int, language string) *ContextBuilder {
	if maxResults <= 0 {
		maxResults = 5
	}
	return &ContextBuilder{provider: provider, maxResults: maxResults, language: language}
}

// Summarize collects recent search excerpts for the keyword. Returns the
// context text and the source URLs that contributed to it; both empty when
// nothing usable was found.
func (c *ContextBuilder) Summarize(ctx context.Context, keyword string) (string, []string) {
	if c.provider == nil {
		return "", nil
	}

	results, err := c.provider.Search(ctx, keyword, Config{
		MaxResults: c.maxResults,
		SinceTime:  30 * 24 * time.Hour,
		Language:   c.language,
	})
	if err != nil {
		logger.Warn("context search failed, generating without reference material",
			"keyword", keyword, "error", err.Error())
		return "", nil
	}
	if len(results) == 0 {
		return "", nil
	}

	var b strings.Builder
	var urls []string
	for i, r := range results {
		snippet := strings.TrimSpace(r.Snippet)
		if snippet == "" {
			continue
		}
		fmt.Fprintf(&b, "%d. %s — %s\n", i+1, strings.TrimSpace(r.Title), snippet)
		urls = append(urls, r.URL)
	}
	return strings.TrimSpace(b.String()), urls
}
