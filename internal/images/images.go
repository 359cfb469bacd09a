package images

import (
	"context"
	"fmt"
	"time"

	"postforge/internal/config"
	"postforge/internal/core"
)

// Searcher is the image collaborator: query in, image descriptors out. It
// may return fewer images than requested, or none at all.
type Searcher interface {
	Resolve(ctx context.Context, query string, count int) ([]core.ImageAsset, error)
}

// New creates the configured image searcher. "none" disables image
// resolution entirely (every placeholder gets stripped).
func New(cfg config.Images) (Searcher, error) {
	switch cfg.Provider {
	case "", "openverse":
		return NewOpenverseSearcher(config.Duration(cfg.Timeout, 20*time.Second)), nil
	case "mock":
		return &MockSearcher{}, nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown image provider: %s", cfg.Provider)
	}
}

// UsedSet tracks image URLs already placed in the current document so one
// article never repeats a picture. The set is owned by a single pipeline
// run and discarded with the document; it is never shared across runs.
type UsedSet struct {
	urls map[string]struct{}
}

// NewUsedSet creates an empty per-document set.
func NewUsedSet() *UsedSet {
	return &UsedSet{urls: make(map[string]struct{})}
}

// Has reports whether the URL was already used in this document.
func (u *UsedSet) Has(url string) bool {
	_, ok := u.urls[url]
	return ok
}

// Add marks a URL as used in this document.
func (u *UsedSet) Add(url string) {
	u.urls[url] = struct{}{}
}
