package sources

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// FeedTrendSource pulls ranked trending keywords from an RSS trend feed
// (e.g. the Google Trends daily feed for a region).
type FeedTrendSource struct {
	feedURL string
	client  *http.Client
}

// NewFeedTrendSource creates a trend source over the given feed URL.
func NewFeedTrendSource(feedURL string, timeout time.Duration) *FeedTrendSource {
	return &FeedTrendSource{
		feedURL: feedURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type trendFeed struct {
	Channel struct {
		Items []struct {
			Title string `xml:"title"`
		} `xml:"item"`
	} `xml:"channel"`
}

// FetchCandidates returns up to limit trending keywords in feed order.
func (f *FeedTrendSource) FetchCandidates(ctx context.Context, limit int) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", f.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create trend feed request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch trend feed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("trend feed returned status %d", resp.StatusCode)
	}

	var feed trendFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("failed to parse trend feed: %w", err)
	}

	var candidates []string
	for _, item := range feed.Channel.Items {
		title := strings.TrimSpace(item.Title)
		if title == "" {
			continue
		}
		candidates = append(candidates, title)
		if limit > 0 && len(candidates) >= limit {
			break
		}
	}
	return candidates, nil
}
