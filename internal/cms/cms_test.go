package cms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"postforge/internal/config"
)

func testClient(t *testing.T, baseURL string, maxRetries int) *Client {
	t.Helper()
	client, err := NewClient(config.CMS{
		BaseURL:     baseURL,
		Username:    "writer",
		AppPassword: "secret",
		MaxRetries:  maxRetries,
	})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	client.baseDelay = time.Millisecond
	return client
}

func TestPublish_Success(t *testing.T) {
	var gotAuth bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/wp-json/wp/v2/posts" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if _, _, ok := r.BasicAuth(); ok {
			gotAuth = true
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["status"] != "publish" {
			t.Errorf("expected publish status, got %v", body["status"])
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 321, "link": "https://blog.example.com/?p=321"})
	}))
	defer server.Close()

	client := testClient(t, server.URL, 3)
	result := client.Publish(context.Background(), Post{
		Title:      "연말정산 환급 조회 방법",
		HTML:       "<p>본문</p>",
		CategoryID: 12,
	})

	if !result.Success {
		t.Fatalf("publish should succeed: %s", result.Error)
	}
	if result.PostID != "321" {
		t.Errorf("post id = %s, want 321", result.PostID)
	}
	if !gotAuth {
		t.Error("request should carry basic auth")
	}
}

func TestPublish_RetriesTransientErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 7, "link": "https://blog.example.com/?p=7"})
	}))
	defer server.Close()

	client := testClient(t, server.URL, 3)
	result := client.Publish(context.Background(), Post{Title: "제목", HTML: "<p>본문</p>"})

	if !result.Success {
		t.Fatalf("publish should succeed after retries: %s", result.Error)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}
}

func TestPublish_ClientErrorDoesNotRetry(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := testClient(t, server.URL, 3)
	result := client.Publish(context.Background(), Post{Title: "제목", HTML: "<p>본문</p>"})

	if result.Success {
		t.Fatal("unauthorized publish must fail")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("client errors must not be retried, got %d attempts", got)
	}
}

func TestPublish_GivesUpAfterMaxRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := testClient(t, server.URL, 2)
	result := client.Publish(context.Background(), Post{Title: "제목", HTML: "<p>본문</p>"})

	if result.Success {
		t.Fatal("publish should fail after exhausting retries")
	}
	if result.Error == "" {
		t.Error("failure must carry the last error")
	}
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	if _, err := NewClient(config.CMS{}); err == nil {
		t.Error("missing base_url must fail construction")
	}
}
