package llmclient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"postforge/internal/config"
)

// OpenAIGenerator implements Generator over any OpenAI-compatible chat
// completions endpoint.
type OpenAIGenerator struct {
	client  *resty.Client
	apiKey  string
	model   string
	baseURL string
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int32         `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// NewOpenAIGenerator builds the OpenAI-compatible backend from
// configuration.
func NewOpenAIGenerator(cfg config.OpenAIConfig) (*OpenAIGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required (set OPENAI_API_KEY)")
	}

	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	return &OpenAIGenerator{
		client:  resty.New().SetTimeout(config.Duration(cfg.Timeout, 60 * time.Second)),
		apiKey:  cfg.APIKey,
		model:   model,
		baseURL: baseURL,
	}, nil
}

// Name identifies the backend.
func (o *OpenAIGenerator) Name() string { return "openai" }

// Generate requests a chat completion. Hard failures wrap ErrBackend.
func (o *OpenAIGenerator) Generate(ctx context.Context, prompt, system string, maxTokens int32) (string, error) {
	messages := []chatMessage{}
	if system != "" {
		messages = append(messages, chatMessage{Role: "system", Content: system})
	}
	messages = append(messages, chatMessage{Role: "user", Content: prompt})

	var result chatResponse
	resp, err := o.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+o.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(chatRequest{Model: o.model, Messages: messages, MaxTokens: maxTokens}).
		SetResult(&result).
		SetError(&result).
		Post(o.baseURL + "/chat/completions")
	if err != nil {
		return "", fmt.Errorf("%w: openai: %v", ErrBackend, err)
	}

	if result.Error != nil {
		return "", fmt.Errorf("%w: openai %s: %s", ErrBackend, result.Error.Type, result.Error.Message)
	}
	if resp.IsError() {
		return "", fmt.Errorf("%w: openai http %d", ErrBackend, resp.StatusCode())
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("%w: openai returned no choices", ErrBackend)
	}

	text := strings.TrimSpace(result.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("%w: openai returned an empty message", ErrBackend)
	}
	return text, nil
}
