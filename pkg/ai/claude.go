package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/johnquangdev/meeting-insights/pkg/config"
	"github.com/johnquangdev/meeting-insights/pkg/retry"
)

const anthropicVersion = "2023-06-01"

// Completer returns the text completion for a system instruction and a user prompt
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// ClaudeClient is a minimal client for the Claude Messages API
type ClaudeClient struct {
	apiKey    string
	baseURL   string
	model     string
	maxTokens int
	client    *http.Client
	limiter   *rate.Limiter
}

var _ Completer = (*ClaudeClient)(nil)

// NewClaudeClient creates a Claude client using values from the provided config
func NewClaudeClient(cfg config.ClaudeConfig) *ClaudeClient {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = "https://api.anthropic.com"
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 90 * time.Second
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &ClaudeClient{
		apiKey:    cfg.APIKey,
		baseURL:   base,
		model:     cfg.Model,
		maxTokens: maxTokens,
		client:    &http.Client{Timeout: timeout},
		limiter:   rate.NewLimiter(limit, 1),
	}
}

// MessageRequest is the shape for message creation requests
type MessageRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []Message `json:"messages"`
}

// Message is one conversation turn
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// MessageResponse is a minimal response shape
type MessageResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

// Complete sends one user turn and returns the concatenated text blocks of the reply
func (c *ClaudeClient) Complete(ctx context.Context, system, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", retry.Permanent(fmt.Errorf("claude api key is not configured"))
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	reqBody := MessageRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		System:    system,
		Messages:  []Message{{Role: "user", Content: prompt}},
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	endpoint := c.baseURL + "/v1/messages"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", &retry.StatusError{Service: "claude", StatusCode: resp.StatusCode, Body: string(body)}
	}

	var mr MessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return "", fmt.Errorf("failed to decode claude response: %w", err)
	}

	var sb strings.Builder
	for _, block := range mr.Content {
		if block.Type == "" || block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("empty response from claude")
	}
	return sb.String(), nil
}
