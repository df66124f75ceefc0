package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/config"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/tokenizer"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/usage"
)

// CompletionInterface defines the hosted language model client. One call is
// one billable model invocation; implementations record exactly one usage
// entry per successful call.
type CompletionInterface interface {
	// Complete sends a system prompt plus user content and returns the
	// generated text
	Complete(ctx context.Context, label, system, user string, rec *usage.Record) (string, error)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type completionUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type completionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage completionUsage `json:"usage"`
}

// CompletionClient handles communication with the hosted completion model
type CompletionClient struct {
	modelName  string
	httpClient *HTTPClient
	counter    *tokenizer.TokenCounter
}

// NewCompletionClient creates a new completion client instance. The token
// counter backfills usage when the upstream response omits it.
func NewCompletionClient(cfg config.ModelConfig, counter *tokenizer.TokenCounter) (*CompletionClient, error) {
	if cfg.CompletionEndpoint == "" {
		return nil, fmt.Errorf("completion endpoint cannot be empty")
	}
	return &CompletionClient{
		modelName:  cfg.CompletionModel,
		httpClient: NewHTTPClient(cfg.CompletionEndpoint, HTTPClientConfig{Timeout: 60 * time.Second}),
		counter:    counter,
	}, nil
}

// Complete sends one completion request and records its usage
func (c *CompletionClient) Complete(ctx context.Context, label, system, user string, rec *usage.Record) (string, error) {
	payload := completionRequest{
		Model: c.modelName,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}

	resp, err := c.httpClient.DoRequest(ctx, Request{Method: http.MethodPost, Body: payload})
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("completion request failed with status %d: %s", resp.StatusCode, body)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	var result completionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse completion response: %w", err)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no content generated")
	}
	text := result.Choices[0].Message.Content

	in, out := result.Usage.PromptTokens, result.Usage.CompletionTokens
	if in == 0 && out == 0 {
		in = c.counter.CountTokens(system) + c.counter.CountTokens(user)
		out = c.counter.CountTokens(text)
	}
	rec.AddModelCall(label, in, out)

	return text, nil
}
