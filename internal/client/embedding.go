package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/config"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/usage"
)

// EmbeddingInterface defines the embedding service client
type EmbeddingInterface interface {
	// Embed converts text into a fixed-length numeric vector
	Embed(ctx context.Context, text string, rec *usage.Record) ([]float64, error)
}

type embeddingRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

// EmbeddingClient handles communication with the embedding service
type EmbeddingClient struct {
	modelName  string
	httpClient *HTTPClient
}

// NewEmbeddingClient creates a new embedding client instance
func NewEmbeddingClient(cfg config.ModelConfig) *EmbeddingClient {
	return &EmbeddingClient{
		modelName:  cfg.EmbeddingModel,
		httpClient: NewHTTPClient(cfg.EmbeddingEndpoint, HTTPClientConfig{Timeout: 15 * time.Second}),
	}
}

// Embed requests one embedding and records the billed chars
func (c *EmbeddingClient) Embed(ctx context.Context, text string, rec *usage.Record) ([]float64, error) {
	payload := embeddingRequest{Model: c.modelName, Input: text}

	resp, err := c.httpClient.DoRequest(ctx, Request{Method: http.MethodPost, Body: payload})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("embedding request failed with status %d: %s", resp.StatusCode, body)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var result embeddingResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse embedding response: %w", err)
	}

	if len(result.Data) == 0 {
		return nil, fmt.Errorf("embedding response contained no vectors")
	}

	rec.AddEmbedding("embed", len(text))
	return result.Data[0].Embedding, nil
}
