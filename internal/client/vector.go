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

// VectorInterface defines the external nearest-neighbor search client
type VectorInterface interface {
	// Search returns neighbors ordered by descending similarity score,
	// at most req.TopK of them
	Search(ctx context.Context, req VectorSearchRequest, rec *usage.Record) ([]Neighbor, error)
}

// VectorSearchRequest is one nearest-neighbor query
type VectorSearchRequest struct {
	Vector    []float64 `json:"vector"`
	FilterTag string    `json:"filterTag,omitempty"`
	TopK      int       `json:"topK"`
}

// Neighbor is a single search hit
type Neighbor struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

type vectorSearchPayload struct {
	DeployedIndexID string    `json:"deployedIndexId"`
	Vector          []float64 `json:"vector"`
	FilterTag       string    `json:"filterTag,omitempty"`
	NumNeighbors    int       `json:"numNeighbors"`
}

// vectorResponseWrapper is the API standard response wrapper for vector search
type vectorResponseWrapper struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    *struct {
		Neighbors []Neighbor `json:"neighbors"`
	} `json:"data"`
}

// VectorClient handles communication with the deployed vector-search index
type VectorClient struct {
	deployedIndexID string
	httpClient      *HTTPClient
}

// NewVectorClient creates a new vector search client instance
func NewVectorClient(cfg config.VectorConfig) *VectorClient {
	return &VectorClient{
		deployedIndexID: cfg.DeployedIndexID,
		httpClient:      NewHTTPClient(cfg.SearchEndpoint, HTTPClientConfig{Timeout: 10 * time.Second}),
	}
}

// Search executes one nearest-neighbor query and records it
func (c *VectorClient) Search(ctx context.Context, req VectorSearchRequest, rec *usage.Record) ([]Neighbor, error) {
	payload := vectorSearchPayload{
		DeployedIndexID: c.deployedIndexID,
		Vector:          req.Vector,
		FilterTag:       req.FilterTag,
		NumNeighbors:    req.TopK,
	}

	resp, err := c.httpClient.DoRequest(ctx, Request{Method: http.MethodPost, Body: payload})
	if err != nil {
		return nil, fmt.Errorf("vector search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf(
			"vector search failed with status: %d, response: %s", resp.StatusCode, body,
		)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var wrapper vectorResponseWrapper
	if err := json.Unmarshal(body, &wrapper); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	rec.AddRetrieval("vector.search")

	if wrapper.Data == nil {
		return nil, nil
	}
	neighbors := wrapper.Data.Neighbors
	if req.TopK > 0 && len(neighbors) > req.TopK {
		neighbors = neighbors[:req.TopK]
	}
	return neighbors, nil
}
