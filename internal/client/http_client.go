package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Request is a generic HTTP request description used by the service clients
type Request struct {
	Method        string
	Path          string
	Authorization string
	QueryParams   map[string]string
	Body          any
}

// HTTPClientConfig holds per-client transport settings
type HTTPClientConfig struct {
	Timeout time.Duration
}

// HTTPClient wraps a base endpoint and a configured http.Client
type HTTPClient struct {
	endpoint   string
	httpClient *http.Client
}

// NewHTTPClient creates a client bound to one service endpoint
func NewHTTPClient(endpoint string, config HTTPClientConfig) *HTTPClient {
	return &HTTPClient{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// DoRequest executes a generic request against the client's endpoint
func (c *HTTPClient) DoRequest(ctx context.Context, req Request) (*http.Response, error) {
	var bodyReader *bytes.Reader
	if req.Body != nil {
		jsonData, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.endpoint+req.Path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json; charset=utf-8")
	if req.Authorization != "" {
		httpReq.Header.Set("Authorization", req.Authorization)
	}

	if len(req.QueryParams) > 0 {
		q := httpReq.URL.Query()
		for key, value := range req.QueryParams {
			q.Set(key, value)
		}
		httpReq.URL.RawQuery = q.Encode()
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}

	return resp, nil
}
