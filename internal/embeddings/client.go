package embeddings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// ProviderError wraps failures of the embedding provider: network errors,
// quota rejections, timeouts, and malformed responses.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("embedding provider: %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Config holds embeddings client configuration.
type Config struct {
	BaseURL string        // OpenAI-compatible API base, e.g. "https://api.openai.com/v1"
	APIKey  string        // bearer token, optional for local providers
	Model   string        // model name (e.g. "text-embedding-3-small")
	Timeout time.Duration // per-request bound, 0 means 30s
}

// Client calls an OpenAI-compatible embeddings API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

// retryBackoff is the pause before the single best-effort retry.
const retryBackoff = 250 * time.Millisecond

// New creates a new embeddings client.
func New(config Config) (*Client, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if config.Model == "" {
		return nil, fmt.Errorf("model is required")
	}
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		apiKey:     config.APIKey,
		model:      config.Model,
	}, nil
}

// embeddingRequest is the request payload for the embeddings API.
type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

// embeddingResponse is the response from the embeddings API.
type embeddingResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Embed generates embedding vectors for the given texts, one vector per
// input in input order. Transient failures get one retry with a short
// backoff; anything past that surfaces as a *ProviderError.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, &ProviderError{Op: "embed", Err: fmt.Errorf("no input texts")}
	}

	vectors, err := c.embedOnce(ctx, texts)
	if err == nil {
		return vectors, nil
	}
	if ctx.Err() != nil {
		return nil, &ProviderError{Op: "embed", Err: ctx.Err()}
	}

	slog.Debug("embedding request failed, retrying once", "error", err)
	select {
	case <-time.After(retryBackoff):
	case <-ctx.Done():
		return nil, &ProviderError{Op: "embed", Err: ctx.Err()}
	}

	vectors, err = c.embedOnce(ctx, texts)
	if err != nil {
		return nil, &ProviderError{Op: "embed", Err: err}
	}
	return vectors, nil
}

func (c *Client) embedOnce(ctx context.Context, texts []string) ([][]float32, error) {
	req := embeddingRequest{Model: c.model, Input: texts}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST",
		c.baseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var embResp embeddingResponse
	if err := json.Unmarshal(respBody, &embResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if embResp.Error != nil {
		return nil, fmt.Errorf("API error: %s", embResp.Error.Message)
	}

	if len(embResp.Data) != len(texts) {
		return nil, fmt.Errorf("got %d embeddings for %d inputs", len(embResp.Data), len(texts))
	}

	// Place vectors by the index the API reports rather than trusting
	// response order.
	vectors := make([][]float32, len(texts))
	for _, d := range embResp.Data {
		if d.Index < 0 || d.Index >= len(texts) {
			return nil, fmt.Errorf("embedding index %d out of range", d.Index)
		}
		vectors[d.Index] = d.Embedding
	}
	for i, v := range vectors {
		if len(v) == 0 {
			return nil, fmt.Errorf("no embedding returned for input %d", i)
		}
	}
	return vectors, nil
}
