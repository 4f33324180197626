package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrEmbedding classifies malformed or empty embedding responses, including
// vectors of the wrong dimension. Transport failures are wrapped separately.
var ErrEmbedding = errors.New("embedding error")

// EmbeddingsClient is a client for the Ollama embeddings API.
type EmbeddingsClient struct {
	BaseURL     string
	Model       string
	ExpectedDim int // Expected vector dimension, must match the store column
	Timeout     time.Duration
	client      *http.Client
}

// NewEmbeddingsClient creates a new embeddings client. expectedDim is the
// dimension every returned vector is validated against; a mismatch is an
// error, never a silent coercion.
func NewEmbeddingsClient(baseURL, model string, expectedDim int, timeout time.Duration) *EmbeddingsClient {
	return &EmbeddingsClient{
		BaseURL:     baseURL,
		Model:       model,
		ExpectedDim: expectedDim,
		Timeout:     timeout,
		client:      http.DefaultClient,
	}
}

// EmbedRequest represents the request payload for the embeddings API.
type EmbedRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

// EmbedResponse represents the response from the embeddings API.
type EmbedResponse struct {
	Embeddings [][]float64 `json:"embeddings"`
}

// EmbedText generates an embedding for the given text.
// The call is bounded by the client timeout in addition to any deadline on ctx.
func (c *EmbeddingsClient) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: empty input text", ErrEmbedding)
	}

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	url := fmt.Sprintf("%s/api/embed", c.BaseURL)

	body, err := json.Marshal(EmbedRequest{Model: c.Model, Input: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send embed request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: bad status %d: %s", ErrEmbedding, resp.StatusCode, string(raw))
	}

	var embedResp EmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&embedResp); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrEmbedding, err)
	}

	if len(embedResp.Embeddings) == 0 || len(embedResp.Embeddings[0]) == 0 {
		return nil, fmt.Errorf("%w: empty embeddings in response", ErrEmbedding)
	}

	raw := embedResp.Embeddings[0]
	if len(raw) != c.ExpectedDim {
		return nil, fmt.Errorf("%w: embedding has dimension %d, expected %d", ErrEmbedding, len(raw), c.ExpectedDim)
	}

	vec := make([]float32, len(raw))
	for i, v := range raw {
		vec[i] = float32(v)
	}
	return vec, nil
}
