package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client is a client for the Ollama generate API.
type Client struct {
	BaseURL string
	Model   string
	Timeout time.Duration
	client  *http.Client
}

// NewClient creates a new generation client.
func NewClient(baseURL, model string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: baseURL,
		Model:   model,
		Timeout: timeout,
		client:  http.DefaultClient,
	}
}

// GenerateRequest represents the request payload for the generate API.
type GenerateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Options GenerateOptions `json:"options"`
}

// GenerateOptions holds model options for generation.
type GenerateOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

// generateChunk is a single line of the streamed NDJSON response.
type generateChunk struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Generate sends a prompt to the generate API and returns the complete
// response text. The server streams the answer as newline-delimited JSON;
// chunks are accumulated until the stream reports done. Malformed lines are
// skipped rather than aborting the stream.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	url := fmt.Sprintf("%s/api/generate", c.BaseURL)

	payload := GenerateRequest{
		Model:   c.Model,
		Prompt:  prompt,
		Options: GenerateOptions{Temperature: 0},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send generate request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("bad status %d: %s", resp.StatusCode, string(raw))
	}

	var out strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var chunk generateChunk
		if err := json.Unmarshal(line, &chunk); err != nil {
			continue
		}

		out.WriteString(chunk.Response)
		if chunk.Done {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to read generate stream: %w", err)
	}

	return strings.TrimSpace(out.String()), nil
}
