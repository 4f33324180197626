package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

const verifyTimeout = 5 * time.Second

// ModelVerifier probes the generate endpoint to confirm the configured model
// is loadable, caching success for a TTL so health checks stay cheap. The
// cached state is process-wide by intent and invalidated purely by the TTL.
type ModelVerifier struct {
	baseURL string
	model   string
	ttl     time.Duration
	client  *http.Client

	mu     sync.Mutex
	lastOK time.Time
	now    func() time.Time
}

// NewModelVerifier creates a verifier for the given model.
func NewModelVerifier(baseURL, model string, ttl time.Duration) *ModelVerifier {
	return &ModelVerifier{
		baseURL: baseURL,
		model:   model,
		ttl:     ttl,
		client:  http.DefaultClient,
		now:     time.Now,
	}
}

// Model returns the model name this verifier checks.
func (v *ModelVerifier) Model() string {
	return v.model
}

// Verify reports whether the model is available. A probe that succeeded
// within the TTL is trusted without re-checking.
func (v *ModelVerifier) Verify(ctx context.Context) bool {
	v.mu.Lock()
	fresh := !v.lastOK.IsZero() && v.now().Sub(v.lastOK) < v.ttl
	v.mu.Unlock()
	if fresh {
		return true
	}

	if !v.probe(ctx) {
		return false
	}

	v.mu.Lock()
	v.lastOK = v.now()
	v.mu.Unlock()
	return true
}

// probe asks the model for a single token under a short timeout.
func (v *ModelVerifier) probe(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, verifyTimeout)
	defer cancel()

	payload := GenerateRequest{
		Model:   v.model,
		Prompt:  "ping",
		Options: GenerateOptions{NumPredict: 1},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return false
	}

	req, err := http.NewRequestWithContext(ctx, "POST", v.baseURL+"/api/generate", bytes.NewBuffer(body))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	return resp.StatusCode == http.StatusOK
}
