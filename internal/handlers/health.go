package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"askbot/internal/contextutil"
)

const healthCheckTimeout = 5 * time.Second

// Verifier reports whether the configured model is available.
type Verifier interface {
	Verify(ctx context.Context) bool
	Model() string
}

// StorePinger reports whether the vector store is reachable.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	verifier Verifier
	store    StorePinger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(verifier Verifier, store StorePinger) *HealthHandler {
	return &HealthHandler{verifier: verifier, store: store}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status         string `json:"status"`
	OllamaModel    string `json:"ollama_model"`
	ModelAvailable bool   `json:"model_available"`
	VectorStore    string `json:"vector_store"`
}

// ServeHTTP reports service health. The response is always 200: a degraded
// dependency is reported in the body, not as a transport failure, so probes
// can tell "service down" from "dependency down".
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	checkCtx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	modelOK := h.verifier.Verify(checkCtx)

	storeStatus := "ok"
	if err := h.store.Ping(checkCtx); err != nil {
		logger.WarnContext(ctx, "vector store health check failed", "error", err)
		storeStatus = "error"
	}

	status := "ok"
	if !modelOK || storeStatus != "ok" {
		status = "degraded"
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(HealthResponse{
		Status:         status,
		OllamaModel:    h.verifier.Model(),
		ModelAvailable: modelOK,
		VectorStore:    storeStatus,
	}); err != nil {
		logger.ErrorContext(ctx, "failed to encode health response", "error", err)
	}
}
