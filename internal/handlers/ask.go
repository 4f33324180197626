package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"askbot/internal/contextutil"
	"askbot/internal/llm"
	"askbot/internal/rag"
	"askbot/internal/vectorstore"
)

// AskHandler handles question-answering requests.
type AskHandler struct {
	engine rag.Engine
}

// NewAskHandler creates a new AskHandler.
func NewAskHandler(engine rag.Engine) *AskHandler {
	return &AskHandler{engine: engine}
}

// AskRequest represents the HTTP request payload.
// This mirrors rag.AskRequest but is defined here for HTTP layer separation.
type AskRequest struct {
	Query   string `json:"query"`
	Session string `json:"session,omitempty"`
}

// AskResponse represents the HTTP response payload.
type AskResponse struct {
	Query       string         `json:"query"`
	Answer      string         `json:"answer"`
	Mode        rag.AnswerMode `json:"mode"`
	ContextUsed int            `json:"context_used"`
	RequestID   string         `json:"request_id"`
	Session     string         `json:"session,omitempty"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ServeHTTP answers one question. Backend failures surface as errors rather
// than silently degrading to fallback answers: a broken vector store returns
// 503, a broken model service 502.
func (h *AskHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		logger.WarnContext(ctx, "empty query in request")
		writeError(w, http.StatusBadRequest, "Empty query")
		return
	}

	requestID := uuid.NewString()
	logger = logger.With("request_id", requestID)
	ctx = contextutil.WithLogger(ctx, logger)
	logger.InfoContext(ctx, "received question", "session", req.Session)

	ragResp, err := h.engine.Ask(ctx, rag.AskRequest{Question: query, Session: req.Session})
	if err != nil {
		logger.ErrorContext(ctx, "failed to answer question", "error", err)
		switch {
		case errors.Is(err, vectorstore.ErrStore):
			writeError(w, http.StatusServiceUnavailable, "Vector store unavailable")
		case errors.Is(err, llm.ErrEmbedding):
			writeError(w, http.StatusBadGateway, "Embedding service unavailable")
		default:
			writeError(w, http.StatusBadGateway, "Model service error")
		}
		return
	}

	logger.InfoContext(ctx, "answered question",
		"mode", ragResp.Mode, "context_used", ragResp.ContextUsed)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(AskResponse{
		Query:       ragResp.Query,
		Answer:      ragResp.Answer,
		Mode:        ragResp.Mode,
		ContextUsed: ragResp.ContextUsed,
		RequestID:   requestID,
		Session:     req.Session,
	}); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}
