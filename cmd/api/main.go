package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"askbot/internal/config"
	"askbot/internal/http"
	"askbot/internal/llm"
	"askbot/internal/rag"
	"askbot/internal/vectorstore"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, cfg.ConnString())
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	store, err := vectorstore.NewPGVectorStore(pool, cfg.EmbeddingDim)
	if err != nil {
		log.Fatalf("Failed to create vector store: %v", err)
	}
	if err := store.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to ensure vector schema: %v", err)
	}
	slog.Info("Vector store ready", "host", cfg.PGHost, "dim", cfg.EmbeddingDim)

	embedder := llm.NewEmbeddingsClient(cfg.OllamaBaseURL, cfg.EmbedModelName, cfg.EmbeddingDim, cfg.EmbedTimeout)
	generator := llm.NewClient(cfg.OllamaBaseURL, cfg.LLMModelName, cfg.GenerateTimeout)

	// Fail fast when the generation model is not loadable; a bot that can
	// never answer should not come up at all.
	verifier := llm.NewModelVerifier(cfg.OllamaBaseURL, cfg.LLMModelName, cfg.ModelCheckTTL)
	if !verifier.Verify(ctx) {
		log.Fatalf("Model %q is not available at %s", cfg.LLMModelName, cfg.OllamaBaseURL)
	}
	slog.Info("Model verified", "model", cfg.LLMModelName)

	retriever, err := rag.NewRetriever(embedder, store, cfg.TopK, cfg.StrongThreshold, cfg.SoftThreshold, cfg.StoreTimeout)
	if err != nil {
		log.Fatalf("Failed to create retriever: %v", err)
	}
	engine := rag.NewEngine(retriever, generator, cfg.EnableCitations)

	router := http.NewRouter(&http.Deps{
		Engine:   engine,
		Verifier: verifier,
		Store:    store,
	})

	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
