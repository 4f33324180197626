package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"askbot/internal/config"
	"askbot/internal/ingest"
	"askbot/internal/llm"
	"askbot/internal/vectorstore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

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

	pipeline, err := ingest.NewPipeline(embedder, store, ingest.Options{
		Root:         cfg.KBPath,
		Extensions:   cfg.KBExtensions,
		ChunkSize:    cfg.ChunkSize,
		ChunkOverlap: cfg.ChunkOverlap,
		Concurrency:  cfg.IngestConcurrency,
		StoreTimeout: cfg.StoreTimeout,
	})
	if err != nil {
		log.Fatalf("Failed to create ingestion pipeline: %v", err)
	}

	report, err := pipeline.Run(ctx)
	if err != nil {
		log.Fatalf("Ingestion failed: %v", err)
	}

	for _, f := range report.Files {
		if f.Failed() {
			slog.Error("File failed", "source", f.Source, "error", f.Err)
		}
	}
	slog.Info("Ingestion finished",
		"files_found", report.FilesFound,
		"files_processed", report.FilesProcessed,
		"files_failed", report.FilesFailed,
		"chunks_stored", report.ChunksStored,
		"chunks_skipped", report.ChunksSkipped,
	)

	if report.FilesFailed > 0 {
		os.Exit(1)
	}
}
