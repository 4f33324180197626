package rag

import (
	"context"
	"fmt"
	"strings"
	"time"

	"askbot/internal/contextutil"
	"askbot/internal/kb"
	"askbot/internal/vectorstore"
)

// Embedder maps text to a fixed-dimension vector.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// Retriever embeds a query, runs a nearest-neighbour search and partitions
// the hits into confidence tiers.
type Retriever struct {
	embedder     Embedder
	store        vectorstore.VectorStore
	topK         int
	strong       float64
	soft         float64
	storeTimeout time.Duration
}

// NewRetriever creates a retriever. The strong threshold must not exceed the
// soft one, otherwise the weak band would be empty or inverted.
func NewRetriever(embedder Embedder, store vectorstore.VectorStore, topK int, strong, soft float64, storeTimeout time.Duration) (*Retriever, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("top-k must be greater than 0, got %d", topK)
	}
	if strong > soft {
		return nil, fmt.Errorf("strong threshold %v must not exceed soft threshold %v", strong, soft)
	}
	return &Retriever{
		embedder:     embedder,
		store:        store,
		topK:         topK,
		strong:       strong,
		soft:         soft,
		storeTimeout: storeTimeout,
	}, nil
}

// Retrieve runs one similarity query and returns the tiered candidates.
// Irrelevant hits are discarded here. Embedding and store failures propagate
// to the caller; a degraded backend must never look like an empty knowledge
// base.
func (r *Retriever) Retrieve(ctx context.Context, query string) (Retrieval, error) {
	logger := contextutil.LoggerFromContext(ctx)

	vec, err := r.embedder.EmbedText(ctx, query)
	if err != nil {
		return Retrieval{}, fmt.Errorf("failed to embed query: %w", err)
	}

	knnCtx := ctx
	if r.storeTimeout > 0 {
		var cancel context.CancelFunc
		knnCtx, cancel = context.WithTimeout(ctx, r.storeTimeout)
		defer cancel()
	}
	neighbors, err := r.store.KNN(knnCtx, vec, r.topK)
	if err != nil {
		return Retrieval{}, fmt.Errorf("similarity search failed: %w", err)
	}

	var ret Retrieval
	for _, n := range neighbors {
		env, err := kb.ParseEnvelope(n.Payload)
		if err != nil {
			logger.WarnContext(ctx, "skipping record with malformed payload", "key", n.Key, "error", err)
			continue
		}

		cand := Candidate{
			Key:        n.Key,
			Source:     env.Source,
			ChunkIndex: env.Chunk,
			Content:    env.Content,
			Distance:   n.Distance,
			Tier:       classifyTier(n.Distance, r.strong, r.soft),
		}
		switch cand.Tier {
		case TierStrong:
			ret.Strong = append(ret.Strong, cand)
		case TierWeak:
			ret.Weak = append(ret.Weak, cand)
		}
	}

	logger.InfoContext(ctx, "retrieval complete",
		"query", truncate(query, 80),
		"hits", len(neighbors),
		"strong", len(ret.Strong),
		"weak", len(ret.Weak),
	)
	return ret, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return strings.TrimSpace(s[:max]) + "..."
}
