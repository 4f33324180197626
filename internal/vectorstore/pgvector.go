package vectorstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"askbot/internal/contextutil"
)

// PGVectorStore implements VectorStore on PostgreSQL with the pgvector
// extension. Records live in a single documents table keyed by doc_id.
//
// Similarity queries use the <#> operator (negative inner product). Results
// order by ascending distance, so more negative means more similar; callers
// must not invert this convention.
type PGVectorStore struct {
	pool *pgxpool.Pool
	dim  int
}

// NewPGVectorStore creates a store over an existing connection pool.
// dim is the dimension of the vector column; vectors of any other length are
// rejected before touching the database.
func NewPGVectorStore(pool *pgxpool.Pool, dim int) (*PGVectorStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("connection pool is required")
	}
	if dim <= 0 {
		return nil, fmt.Errorf("vector dimension must be greater than 0, got %d", dim)
	}
	return &PGVectorStore{pool: pool, dim: dim}, nil
}

// EnsureSchema creates the vector extension and the documents table if they
// do not exist, and is safe to run on every start.
func (s *PGVectorStore) EnsureSchema(ctx context.Context) error {
	logger := contextutil.LoggerFromContext(ctx)

	if _, err := s.pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return fmt.Errorf("%w: failed to create vector extension: %v", ErrStore, err)
	}

	createTable := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS documents (
			doc_id    TEXT PRIMARY KEY,
			payload   JSONB NOT NULL,
			embedding vector(%d) NOT NULL
		)`, s.dim)
	if _, err := s.pool.Exec(ctx, createTable); err != nil {
		return fmt.Errorf("%w: failed to create documents table: %v", ErrStore, err)
	}

	logger.InfoContext(ctx, "schema ready", "table", "documents", "dim", s.dim)
	return nil
}

// Ping verifies database connectivity.
func (s *PGVectorStore) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("%w: ping failed: %v", ErrStore, err)
	}
	return nil
}

// Upsert creates or replaces a record by key.
func (s *PGVectorStore) Upsert(ctx context.Context, rec Record) error {
	if len(rec.Vector) != s.dim {
		return fmt.Errorf("vector for %q has dimension %d, expected %d", rec.Key, len(rec.Vector), s.dim)
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO documents (doc_id, payload, embedding)
		VALUES ($1, $2, $3)
		ON CONFLICT (doc_id)
		DO UPDATE SET
			payload = EXCLUDED.payload,
			embedding = EXCLUDED.embedding`,
		rec.Key, rec.Payload, pgvector.NewVector(rec.Vector),
	)
	if err != nil {
		return fmt.Errorf("%w: failed to upsert %q: %v", ErrStore, rec.Key, err)
	}
	return nil
}

// KNN returns the k nearest records to the query vector, ordered by ascending
// inner product distance.
func (s *PGVectorStore) KNN(ctx context.Context, query []float32, k int) ([]Neighbor, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if k <= 0 {
		return nil, fmt.Errorf("k must be greater than 0, got %d", k)
	}
	if len(query) != s.dim {
		return nil, fmt.Errorf("query vector has dimension %d, expected %d", len(query), s.dim)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT doc_id, payload, embedding <#> $1 AS distance
		FROM documents
		ORDER BY distance
		LIMIT $2`,
		pgvector.NewVector(query), k,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: knn query failed: %v", ErrStore, err)
	}
	defer rows.Close()

	var neighbors []Neighbor
	for rows.Next() {
		var n Neighbor
		if err := rows.Scan(&n.Key, &n.Payload, &n.Distance); err != nil {
			return nil, fmt.Errorf("%w: failed to scan knn row: %v", ErrStore, err)
		}
		neighbors = append(neighbors, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: knn rows failed: %v", ErrStore, err)
	}

	logger.DebugContext(ctx, "knn completed", "k", k, "results", len(neighbors))
	return neighbors, nil
}
