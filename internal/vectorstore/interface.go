package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks askbot/internal/vectorstore VectorStore

import (
	"context"
	"errors"
)

// ErrStore classifies store connectivity and SQL failures. Callers check it
// with errors.Is to distinguish store outages from model-side failures.
var ErrStore = errors.New("vector store error")

// Record is a stored chunk: key, JSON payload envelope, and its embedding.
type Record struct {
	Key     string
	Payload []byte
	Vector  []float32
}

// Neighbor is one row of a k-NN result. Distance is the value of the inner
// product distance operator: ascending order, more negative = more similar.
type Neighbor struct {
	Key      string
	Payload  []byte
	Distance float64
}

// VectorStore defines the persistence operations the pipeline and retriever need.
type VectorStore interface {
	// Upsert creates or replaces a record by key.
	Upsert(ctx context.Context, rec Record) error

	// KNN returns the k nearest records to the query vector, ordered by
	// ascending distance.
	KNN(ctx context.Context, query []float32, k int) ([]Neighbor, error)
}
