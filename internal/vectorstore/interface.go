package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks docgraph/internal/vectorstore VectorStore

import (
	"context"
	"errors"
)

// ErrDimensionMismatch is returned when a vector's dimension does not match
// the collection's configured dimension. The adapter rejects such vectors
// before they reach the index.
var ErrDimensionMismatch = errors.New("vector dimension mismatch")

// Point represents a vector point with metadata.
type Point struct {
	ID   string
	Vec  []float32
	Meta map[string]any
}

// SearchResult represents a search result from vector search.
type SearchResult struct {
	PointID string
	Score   float32
	Meta    map[string]any
}

// VectorStore is the uniform interface over the external vector capability.
type VectorStore interface {
	// Upsert inserts or updates points in the collection. Re-upserting an
	// existing id replaces the point.
	Upsert(ctx context.Context, collection string, points []Point) error

	// Search performs a similarity search ordered by descending cosine
	// similarity, with optional exact-match payload filters.
	Search(ctx context.Context, collection string, query []float32, k int, filters map[string]any) ([]SearchResult, error)

	// Delete removes points by their IDs.
	Delete(ctx context.Context, collection string, ids []string) error

	// ListIDs returns the ids of all points in the collection.
	ListIDs(ctx context.Context, collection string) ([]string, error)

	// CountPoints returns the number of points in the collection.
	CountPoints(ctx context.Context, collection string) (int, error)

	// CollectionExists checks whether the collection exists.
	CollectionExists(ctx context.Context, collection string) (bool, error)
}
