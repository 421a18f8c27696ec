package driven

import (
	"context"

	"github.com/docsage-labs/docsage/internal/core/domain"
)

// VectorIndex stores embeddings and provides nearest-neighbour search.
//
// AddBatch must be all-or-nothing: every embedding in the batch is
// applied inside one transactional scope, or none is.
type VectorIndex interface {
	// AddBatch stores a batch of embeddings atomically.
	AddBatch(ctx context.Context, embeddings []domain.Embedding) error

	// Search returns the k nearest neighbours to the query vector,
	// ordered by ascending cosine distance. Exact ties keep insertion
	// order.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Delete removes the vectors for the given chunk IDs.
	Delete(ctx context.Context, chunkIDs []string) error

	// Close releases resources.
	Close() error
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Distance is the cosine distance (1 - cosine similarity) to the
	// query vector, range 0-2. Lower is closer.
	Distance float64
}
