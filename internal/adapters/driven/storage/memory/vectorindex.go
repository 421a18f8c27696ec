package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/docsage-labs/docsage/internal/core/domain"
	"github.com/docsage-labs/docsage/internal/core/ports/driven"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

// VectorIndex is an in-memory implementation of driven.VectorIndex
// using an exact cosine-distance scan.
type VectorIndex struct {
	mu         sync.RWMutex
	dimensions int
	entries    []domain.Embedding
}

// NewVectorIndex creates an empty in-memory vector index. A dimensions
// value of 0 disables dimension validation.
func NewVectorIndex(dimensions int) *VectorIndex {
	return &VectorIndex{dimensions: dimensions}
}

// AddBatch stores a batch of embeddings atomically.
func (v *VectorIndex) AddBatch(_ context.Context, embeddings []domain.Embedding) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	for _, e := range embeddings {
		if v.dimensions > 0 && len(e.Vector) != v.dimensions {
			return fmt.Errorf("chunk %s: expected %d dimensions, got %d", e.ChunkID, v.dimensions, len(e.Vector))
		}
	}
	v.entries = append(v.entries, embeddings...)
	return nil
}

// Search returns the k nearest entries by ascending cosine distance,
// exact ties keeping insertion order.
func (v *VectorIndex) Search(_ context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	hits := make([]driven.VectorHit, 0, len(v.entries))
	for _, e := range v.entries {
		hits = append(hits, driven.VectorHit{
			ChunkID:  e.ChunkID,
			Distance: CosineDistance(query, e.Vector),
		})
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Delete removes the vectors for the given chunk IDs.
func (v *VectorIndex) Delete(_ context.Context, chunkIDs []string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	drop := make(map[string]bool, len(chunkIDs))
	for _, id := range chunkIDs {
		drop[id] = true
	}

	kept := v.entries[:0]
	for _, e := range v.entries {
		if !drop[e.ChunkID] {
			kept = append(kept, e)
		}
	}
	v.entries = kept
	return nil
}

// Len returns the number of stored vectors.
func (v *VectorIndex) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.entries)
}

// Close releases resources.
func (v *VectorIndex) Close() error {
	return nil
}

// CosineDistance computes 1 - cosine similarity between two vectors.
// Mismatched or zero vectors rank last (distance 1, orthogonal).
func CosineDistance(a, b []float32) float64 {
	if len(a) != len(b) {
		return 1.0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 1.0
	}

	return 1.0 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
