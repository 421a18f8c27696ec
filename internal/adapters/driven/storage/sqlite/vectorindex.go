package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"github.com/docsage-labs/docsage/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/docsage-labs/docsage/internal/core/domain"
	"github.com/docsage-labs/docsage/internal/core/ports/driven"
)

// Compile-time check that VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

// VectorIndex is the SQLite-backed vector store. Vectors are stored as
// little-endian float32 blobs and search is an exact linear scan, which
// is adequate for single-node corpora of this size. Rows are scanned in
// rowid order so exact distance ties resolve to insertion order.
type VectorIndex struct {
	db         *sql.DB
	dimensions int
}

// NewVectorIndex opens (creating if needed) the vector database at the
// given path and runs migrations. A dimensions value of 0 disables
// dimension validation on writes.
func NewVectorIndex(path string, dimensions int) (*VectorIndex, error) {
	db, err := openDB(path, migrations.Vector, migrations.VectorDir)
	if err != nil {
		return nil, err
	}
	return &VectorIndex{db: db, dimensions: dimensions}, nil
}

// AddBatch stores a batch of embeddings in a single transaction.
func (v *VectorIndex) AddBatch(ctx context.Context, embeddings []domain.Embedding) error {
	if len(embeddings) == 0 {
		return nil
	}

	tx, err := v.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunk_vectors (chunk_id, embedding) VALUES (?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range embeddings {
		if v.dimensions > 0 && len(e.Vector) != v.dimensions {
			return fmt.Errorf("vector for chunk %s has %d dimensions, want %d: %w",
				e.ChunkID, len(e.Vector), v.dimensions, domain.ErrInvalidInput)
		}
		if _, err := stmt.ExecContext(ctx, e.ChunkID, encodeVector(e.Vector)); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("vector %s: %w", e.ChunkID, domain.ErrAlreadyExists)
			}
			return fmt.Errorf("inserting vector %s: %w", e.ChunkID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing vectors: %w", err)
	}
	return nil
}

// Search returns the k nearest neighbours to the query vector, ordered
// by ascending cosine distance.
func (v *VectorIndex) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if k <= 0 || len(query) == 0 {
		return nil, nil
	}

	rows, err := v.db.QueryContext(ctx,
		"SELECT chunk_id, embedding FROM chunk_vectors ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("querying vectors: %w", err)
	}
	defer rows.Close()

	var hits []driven.VectorHit
	for rows.Next() {
		var chunkID string
		var blob []byte
		if err := rows.Scan(&chunkID, &blob); err != nil {
			return nil, fmt.Errorf("scanning vector: %w", err)
		}
		vec, err := decodeVector(blob)
		if err != nil {
			return nil, fmt.Errorf("decoding vector %s: %w", chunkID, err)
		}
		hits = append(hits, driven.VectorHit{
			ChunkID:  chunkID,
			Distance: cosineDistance(query, vec),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating vectors: %w", err)
	}

	// Stable sort keeps scan order (insertion order) on exact ties.
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Delete removes the vectors for the given chunk IDs in one transaction.
func (v *VectorIndex) Delete(ctx context.Context, chunkIDs []string) error {
	if len(chunkIDs) == 0 {
		return nil
	}

	tx, err := v.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	args := make([]any, len(chunkIDs))
	for i, id := range chunkIDs {
		args[i] = id
	}
	query := fmt.Sprintf("DELETE FROM chunk_vectors WHERE chunk_id IN (%s)", placeholders(len(chunkIDs)))
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("deleting vectors: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing delete: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (v *VectorIndex) Close() error {
	return v.db.Close()
}

// encodeVector serialises a float32 slice as a little-endian byte blob.
func encodeVector(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, f := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// decodeVector deserialises a little-endian byte blob into floats.
func decodeVector(blob []byte) ([]float32, error) {
	if len(blob)%4 != 0 {
		return nil, fmt.Errorf("blob length %d is not a multiple of 4", len(blob))
	}
	vec := make([]float32, len(blob)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return vec, nil
}

// cosineDistance computes 1 - cosine similarity. Mismatched or
// zero-magnitude vectors yield the neutral distance 1.
func cosineDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
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
