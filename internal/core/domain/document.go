package domain

import "time"

// Chunk is the unit of storage and retrieval: a contiguous, possibly
// overlapping window of a document's text. Chunks are immutable once
// persisted; there is no update path.
type Chunk struct {
	// ID is the globally unique identifier, shared with the chunk's
	// embedding. It is generated before any write and acts as the join
	// key across the metadata and vector stores.
	ID string

	// DocumentName groups chunks belonging to one upload. No uniqueness
	// is enforced; re-uploading a name creates a disjoint new chunk set.
	DocumentName string

	// Index is the ordinal position within the document, 0..N-1 with no
	// gaps in emission order.
	Index int

	// Content is the trimmed window text. Never empty once persisted.
	Content string

	// CreatedAt is when the chunk was first stored.
	CreatedAt time.Time
}

// Embedding pairs a chunk with its vector representation. Its lifetime
// is tied 1:1 to the chunk with the same ID.
type Embedding struct {
	// ChunkID is the identifier of the chunk this vector belongs to.
	ChunkID string

	// Vector is the unit-normalised embedding, fixed dimension per
	// deployment.
	Vector []float32
}

// IngestReceipt reports the outcome of a successful ingestion.
type IngestReceipt struct {
	// DocumentName is the name the chunks were stored under.
	DocumentName string

	// ChunksWritten is the number of chunk/embedding pairs persisted.
	ChunksWritten int
}
