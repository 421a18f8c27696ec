package driven

import (
	"context"

	"github.com/docsage-labs/docsage/internal/core/domain"
)

// ChunkStore persists chunk text and metadata. Backed by a relational
// store with a uniqueness constraint on the chunk identifier.
//
// SaveChunks and DeleteChunks must each be all-or-nothing: every row in
// the batch is applied inside one transactional scope, or none is.
type ChunkStore interface {
	// SaveChunks stores a batch of chunks atomically.
	SaveChunks(ctx context.Context, chunks []domain.Chunk) error

	// DeleteChunks removes the chunks with the given IDs atomically.
	// Used as the compensating action when the vector write fails.
	DeleteChunks(ctx context.Context, ids []string) error

	// GetContents returns the content of the chunks with the given IDs.
	// Result order is unspecified; prompt construction does not depend
	// on ranked order.
	GetContents(ctx context.Context, ids []string) ([]string, error)

	// GetChunks returns all chunks for a document, ordered by index.
	GetChunks(ctx context.Context, documentName string) ([]domain.Chunk, error)

	// CountChunks returns the number of chunks stored for a document.
	CountChunks(ctx context.Context, documentName string) (int, error)

	// Close releases resources.
	Close() error
}
