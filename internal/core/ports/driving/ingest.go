// Package driving provides interfaces for application entry points (primary/inbound ports).
package driving

import (
	"context"

	"github.com/docsage-labs/docsage/internal/core/domain"
)

// Ingestor drives document ingestion: extract, chunk, embed, dual-write.
type Ingestor interface {
	// IngestPDF extracts text from PDF bytes and ingests it under the
	// given name. Fails with domain.ErrExtraction when the document is
	// malformed or contains no extractable text.
	IngestPDF(ctx context.Context, name string, data []byte) (domain.IngestReceipt, error)

	// IngestText chunks, embeds, and persists raw text under the given
	// name. A document's chunks and embeddings are stored all-or-nothing.
	IngestText(ctx context.Context, name, text string) (domain.IngestReceipt, error)
}
