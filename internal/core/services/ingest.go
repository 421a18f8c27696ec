// Package services contains the core orchestration logic: ingestion and
// question answering. Services depend only on port interfaces; adapters
// are injected at wiring time.
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/docsage-labs/docsage/internal/chunker"
	"github.com/docsage-labs/docsage/internal/core/domain"
	"github.com/docsage-labs/docsage/internal/core/ports/driven"
	"github.com/docsage-labs/docsage/internal/core/ports/driving"
	"github.com/docsage-labs/docsage/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.Ingestor = (*IngestService)(nil)

// IngestService orchestrates document ingestion: extract, chunk, embed,
// then the paired write across the metadata and vector stores.
type IngestService struct {
	extractor driven.TextExtractor
	embedder  driven.EmbeddingService
	chunks    driven.ChunkStore
	vectors   driven.VectorIndex
	chunker   *chunker.Chunker
}

// NewIngestService creates an ingest service.
func NewIngestService(
	extractor driven.TextExtractor,
	embedder driven.EmbeddingService,
	chunks driven.ChunkStore,
	vectors driven.VectorIndex,
	ch *chunker.Chunker,
) *IngestService {
	return &IngestService{
		extractor: extractor,
		embedder:  embedder,
		chunks:    chunks,
		vectors:   vectors,
		chunker:   ch,
	}
}

// IngestPDF extracts text from PDF bytes and ingests it.
func (s *IngestService) IngestPDF(ctx context.Context, name string, data []byte) (domain.IngestReceipt, error) {
	if s.extractor == nil {
		return domain.IngestReceipt{}, fmt.Errorf("%w: no text extractor configured", domain.ErrExtraction)
	}

	text, err := s.extractor.Extract(ctx, data)
	if err != nil {
		return domain.IngestReceipt{}, fmt.Errorf("%w: %q: %v", domain.ErrExtraction, name, err)
	}
	if strings.TrimSpace(text) == "" {
		return domain.IngestReceipt{}, fmt.Errorf("%w: %q contains no extractable text", domain.ErrExtraction, name)
	}

	return s.IngestText(ctx, name, text)
}

// IngestText chunks, embeds, and persists raw text under the given name.
//
// The chunk identifiers double as the join key between the two stores
// and are generated before any write. The metadata store commits first;
// if the vector write then fails, the just-committed chunk rows are
// deleted again so neither store holds an orphaned half. True two-phase
// atomicity across the independent stores is not guaranteed: if the
// compensating delete itself fails, the inconsistency is logged and the
// caller still sees a persistence error.
func (s *IngestService) IngestText(ctx context.Context, name, text string) (domain.IngestReceipt, error) {
	logger.Section("Ingest")
	logger.Debug("Document %q: %d characters", name, len(text))

	pieces := s.chunker.Split(text)

	// Drop windows that trimmed to nothing; every persisted chunk has
	// non-empty content and indexes stay gap-free 0..N-1.
	kept := pieces[:0]
	for _, p := range pieces {
		if p.Text != "" {
			kept = append(kept, p)
		}
	}
	logger.Debug("Chunked into %d windows (%d kept)", len(pieces), len(kept))

	if len(kept) == 0 {
		return domain.IngestReceipt{DocumentName: name}, nil
	}

	texts := make([]string, len(kept))
	for i, p := range kept {
		texts[i] = p.Text
	}

	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return domain.IngestReceipt{}, fmt.Errorf("%w: embedding %d chunks: %v", domain.ErrEmbedding, len(texts), err)
	}
	if len(vectors) != len(kept) {
		return domain.IngestReceipt{}, fmt.Errorf("%w: embedder returned %d vectors for %d chunks",
			domain.ErrEmbedding, len(vectors), len(kept))
	}

	// Pairing by index is preserved end to end: chunk i carries the
	// same identifier as embedding i.
	now := time.Now()
	chunks := make([]domain.Chunk, len(kept))
	embeddings := make([]domain.Embedding, len(kept))
	ids := make([]string, len(kept))
	for i, p := range kept {
		chunks[i] = domain.Chunk{
			ID:           p.ID,
			DocumentName: name,
			Index:        i,
			Content:      p.Text,
			CreatedAt:    now,
		}
		embeddings[i] = domain.Embedding{ChunkID: p.ID, Vector: vectors[i]}
		ids[i] = p.ID
	}

	if err := s.chunks.SaveChunks(ctx, chunks); err != nil {
		return domain.IngestReceipt{}, fmt.Errorf("%w: metadata store: %v", domain.ErrPersistence, err)
	}

	if err := s.vectors.AddBatch(ctx, embeddings); err != nil {
		logger.Warn("Vector write failed for %q, rolling back metadata: %v", name, err)
		if delErr := s.chunks.DeleteChunks(ctx, ids); delErr != nil {
			logger.Warn("Compensating delete failed, stores are inconsistent for %q: %v", name, delErr)
		}
		return domain.IngestReceipt{}, fmt.Errorf("%w: vector store: %v", domain.ErrPersistence, err)
	}

	logger.Info("Ingested %q: %d chunks", name, len(chunks))
	return domain.IngestReceipt{DocumentName: name, ChunksWritten: len(chunks)}, nil
}
