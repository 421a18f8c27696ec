// Package memory provides in-memory store implementations.
// Used in tests and for ephemeral single-process deployments.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/docsage-labs/docsage/internal/core/domain"
	"github.com/docsage-labs/docsage/internal/core/ports/driven"
)

// Ensure ChunkStore implements the interfaces.
var (
	_ driven.ChunkStore   = (*ChunkStore)(nil)
	_ driven.HistoryStore = (*ChunkStore)(nil)
)

// Exchange is one recorded question/answer pair.
type Exchange struct {
	Question    string
	Answer      string
	SourceCount int
}

// ChunkStore is an in-memory implementation of driven.ChunkStore.
// Batched writes are all-or-nothing under one lock, mirroring the
// transactional contract of the SQLite store.
type ChunkStore struct {
	mu      sync.RWMutex
	chunks  map[string]domain.Chunk
	history []Exchange
}

// NewChunkStore creates an empty in-memory chunk store.
func NewChunkStore() *ChunkStore {
	return &ChunkStore{
		chunks: make(map[string]domain.Chunk),
	}
}

// SaveChunks stores a batch of chunks atomically.
func (s *ChunkStore) SaveChunks(_ context.Context, chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Uniqueness check first so the batch applies all-or-nothing.
	for _, c := range chunks {
		if _, exists := s.chunks[c.ID]; exists {
			return fmt.Errorf("chunk %s: %w", c.ID, domain.ErrAlreadyExists)
		}
	}
	for _, c := range chunks {
		s.chunks[c.ID] = c
	}
	return nil
}

// DeleteChunks removes the chunks with the given IDs.
func (s *ChunkStore) DeleteChunks(_ context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		delete(s.chunks, id)
	}
	return nil
}

// GetContents returns the content of the chunks with the given IDs.
// Unknown IDs are skipped; result order is unspecified.
func (s *ChunkStore) GetContents(_ context.Context, ids []string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	contents := make([]string, 0, len(ids))
	for _, id := range ids {
		if c, ok := s.chunks[id]; ok {
			contents = append(contents, c.Content)
		}
	}
	return contents, nil
}

// GetChunks returns all chunks for a document, ordered by index.
func (s *ChunkStore) GetChunks(_ context.Context, documentName string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var chunks []domain.Chunk
	for _, c := range s.chunks {
		if c.DocumentName == documentName {
			chunks = append(chunks, c)
		}
	}
	sort.Slice(chunks, func(i, j int) bool { return chunks[i].Index < chunks[j].Index })
	return chunks, nil
}

// CountChunks returns the number of chunks stored for a document.
func (s *ChunkStore) CountChunks(_ context.Context, documentName string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, c := range s.chunks {
		if c.DocumentName == documentName {
			count++
		}
	}
	return count, nil
}

// SaveExchange records a question/answer pair.
func (s *ChunkStore) SaveExchange(_ context.Context, question, answer string, sourceCount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append(s.history, Exchange{
		Question:    question,
		Answer:      answer,
		SourceCount: sourceCount,
	})
	return nil
}

// History returns the recorded exchanges in insertion order.
func (s *ChunkStore) History() []Exchange {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Exchange, len(s.history))
	copy(out, s.history)
	return out
}

// Len returns the total number of stored chunks.
func (s *ChunkStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

// Close releases resources.
func (s *ChunkStore) Close() error {
	return nil
}
