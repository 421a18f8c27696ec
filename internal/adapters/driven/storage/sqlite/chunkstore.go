package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/docsage-labs/docsage/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/docsage-labs/docsage/internal/core/domain"
	"github.com/docsage-labs/docsage/internal/core/ports/driven"
)

// Compile-time checks that ChunkStore implements the interfaces.
var _ driven.ChunkStore = (*ChunkStore)(nil)
var _ driven.HistoryStore = (*ChunkStore)(nil)

// ChunkStore is the SQLite-backed metadata store. It holds chunk text
// and metadata plus the query history audit table.
type ChunkStore struct {
	db *sql.DB
}

// NewChunkStore opens (creating if needed) the metadata database at the
// given path and runs migrations.
func NewChunkStore(path string) (*ChunkStore, error) {
	db, err := openDB(path, migrations.Meta, migrations.MetaDir)
	if err != nil {
		return nil, err
	}
	return &ChunkStore{db: db}, nil
}

// SaveChunks stores a batch of chunks in a single transaction.
func (s *ChunkStore) SaveChunks(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO document_chunks (chunk_id, document_name, chunk_index, content, created_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range chunks {
		createdAt := c.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}
		if _, err := stmt.ExecContext(ctx, c.ID, c.DocumentName, c.Index, c.Content, createdAt); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("chunk %s: %w", c.ID, domain.ErrAlreadyExists)
			}
			return fmt.Errorf("inserting chunk %s: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing chunks: %w", err)
	}
	return nil
}

// DeleteChunks removes the chunks with the given IDs in one transaction.
func (s *ChunkStore) DeleteChunks(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	query := fmt.Sprintf("DELETE FROM document_chunks WHERE chunk_id IN (%s)", placeholders(len(ids)))
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("deleting chunks: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing delete: %w", err)
	}
	return nil
}

// GetContents returns the content of the chunks with the given IDs.
// Missing IDs are silently skipped.
func (s *ChunkStore) GetContents(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	query := fmt.Sprintf("SELECT content FROM document_chunks WHERE chunk_id IN (%s)", placeholders(len(ids)))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying contents: %w", err)
	}
	defer rows.Close()

	var contents []string
	for rows.Next() {
		var content string
		if err := rows.Scan(&content); err != nil {
			return nil, fmt.Errorf("scanning content: %w", err)
		}
		contents = append(contents, content)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating contents: %w", err)
	}
	return contents, nil
}

// GetChunks returns all chunks for a document, ordered by index.
func (s *ChunkStore) GetChunks(ctx context.Context, documentName string) ([]domain.Chunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT chunk_id, document_name, chunk_index, content, created_at
		FROM document_chunks
		WHERE document_name = ?
		ORDER BY chunk_index
	`, documentName)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk
	for rows.Next() {
		var c domain.Chunk
		if err := rows.Scan(&c.ID, &c.DocumentName, &c.Index, &c.Content, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		chunks = append(chunks, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}
	return chunks, nil
}

// CountChunks returns the number of chunks stored for a document.
func (s *ChunkStore) CountChunks(ctx context.Context, documentName string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM document_chunks WHERE document_name = ?", documentName,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return count, nil
}

// SaveExchange records an answered question in the history table.
func (s *ChunkStore) SaveExchange(ctx context.Context, question, answer string, sourceCount int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO history (question, answer, source_count)
		VALUES (?, ?, ?)
	`, question, answer, sourceCount)
	if err != nil {
		return fmt.Errorf("recording exchange: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *ChunkStore) Close() error {
	return s.db.Close()
}

// isUniqueViolation reports whether the error is a primary key or unique
// constraint violation.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique")
}
