package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsage-labs/docsage/internal/core/domain"
)

// setupChunkStore creates a temporary SQLite chunk store for testing.
func setupChunkStore(t *testing.T) *ChunkStore {
	t.Helper()

	store, err := NewChunkStore(filepath.Join(t.TempDir(), "metadata.db"))
	require.NoError(t, err)
	require.NotNil(t, store)
	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

func testChunks(documentName string, n int) []domain.Chunk {
	chunks := make([]domain.Chunk, n)
	for i := range chunks {
		chunks[i] = domain.Chunk{
			ID:           documentName + "-chunk-" + string(rune('a'+i)),
			DocumentName: documentName,
			Index:        i,
			Content:      "content " + string(rune('a'+i)),
			CreatedAt:    time.Now().UTC(),
		}
	}
	return chunks
}

func TestNewChunkStore_InvalidPath(t *testing.T) {
	_, err := NewChunkStore("/invalid\x00path/metadata.db")
	assert.Error(t, err)
}

func TestChunkStore_SaveAndGetChunks(t *testing.T) {
	store := setupChunkStore(t)
	ctx := context.Background()

	chunks := testChunks("report.pdf", 3)
	require.NoError(t, store.SaveChunks(ctx, chunks))

	got, err := store.GetChunks(ctx, "report.pdf")
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, c := range got {
		assert.Equal(t, chunks[i].ID, c.ID)
		assert.Equal(t, i, c.Index)
		assert.Equal(t, chunks[i].Content, c.Content)
		assert.Equal(t, "report.pdf", c.DocumentName)
	}
}

func TestChunkStore_SaveChunks_EmptyBatch(t *testing.T) {
	store := setupChunkStore(t)
	assert.NoError(t, store.SaveChunks(context.Background(), nil))
}

func TestChunkStore_SaveChunks_DuplicateRollsBack(t *testing.T) {
	store := setupChunkStore(t)
	ctx := context.Background()

	chunks := testChunks("doc.pdf", 2)
	require.NoError(t, store.SaveChunks(ctx, chunks))

	// Second batch shares an ID with the first; nothing from it must land.
	batch := []domain.Chunk{
		{ID: "doc.pdf-fresh", DocumentName: "doc.pdf", Index: 2, Content: "fresh"},
		{ID: chunks[0].ID, DocumentName: "doc.pdf", Index: 3, Content: "dup"},
	}
	err := store.SaveChunks(ctx, batch)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	count, err := store.CountChunks(ctx, "doc.pdf")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestChunkStore_DeleteChunks(t *testing.T) {
	store := setupChunkStore(t)
	ctx := context.Background()

	chunks := testChunks("doc.pdf", 3)
	require.NoError(t, store.SaveChunks(ctx, chunks))

	require.NoError(t, store.DeleteChunks(ctx, []string{chunks[0].ID, chunks[2].ID}))

	got, err := store.GetChunks(ctx, "doc.pdf")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, chunks[1].ID, got[0].ID)

	// Deleting unknown IDs is not an error.
	assert.NoError(t, store.DeleteChunks(ctx, []string{"no-such-id"}))
}

func TestChunkStore_GetContents(t *testing.T) {
	store := setupChunkStore(t)
	ctx := context.Background()

	chunks := testChunks("doc.pdf", 3)
	require.NoError(t, store.SaveChunks(ctx, chunks))

	contents, err := store.GetContents(ctx, []string{chunks[0].ID, chunks[2].ID, "missing"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{chunks[0].Content, chunks[2].Content}, contents)

	contents, err = store.GetContents(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, contents)
}

func TestChunkStore_CountChunks(t *testing.T) {
	store := setupChunkStore(t)
	ctx := context.Background()

	count, err := store.CountChunks(ctx, "missing.pdf")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	require.NoError(t, store.SaveChunks(ctx, testChunks("a.pdf", 2)))
	require.NoError(t, store.SaveChunks(ctx, testChunks("b.pdf", 4)))

	count, err = store.CountChunks(ctx, "a.pdf")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = store.CountChunks(ctx, "b.pdf")
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestChunkStore_SaveExchange(t *testing.T) {
	store := setupChunkStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveExchange(ctx, "What is Go?", "A language.", 3))
	require.NoError(t, store.SaveExchange(ctx, "Anything?", "Not found in the document.", 0))

	var count int
	err := store.db.QueryRow("SELECT COUNT(*) FROM history").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	var question, answer string
	var sourceCount int
	err = store.db.QueryRow(
		"SELECT question, answer, source_count FROM history ORDER BY id LIMIT 1",
	).Scan(&question, &answer, &sourceCount)
	require.NoError(t, err)
	assert.Equal(t, "What is Go?", question)
	assert.Equal(t, "A language.", answer)
	assert.Equal(t, 3, sourceCount)
}

func TestChunkStore_MigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metadata.db")

	store, err := NewChunkStore(path)
	require.NoError(t, err)
	require.NoError(t, store.SaveChunks(context.Background(), testChunks("doc.pdf", 1)))
	require.NoError(t, store.Close())

	// Reopening runs migrate() again; applied versions are skipped.
	store, err = NewChunkStore(path)
	require.NoError(t, err)
	defer store.Close()

	count, err := store.CountChunks(context.Background(), "doc.pdf")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
