package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsage-labs/docsage/internal/adapters/driven/storage/memory"
	"github.com/docsage-labs/docsage/internal/chunker"
	"github.com/docsage-labs/docsage/internal/core/domain"
)

// seedIndex ingests the given texts as one chunk each and returns the
// stores plus the embedder used, so queries share vector space with the
// indexed content.
func seedIndex(t *testing.T, texts ...string) (*memory.ChunkStore, *memory.VectorIndex, *stubEmbedder) {
	t.Helper()

	ch, err := chunker.New(10000, 0)
	require.NoError(t, err)

	chunks := memory.NewChunkStore()
	vectors := memory.NewVectorIndex(0)
	embedder := newStubEmbedder(16)

	ingest := NewIngestService(&stubExtractor{}, embedder, chunks, vectors, ch)
	for i, text := range texts {
		_, err := ingest.IngestText(context.Background(), "doc"+string(rune('0'+i))+".pdf", text)
		require.NoError(t, err)
	}
	return chunks, vectors, embedder
}

func TestAsk_ReturnsGroundedAnswer(t *testing.T) {
	chunks, vectors, embedder := seedIndex(t, "go is a language", "cats purr")
	llm := &stubLLM{answer: "Go is a programming language."}

	// Make the question vector point at the first chunk.
	embedder.set("What is Go?", embedder.vectors["go is a language"])

	svc := NewQueryService(embedder, vectors, chunks, llm, 1)
	answer, err := svc.Ask(context.Background(), "What is Go?")
	require.NoError(t, err)

	assert.Equal(t, "What is Go?", answer.Question)
	assert.Equal(t, "Go is a programming language.", answer.Text)
	assert.Equal(t, []string{"go is a language"}, answer.Sources)

	assert.Equal(t, 1, llm.calls)
	assert.Contains(t, llm.lastInput, "go is a language")
	assert.Contains(t, llm.lastInput, "What is Go?")
	// The prompt must not include unretrieved chunks.
	assert.NotContains(t, llm.lastInput, "cats purr")
}

func TestAsk_TrimsQuestion(t *testing.T) {
	chunks, vectors, embedder := seedIndex(t, "some context")
	embedder.set("trimmed", embedder.vectors["some context"])

	svc := NewQueryService(embedder, vectors, chunks, &stubLLM{answer: "ok"}, 5)
	answer, err := svc.Ask(context.Background(), "  trimmed \n")
	require.NoError(t, err)
	assert.Equal(t, "trimmed", answer.Question)
}

func TestAsk_EmptyQuestion(t *testing.T) {
	chunks, vectors, embedder := seedIndex(t)
	svc := NewQueryService(embedder, vectors, chunks, &stubLLM{}, 5)

	for _, q := range []string{"", "   ", "\n\t"} {
		_, err := svc.Ask(context.Background(), q)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

func TestAsk_EmptyIndexReturnsFallbackWithoutLLM(t *testing.T) {
	chunks, vectors, embedder := seedIndex(t) // nothing ingested
	llm := &stubLLM{answer: "should never appear"}

	svc := NewQueryService(embedder, vectors, chunks, llm, 5)
	answer, err := svc.Ask(context.Background(), "Anything?")
	require.NoError(t, err)

	assert.Equal(t, FallbackAnswer, answer.Text)
	assert.Equal(t, []string{}, answer.Sources)
	assert.Equal(t, 0, llm.calls, "fallback must not call the LLM")
}

func TestAsk_EmbeddingFailureSurfaces(t *testing.T) {
	chunks, vectors, embedder := seedIndex(t, "context")
	embedder.err = errInjected

	svc := NewQueryService(embedder, vectors, chunks, &stubLLM{}, 5)
	_, err := svc.Ask(context.Background(), "question")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmbedding)
}

func TestAsk_SearchFailureDegradesToFallback(t *testing.T) {
	chunks, _, embedder := seedIndex(t, "context")
	vectors := &failingVectorIndex{VectorIndex: memory.NewVectorIndex(0), failSearch: true}
	llm := &stubLLM{}

	svc := NewQueryService(embedder, vectors, chunks, llm, 5)
	answer, err := svc.Ask(context.Background(), "question")
	require.NoError(t, err, "search failure must not surface")

	assert.Equal(t, FallbackAnswer, answer.Text)
	assert.Empty(t, answer.Sources)
	assert.Equal(t, 0, llm.calls)
}

func TestAsk_GetContentsFailureSurfaces(t *testing.T) {
	chunks, vectors, embedder := seedIndex(t, "context")
	store := &failingChunkStore{ChunkStore: chunks, failGetContents: true}
	embedder.set("q", embedder.vectors["context"])

	svc := NewQueryService(embedder, vectors, store, &stubLLM{}, 5)
	_, err := svc.Ask(context.Background(), "q")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPersistence)
}

func TestAsk_GenerationFailureSurfaces(t *testing.T) {
	chunks, vectors, embedder := seedIndex(t, "context")
	embedder.set("q", embedder.vectors["context"])
	llm := &stubLLM{err: errInjected}

	svc := NewQueryService(embedder, vectors, chunks, llm, 5)
	_, err := svc.Ask(context.Background(), "q")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrGeneration)
}

func TestAsk_TopKLimitsContext(t *testing.T) {
	chunks, vectors, embedder := seedIndex(t, "alpha", "beta", "gamma", "delta")
	llm := &stubLLM{answer: "ok"}

	embedder.set("q", embedder.vectors["alpha"])

	svc := NewQueryService(embedder, vectors, chunks, llm, 2)
	answer, err := svc.Ask(context.Background(), "q")
	require.NoError(t, err)
	assert.Len(t, answer.Sources, 2)
}

func TestAsk_DefaultTopK(t *testing.T) {
	chunks, vectors, embedder := seedIndex(t)
	svc := NewQueryService(embedder, vectors, chunks, &stubLLM{}, 0)
	assert.Equal(t, DefaultTopK, svc.topK)
}

func TestEndToEnd_IngestThenAsk(t *testing.T) {
	ch, err := chunker.New(1000, 200)
	require.NoError(t, err)

	chunks := memory.NewChunkStore()
	vectors := memory.NewVectorIndex(0)
	embedder := newStubEmbedder(16)

	ingest := NewIngestService(&stubExtractor{}, embedder, chunks, vectors, ch)

	// 2500 characters of distinct content split into 4 windows.
	var sb strings.Builder
	for sb.Len() < 2500 {
		sb.WriteString("shakti architecture details segment ")
	}
	text := sb.String()[:2500]

	receipt, err := ingest.IngestText(context.Background(), "arch.pdf", text)
	require.NoError(t, err)
	require.Equal(t, 4, receipt.ChunksWritten)

	stored, err := chunks.GetChunks(context.Background(), "arch.pdf")
	require.NoError(t, err)

	// Point the question at the third chunk's vector.
	target := stored[2]
	embedder.set("What does segment three say?", embedder.vectors[target.Content])

	llm := &stubLLM{answer: "Segment three describes the architecture."}
	svc := NewQueryService(embedder, vectors, chunks, llm, 1)

	answer, err := svc.Ask(context.Background(), "What does segment three say?")
	require.NoError(t, err)

	assert.Equal(t, "Segment three describes the architecture.", answer.Text)
	require.Len(t, answer.Sources, 1)
	assert.Equal(t, target.Content, answer.Sources[0])
	assert.Contains(t, llm.lastInput, target.Content)
}
