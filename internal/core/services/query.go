package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/docsage-labs/docsage/internal/core/domain"
	"github.com/docsage-labs/docsage/internal/core/ports/driven"
	"github.com/docsage-labs/docsage/internal/core/ports/driving"
	"github.com/docsage-labs/docsage/internal/logger"
)

// Ensure QueryService implements the interface.
var _ driving.Answerer = (*QueryService)(nil)

// DefaultTopK is the default number of chunks retrieved per question.
const DefaultTopK = 5

// QueryService orchestrates question answering: embed the question,
// retrieve the nearest chunks, fetch their content, build a grounded
// prompt, and generate the answer.
//
// The embedder must be the same instance used at ingestion time so that
// query-time and ingest-time vectors share one dimension and one
// normalisation.
type QueryService struct {
	embedder driven.EmbeddingService
	vectors  driven.VectorIndex
	chunks   driven.ChunkStore
	llm      driven.LLMService
	prompts  driven.PromptStore
	topK     int
}

// NewQueryService creates a query service. The promptStore is optional;
// when nil the built-in answer template is used.
func NewQueryService(
	embedder driven.EmbeddingService,
	vectors driven.VectorIndex,
	chunks driven.ChunkStore,
	llm driven.LLMService,
	topK int,
) *QueryService {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &QueryService{
		embedder: embedder,
		vectors:  vectors,
		chunks:   chunks,
		llm:      llm,
		topK:     topK,
	}
}

// SetPromptStore sets the prompt store for loading a customised answer
// template.
func (s *QueryService) SetPromptStore(store driven.PromptStore) {
	s.prompts = store
}

// Ask answers a question from the indexed documents.
func (s *QueryService) Ask(ctx context.Context, question string) (domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return domain.Answer{}, fmt.Errorf("%w: question must not be empty", domain.ErrInvalidInput)
	}

	logger.Section("Question")
	logger.Debug("Question: %q", question)

	queryVector, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("%w: embedding question: %v", domain.ErrEmbedding, err)
	}

	ids := s.retrieve(ctx, queryVector)
	logger.Debug("Retrieved %d chunk ids", len(ids))

	if len(ids) == 0 {
		// No matching context: answer directly with the fixed fallback
		// phrase. No prompt is built and no generation call is made.
		logger.Info("No matching context, returning fallback answer")
		return domain.Answer{
			Question: question,
			Text:     FallbackAnswer,
			Sources:  []string{},
		}, nil
	}

	contents, err := s.chunks.GetContents(ctx, ids)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("%w: fetching chunk content: %v", domain.ErrPersistence, err)
	}

	prompt := BuildPrompt(s.answerTemplate(), question, contents)
	logger.Debug("Prompt: %d characters, %d context chunks", len(prompt), len(contents))

	answer, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{})
	if err != nil {
		return domain.Answer{}, fmt.Errorf("%w: %v", domain.ErrGeneration, err)
	}

	return domain.Answer{
		Question: question,
		Text:     strings.TrimSpace(answer),
		Sources:  contents,
	}, nil
}

// retrieve runs nearest-neighbour search for the query vector and
// returns chunk ids, best match first. Vector-layer failures degrade to
// an empty result: they are logged and the caller falls back to the
// no-context answer rather than seeing an error.
func (s *QueryService) retrieve(ctx context.Context, queryVector []float32) []string {
	hits, err := s.vectors.Search(ctx, queryVector, s.topK)
	if err != nil {
		logger.Warn("Vector search failed, degrading to no results: %v", err)
		return nil
	}

	ids := make([]string, len(hits))
	for i, h := range hits {
		ids[i] = h.ChunkID
	}
	return ids
}

// answerTemplate loads the answer prompt template, falling back to the
// built-in default when no store is configured or loading fails.
func (s *QueryService) answerTemplate() string {
	if s.prompts == nil {
		return ""
	}
	template, err := s.prompts.Load(driven.PromptAnswer)
	if err != nil {
		return ""
	}
	return template
}
