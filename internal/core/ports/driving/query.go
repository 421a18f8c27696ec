package driving

import (
	"context"

	"github.com/docsage-labs/docsage/internal/core/domain"
)

// Answerer drives question answering: retrieve, fetch content, build a
// grounded prompt, generate.
type Answerer interface {
	// Ask answers a natural-language question from the indexed
	// documents. An empty or whitespace-only question fails with
	// domain.ErrInvalidInput. When retrieval finds nothing, the fixed
	// fallback answer is returned with empty sources and no language
	// model call is made.
	Ask(ctx context.Context, question string) (domain.Answer, error)
}
