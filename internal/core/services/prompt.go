package services

import (
	"fmt"
	"strings"
)

// FallbackAnswer is the fixed phrase used when the indexed documents
// contain no matching context. The query path returns it directly,
// without calling the language model, when retrieval comes back empty;
// the prompt also instructs the model to use it when the supplied
// context is insufficient.
const FallbackAnswer = "Not found in the document."

// defaultAnswerPrompt is the grounded question-answering template used
// when no PromptStore is configured. Placeholders: context, question.
const defaultAnswerPrompt = `You are a helpful assistant.
Answer the question ONLY using the context below.
If the answer is not contained in the context, say "` + FallbackAnswer + `"

CONTEXT:
%s

QUESTION:
%s

ANSWER:`

// BuildPrompt assembles a grounded prompt from the template, the
// retrieved context chunks, and the question. Context chunks are joined
// with a blank line; the question follows the context.
func BuildPrompt(template, question string, contextChunks []string) string {
	if template == "" {
		template = defaultAnswerPrompt
	}
	context := strings.Join(contextChunks, "\n\n")
	return strings.TrimSpace(fmt.Sprintf(template, context, question))
}
