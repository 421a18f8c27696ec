package driven

import "context"

// LLMService generates answers from a grounded prompt.
//
// Implementations may include:
//   - Ollama (local models)
//   - OpenAI (gpt-4o-mini and friends)
type LLMService interface {
	// Generate produces a text completion from a prompt. Calls carry a
	// bounded timeout; a timeout is a retryable-by-caller failure and is
	// not retried here.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64

	// StopWords are sequences that stop generation when encountered.
	StopWords []string
}
