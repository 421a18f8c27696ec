package domain

// Answer is the result of answering a question against the indexed
// documents. It is ephemeral: the core never persists it.
type Answer struct {
	// Question is the trimmed question that was asked.
	Question string

	// Text is the generated answer, or the fixed fallback phrase when
	// no matching context was found.
	Text string

	// Sources holds the content of the chunks supplied as context.
	// Empty when the fallback answer was returned.
	Sources []string
}
