package driven

import "context"

// HistoryStore records answered questions for auditing. This sits
// outside the core's data model: the core itself never persists query
// results, and failures to record history must not fail the request.
type HistoryStore interface {
	// SaveExchange records a question, the answer given, and how many
	// source chunks backed it.
	SaveExchange(ctx context.Context, question, answer string, sourceCount int) error
}
