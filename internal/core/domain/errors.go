package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity with the same identifier
	// already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input, such as an
	// empty question or a non-PDF upload. Rejected before any work
	// begins; no partial effects.
	ErrInvalidInput = errors.New("invalid input")

	// ErrExtraction indicates text extraction from an uploaded document
	// failed or produced no text. The upload is aborted and nothing is
	// persisted.
	ErrExtraction = errors.New("text extraction failed")

	// ErrEmbedding indicates the embedding service failed. Surfaced to
	// the caller; no retry is performed inside the core.
	ErrEmbedding = errors.New("embedding service failed")

	// ErrGeneration indicates the language model service failed.
	ErrGeneration = errors.New("answer generation failed")

	// ErrPersistence indicates a store commit failed during the dual
	// write. The orchestrator rolls back whatever had already been
	// applied before signalling this error.
	ErrPersistence = errors.New("persistence failed")
)
