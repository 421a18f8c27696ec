// Package chunker provides fixed-size overlapping text chunking.
package chunker

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// DefaultWindowSize is the default number of characters per window.
const DefaultWindowSize = 1000

// DefaultOverlap is the default number of overlapping characters.
const DefaultOverlap = 200

// Piece is one emitted window: a freshly generated identifier and the
// trimmed window text. The final piece may be empty after trimming;
// callers filter before persisting.
type Piece struct {
	ID   string
	Text string
}

// Chunker splits text into overlapping character windows. It is pure
// apart from identifier generation: the same input always yields the
// same window boundaries.
type Chunker struct {
	windowSize int
	overlap    int
}

// New creates a Chunker. The overlap must be non-negative and strictly
// smaller than the window size; anything else would re-emit identical
// windows or stall the cursor, so it is rejected here rather than
// silently looping.
func New(windowSize, overlap int) (*Chunker, error) {
	if windowSize <= 0 {
		return nil, fmt.Errorf("window size must be positive, got %d", windowSize)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("overlap must be non-negative, got %d", overlap)
	}
	if overlap >= windowSize {
		return nil, fmt.Errorf("overlap %d must be smaller than window size %d", overlap, windowSize)
	}
	return &Chunker{windowSize: windowSize, overlap: overlap}, nil
}

// WindowSize returns the configured window size in characters.
func (c *Chunker) WindowSize() int {
	return c.windowSize
}

// Overlap returns the configured overlap in characters.
func (c *Chunker) Overlap() int {
	return c.overlap
}

// Split emits the overlapping windows of text in order. Every character
// of the input appears in at least one window. Empty input yields no
// pieces.
func (c *Chunker) Split(text string) []Piece {
	if len(text) == 0 {
		return nil
	}

	step := c.windowSize - c.overlap
	pieces := make([]Piece, 0, (len(text)+step-1)/step)

	for start := 0; start < len(text); start += step {
		end := start + c.windowSize
		if end > len(text) {
			end = len(text)
		}

		pieces = append(pieces, Piece{
			ID:   uuid.New().String(),
			Text: strings.TrimSpace(text[start:end]),
		})
	}

	return pieces
}
