package driven

import "context"

// TextExtractor extracts plain text from an uploaded document.
// The core treats extraction as an opaque external capability;
// layout and OCR concerns live entirely behind this interface.
type TextExtractor interface {
	// Extract returns the plain text of the document. It fails on
	// malformed input or when no extractable text exists.
	Extract(ctx context.Context, data []byte) (string, error)
}
