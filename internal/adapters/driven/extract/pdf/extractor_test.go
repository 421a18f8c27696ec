package pdf

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_EmptyInput(t *testing.T) {
	e := NewExtractor()

	_, err := e.Extract(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty document")
}

func TestExtract_MalformedPDF(t *testing.T) {
	e := NewExtractor()

	_, err := e.Extract(context.Background(), []byte("this is not a pdf"))
	assert.Error(t, err)
}

func TestExtract_CancelledContext(t *testing.T) {
	e := NewExtractor()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Extract(ctx, []byte("%PDF-1.4 ..."))
	assert.ErrorIs(t, err, context.Canceled)
}
