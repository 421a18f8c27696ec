package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt_DefaultTemplate(t *testing.T) {
	prompt := BuildPrompt("", "What is Go?", []string{"chunk one", "chunk two"})

	assert.Contains(t, prompt, "chunk one\n\nchunk two")
	assert.Contains(t, prompt, "What is Go?")
	assert.Contains(t, prompt, FallbackAnswer)

	// Context comes before the question.
	assert.Less(t, strings.Index(prompt, "chunk one"), strings.Index(prompt, "What is Go?"))
}

func TestBuildPrompt_CustomTemplate(t *testing.T) {
	prompt := BuildPrompt("CTX=%s Q=%s", "why?", []string{"because"})
	assert.Equal(t, "CTX=because Q=why?", prompt)
}

func TestBuildPrompt_SingleChunkNoSeparator(t *testing.T) {
	prompt := BuildPrompt("%s|%s", "q", []string{"only"})
	assert.Equal(t, "only|q", prompt)
}

func TestBuildPrompt_NoContext(t *testing.T) {
	prompt := BuildPrompt("%s|%s", "q", nil)
	assert.Equal(t, "|q", prompt)
}

func TestFallbackAnswer_ExactPhrase(t *testing.T) {
	// The phrase is part of the HTTP contract; clients match on it.
	assert.Equal(t, "Not found in the document.", FallbackAnswer)
}
