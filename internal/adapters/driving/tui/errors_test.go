package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrMissingRAGService(t *testing.T) {
	assert.EqualError(t, ErrMissingRAGService, "tui: rag service is required")
}
