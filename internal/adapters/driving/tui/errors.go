package tui

import "errors"

// ErrMissingRAGService is returned when the answer service is not provided.
var ErrMissingRAGService = errors.New("tui: rag service is required")
