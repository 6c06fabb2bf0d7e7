// Package mcp exposes question answering over uploaded documents as a
// Model Context Protocol server, so AI assistants can ask in any language.
package mcp

import "errors"

// ErrMissingRAGService is returned when the answer service is not provided.
var ErrMissingRAGService = errors.New("mcp: answer service is required")
