package mcp

import (
	"github.com/custodia-labs/polyglot/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the MCP server.
type Ports struct {
	// RAG answers questions.
	RAG driving.RAGService

	// Ingest uploads documents and reports statistics. Optional: without
	// it the upload, stats and clear tools report an error.
	Ingest driving.IngestService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.RAG == nil {
		return ErrMissingRAGService
	}
	return nil
}
