// Package tui provides an interactive terminal user interface for polyglot.
// It is a driving adapter over the same services the CLI uses.
package tui

import (
	"github.com/custodia-labs/polyglot/internal/core/ports/driving"
)

// Ports aggregates the driving ports the TUI talks to.
type Ports struct {
	// RAG answers questions.
	RAG driving.RAGService

	// Ingest lists documents and reports statistics. Optional.
	Ingest driving.IngestService

	// Settings reads and updates provider configuration. Optional.
	Settings driving.SettingsService
}

// Validate ensures the required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.RAG == nil {
		return ErrMissingRAGService
	}
	return nil
}
