package normalisers

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/custodia-labs/polyglot/internal/core/domain"
	"github.com/custodia-labs/polyglot/internal/core/ports/driven"
	"github.com/custodia-labs/polyglot/internal/normalisers/docx"
	"github.com/custodia-labs/polyglot/internal/normalisers/markdown"
	"github.com/custodia-labs/polyglot/internal/normalisers/pdf"
	"github.com/custodia-labs/polyglot/internal/normalisers/plaintext"
	"github.com/custodia-labs/polyglot/internal/normalisers/table"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry dispatches extraction to the extractor registered for a format.
// A later registration for the same format replaces the earlier one.
type Registry struct {
	mu         sync.RWMutex
	extractors map[domain.FileFormat]driven.TextExtractor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		extractors: make(map[domain.FileFormat]driven.TextExtractor),
	}
}

// NewDefaultRegistry creates a registry with every built-in extractor.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}

// RegisterDefaults registers all built-in extractors with the registry.
func RegisterDefaults(r driven.ExtractorRegistry) {
	r.Register(plaintext.New())
	r.Register(markdown.New())
	r.Register(pdf.New())
	r.Register(docx.New())
	r.Register(table.NewCSV())
	r.Register(table.NewXLSX())
}

// Register adds an extractor for each of its formats.
func (r *Registry) Register(extractor driven.TextExtractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, format := range extractor.Formats() {
		r.extractors[format] = extractor
	}
}

// Extract uses the extractor registered for format.
func (r *Registry) Extract(ctx context.Context, format domain.FileFormat, data []byte) (string, error) {
	r.mu.RLock()
	extractor, ok := r.extractors[format]
	r.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%w: no extractor for %s", domain.ErrUnsupportedFormat, format)
	}
	return extractor.Extract(ctx, data)
}

// Formats returns all formats that can be extracted, sorted.
func (r *Registry) Formats() []domain.FileFormat {
	r.mu.RLock()
	defer r.mu.RUnlock()
	formats := make([]domain.FileFormat, 0, len(r.extractors))
	for format := range r.extractors {
		formats = append(formats, format)
	}
	slices.Sort(formats)
	return formats
}
