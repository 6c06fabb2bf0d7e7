// Package langtag tags every chunk with its own detected language.
package langtag

import (
	"context"
	"fmt"

	"github.com/custodia-labs/polyglot/internal/core/domain"
	"github.com/custodia-labs/polyglot/internal/core/ports/driving"
	"github.com/custodia-labs/polyglot/internal/logger"
)

// Processor runs language detection on each chunk independently.
// A chunk never inherits the document's language.
// It implements the PostProcessor interface.
type Processor struct {
	detector driving.LanguageDetector
}

// New creates a language tagging processor.
func New(detector driving.LanguageDetector) *Processor {
	return &Processor{detector: detector}
}

// Name is the pipeline stage name.
const Name = "langtag"

// Name returns the stage name.
func (p *Processor) Name() string {
	return Name
}

// Process sets Language and Confidence on every chunk.
func (p *Processor) Process(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error) {
	if p.detector == nil {
		return nil, fmt.Errorf("langtag: no language detector")
	}

	for i := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		d := p.detector.Detect(chunks[i].Content)
		chunks[i].Language = d.Language
		chunks[i].Confidence = d.Confidence
		if !d.Reliable {
			logger.Debug("chunk %s: short span, tagged %s by default", chunks[i].ID, d.Language)
		}
	}

	if doc != nil {
		logger.Debug("tagged %d chunks of %s", len(chunks), doc.Name)
	}
	return chunks, nil
}
