package driven

import (
	"context"

	"github.com/custodia-labs/polyglot/internal/core/domain"
)

// TextExtractor pulls plain text out of one or more upload formats.
// Extraction failures wrap domain.ErrCorruptFile.
type TextExtractor interface {
	// Formats returns the formats this extractor handles.
	Formats() []domain.FileFormat

	// Extract returns the document text. Normalisation is the chunker's job.
	Extract(ctx context.Context, data []byte) (string, error)
}

// ExtractorRegistry dispatches extraction by file format.
type ExtractorRegistry interface {
	// Extract uses the extractor registered for format.
	// Returns domain.ErrUnsupportedFormat if none is registered.
	Extract(ctx context.Context, format domain.FileFormat, data []byte) (string, error)

	// Register adds an extractor for each of its formats.
	Register(extractor TextExtractor)

	// Formats returns all formats that can be extracted.
	Formats() []domain.FileFormat
}
