package driving

import (
	"context"

	"github.com/custodia-labs/polyglot/internal/core/domain"
)

// IngestService turns uploaded files into indexed, language-tagged chunks.
type IngestService interface {
	// Ingest extracts, chunks, tags and indexes one upload.
	// Uploading a name again replaces the previous version.
	Ingest(ctx context.Context, upload domain.Upload) (*domain.Document, error)

	// IngestFile reads path from disk and ingests it.
	IngestFile(ctx context.Context, path string) (*domain.Document, error)

	// Documents lists ingested documents.
	Documents(ctx context.Context) ([]domain.Document, error)

	// Stats aggregates index, cache and language information.
	Stats(ctx context.Context) (domain.SystemStats, error)

	// Clear removes all documents, chunks and cached translations.
	Clear(ctx context.Context) error
}
