package driven

import (
	"context"

	"github.com/custodia-labs/polyglot/internal/core/domain"
)

// PostProcessor is one stage of document processing after normalisation.
// The first stage receives nil chunks and splits doc.Content; later stages
// annotate what they are given and must keep chunk order and ownership.
type PostProcessor interface {
	Name() string
	Process(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error)
}

// PostProcessorPipeline turns a normalised document into tagged chunks.
type PostProcessorPipeline interface {
	Process(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error)
}
