package driving

import (
	"context"

	"github.com/custodia-labs/polyglot/internal/core/domain"
)

// IndexService embeds chunks and retrieves them by semantic similarity.
type IndexService interface {
	// Index embeds and stores chunks. Each chunk is stored atomically;
	// on cancellation the chunks stored so far remain searchable.
	Index(ctx context.Context, chunks []domain.Chunk) error

	// Search embeds text and returns at most topK chunks with scores in
	// [0,1], highest first. A nil filter searches every language.
	Search(ctx context.Context, text string, topK int, filter *domain.Language) ([]domain.ScoredChunk, error)

	// DeleteDocument removes a document's chunks.
	DeleteDocument(ctx context.Context, documentID string) error

	// DeleteAll removes every chunk.
	DeleteAll(ctx context.Context) error

	// Stats reports index contents.
	Stats(ctx context.Context) (domain.IndexStats, error)
}
