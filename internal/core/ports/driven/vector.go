package driven

import (
	"context"

	"github.com/custodia-labs/polyglot/internal/core/domain"
)

// VectorStore persists embedded chunks and answers similarity queries.
//
// Writes are atomic per chunk and last-write-wins on an identical chunk ID.
// A replaced chunk keeps its original insertion position.
type VectorStore interface {
	// Upsert stores a chunk with its embedding.
	// Returns domain.ErrDimensionMismatch if the embedding does not match
	// the vectors already stored.
	Upsert(ctx context.Context, chunk domain.Chunk) error

	// Search returns at most k chunks ordered by cosine similarity,
	// highest first, ties by insertion order. When filter is set only
	// chunks in that language are considered. An empty store returns an
	// empty slice and no error.
	Search(ctx context.Context, query []float32, k int, filter *domain.Language) ([]domain.ScoredChunk, error)

	// DeleteDocument removes every chunk of a document.
	DeleteDocument(ctx context.Context, documentID string) error

	// DeleteAll removes every chunk.
	DeleteAll(ctx context.Context) error

	// Stats reports counts and the distinct languages and files.
	Stats(ctx context.Context) (domain.IndexStats, error)

	// Close releases resources.
	Close() error
}
