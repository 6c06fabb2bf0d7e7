package services

import (
	"context"
	"fmt"
	"math"

	"github.com/custodia-labs/polyglot/internal/core/domain"
	"github.com/custodia-labs/polyglot/internal/core/ports/driven"
	"github.com/custodia-labs/polyglot/internal/core/ports/driving"
	"github.com/custodia-labs/polyglot/internal/logger"
)

// Ensure IndexService implements the interface.
var _ driving.IndexService = (*IndexService)(nil)

// defaultEmbedBatch bounds the texts sent per embedding request.
const defaultEmbedBatch = 32

// IndexService embeds chunks and stores them in a vector store.
type IndexService struct {
	embedder  driven.EmbeddingService
	store     driven.VectorStore
	batchSize int
}

// NewIndexService creates a new index service.
func NewIndexService(embedder driven.EmbeddingService, store driven.VectorStore) *IndexService {
	return &IndexService{
		embedder:  embedder,
		store:     store,
		batchSize: defaultEmbedBatch,
	}
}

// Index embeds and stores chunks. Each chunk is stored on its own, so a
// cancelled or failed call leaves the chunks stored so far searchable.
func (s *IndexService) Index(ctx context.Context, chunks []domain.Chunk) error {
	if err := s.ready(); err != nil {
		return err
	}
	logger.Debug("Indexing %d chunks with %s", len(chunks), s.embedder.ModelName())
	defer logger.Timed("index")()

	for start := 0; start < len(chunks); start += s.batchSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		batch := chunks[start:min(start+s.batchSize, len(chunks))]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Content
		}
		vectors, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return fmt.Errorf("embed chunks: %w", err)
		}
		if len(vectors) != len(batch) {
			return domain.NewInvalidResponseError(s.embedder.ModelName(), "embed",
				fmt.Sprintf("got %d embeddings for %d texts", len(vectors), len(batch)))
		}

		for i, chunk := range batch {
			if err := ctx.Err(); err != nil {
				return err
			}
			chunk.Embedding = vectors[i]
			if err := s.store.Upsert(ctx, chunk); err != nil {
				return fmt.Errorf("store chunk %s: %w", chunk.ID, err)
			}
		}
	}
	return nil
}

// Search embeds text and returns at most topK chunks by descending
// similarity. An empty index yields an empty slice.
func (s *IndexService) Search(ctx context.Context, text string, topK int, filter *domain.Language) ([]domain.ScoredChunk, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if topK <= 0 {
		topK = domain.DefaultTopK
	}

	query, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	results, err := s.store.Search(ctx, query, topK, filter)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	for i := range results {
		results[i].Score = clampScore(results[i].Score)
	}
	logger.Debug("Vector search returned %d chunks (top_k=%d)", len(results), topK)
	return results, nil
}

// DeleteDocument removes a document's chunks.
func (s *IndexService) DeleteDocument(ctx context.Context, documentID string) error {
	if s.store == nil {
		return domain.ErrVectorIndexUnavailable
	}
	return s.store.DeleteDocument(ctx, documentID)
}

// DeleteAll empties the index.
func (s *IndexService) DeleteAll(ctx context.Context) error {
	if s.store == nil {
		return domain.ErrVectorIndexUnavailable
	}
	return s.store.DeleteAll(ctx)
}

// Stats describes the index contents.
func (s *IndexService) Stats(ctx context.Context) (domain.IndexStats, error) {
	if s.store == nil {
		return domain.IndexStats{}, domain.ErrVectorIndexUnavailable
	}
	return s.store.Stats(ctx)
}

func (s *IndexService) ready() error {
	if s.embedder == nil {
		return domain.ErrEmbeddingUnavailable
	}
	if s.store == nil {
		return domain.ErrVectorIndexUnavailable
	}
	return nil
}

// clampScore maps a cosine similarity onto [0,1]. Opposite vectors are
// as irrelevant as orthogonal ones.
func clampScore(score float64) float64 {
	if math.IsNaN(score) || score < 0 {
		return 0
	}
	return min(score, 1)
}
