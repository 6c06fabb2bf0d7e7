package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/polyglot/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/polyglot/internal/core/domain"
)

func indexChunks(doc, name string, lang domain.Language, contents ...string) []domain.Chunk {
	chunks := make([]domain.Chunk, len(contents))
	for i, c := range contents {
		chunks[i] = domain.Chunk{
			ID:           domain.ChunkID(doc, i),
			DocumentID:   doc,
			DocumentName: name,
			Seq:          i,
			Content:      c,
			Language:     lang,
		}
	}
	return chunks
}

func TestIndexService_SearchRanksBySimilarity(t *testing.T) {
	ctx := context.Background()
	svc := NewIndexService(&mockEmbeddingService{}, memory.NewVectorStore())

	require.NoError(t, svc.Index(ctx, indexChunks("d1", "hr.txt", domain.LanguageEnglish,
		"Vacation policy: 25 days of vacation per year.",
		"Salary is paid monthly.",
		"Security badges are required.",
	)))

	results, err := svc.Search(ctx, "¿Cuál es la política de vacaciones?", 2, nil)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "d1:0", results[0].Chunk.ID)
	assert.GreaterOrEqual(t, results[0].Score, results[1].Score)
	for _, r := range results {
		assert.GreaterOrEqual(t, r.Score, 0.0)
		assert.LessOrEqual(t, r.Score, 1.0)
	}
}

func TestIndexService_SearchBound(t *testing.T) {
	ctx := context.Background()
	svc := NewIndexService(&mockEmbeddingService{}, memory.NewVectorStore())
	require.NoError(t, svc.Index(ctx, indexChunks("d1", "a.txt", domain.LanguageEnglish, "salary", "vacation", "security")))

	tests := []struct {
		topK int
		want int
	}{
		{1, 1},
		{3, 3},
		{10, 3},
		{0, 3}, // default top-k of 5, bounded by the index size
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("top_k=%d", tt.topK), func(t *testing.T) {
			results, err := svc.Search(ctx, "salary", tt.topK, nil)
			require.NoError(t, err)
			assert.Len(t, results, tt.want)
			for i := 1; i < len(results); i++ {
				assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
			}
		})
	}
}

func TestIndexService_SearchEmptyIndex(t *testing.T) {
	svc := NewIndexService(&mockEmbeddingService{}, memory.NewVectorStore())

	results, err := svc.Search(context.Background(), "anything", 5, nil)

	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestIndexService_LanguageFilter(t *testing.T) {
	ctx := context.Background()
	svc := NewIndexService(&mockEmbeddingService{}, memory.NewVectorStore())
	require.NoError(t, svc.Index(ctx, indexChunks("en", "en.txt", domain.LanguageEnglish, "vacation policy")))
	require.NoError(t, svc.Index(ctx, indexChunks("fr", "fr.txt", domain.LanguageFrench, "politique de congés")))

	fr := domain.LanguageFrench
	results, err := svc.Search(ctx, "vacation", 5, &fr)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, domain.LanguageFrench, results[0].Chunk.Language)

	ja := domain.LanguageJapanese
	results, err = svc.Search(ctx, "vacation", 5, &ja)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestIndexService_BatchesEmbeddings(t *testing.T) {
	embedder := &mockEmbeddingService{}
	svc := NewIndexService(embedder, memory.NewVectorStore())
	svc.batchSize = 2

	contents := []string{"a", "b", "c", "d", "e"}
	require.NoError(t, svc.Index(context.Background(), indexChunks("d", "d.txt", domain.LanguageEnglish, contents...)))

	assert.Equal(t, 3, embedder.calls)
	assert.Equal(t, contents, embedder.texts)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, stats.Chunks)
}

func TestIndexService_EmbeddingCountMismatch(t *testing.T) {
	svc := NewIndexService(&mockEmbeddingService{short: true}, memory.NewVectorStore())

	err := svc.Index(context.Background(), indexChunks("d", "d.txt", domain.LanguageEnglish, "a", "b"))

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidResponse)
}

func TestIndexService_EmbeddingFailure(t *testing.T) {
	providerErr := domain.NewProviderError("ollama", "embed", 503, "down", nil)
	svc := NewIndexService(&mockEmbeddingService{err: providerErr}, memory.NewVectorStore())

	err := svc.Index(context.Background(), indexChunks("d", "d.txt", domain.LanguageEnglish, "a"))
	assert.ErrorIs(t, err, domain.ErrServiceUnavailable)

	_, err = svc.Search(context.Background(), "a", 1, nil)
	assert.ErrorIs(t, err, domain.ErrServiceUnavailable)
}

func TestIndexService_CancelledKeepsStoredChunks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	store := memory.NewVectorStore()
	svc := NewIndexService(&mockEmbeddingService{}, store)
	svc.batchSize = 1

	require.NoError(t, svc.Index(ctx, indexChunks("d", "d.txt", domain.LanguageEnglish, "a")))
	cancel()
	err := svc.Index(ctx, indexChunks("e", "e.txt", domain.LanguageEnglish, "b", "c"))

	assert.True(t, errors.Is(err, context.Canceled))
	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Chunks)
}

func TestIndexService_DeleteAndStats(t *testing.T) {
	ctx := context.Background()
	svc := NewIndexService(&mockEmbeddingService{}, memory.NewVectorStore())
	require.NoError(t, svc.Index(ctx, indexChunks("a", "a.txt", domain.LanguageEnglish, "x", "y")))
	require.NoError(t, svc.Index(ctx, indexChunks("b", "b.txt", domain.LanguageGerman, "z")))

	require.NoError(t, svc.DeleteDocument(ctx, "a"))
	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Chunks)
	assert.Equal(t, []string{"b.txt"}, stats.Files)

	require.NoError(t, svc.DeleteAll(ctx))
	stats, err = svc.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Chunks)
	assert.Zero(t, stats.Documents)
	assert.Zero(t, stats.LanguageCount)
	assert.Empty(t, stats.Languages)
	assert.Empty(t, stats.Files)
}

func TestIndexService_Unavailable(t *testing.T) {
	ctx := context.Background()

	err := NewIndexService(nil, memory.NewVectorStore()).Index(ctx, nil)
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)

	_, err = NewIndexService(&mockEmbeddingService{}, nil).Search(ctx, "q", 1, nil)
	assert.ErrorIs(t, err, domain.ErrVectorIndexUnavailable)
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 0.0, clampScore(-0.4))
	assert.Equal(t, 0.5, clampScore(0.5))
	assert.Equal(t, 1.0, clampScore(1.0000001))
}
