package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/polyglot/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)
	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

func testChunk(docID string, seq int, lang domain.Language, embedding ...float32) domain.Chunk {
	return domain.Chunk{
		ID:           domain.ChunkID(docID, seq),
		DocumentID:   docID,
		DocumentName: docID + ".txt",
		Seq:          seq,
		Content:      "content of " + domain.ChunkID(docID, seq),
		Start:        seq * 10,
		End:          seq*10 + 10,
		Language:     lang,
		Confidence:   0.9,
		Embedding:    embedding,
	}
}

func TestNewStore_Success(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dir, "polyglot.db"), store.Path())
	_, err = os.Stat(store.Path())
	assert.NoError(t, err)
}

func TestNewStore_DirectoryCreation(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewStore_MigrationsRecorded(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	var version int
	require.NoError(t, store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 1, version)
	require.NoError(t, store.Close())

	// Reopening must not reapply migrations.
	store, err = NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	var count int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestVectorStore_UpsertAndSearch(t *testing.T) {
	store := setupTestStore(t)
	vs := store.VectorStore()
	ctx := context.Background()

	require.NoError(t, vs.Upsert(ctx, testChunk("a", 0, domain.LanguageEnglish, 1, 0, 0)))
	require.NoError(t, vs.Upsert(ctx, testChunk("a", 1, domain.LanguageEnglish, 0, 1, 0)))
	require.NoError(t, vs.Upsert(ctx, testChunk("b", 0, domain.LanguageSpanish, 0.9, 0.1, 0)))

	results, err := vs.Search(ctx, []float32{1, 0, 0}, 2, nil)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "a:0", results[0].Chunk.ID)
	assert.InDelta(t, 1.0, results[0].Score, 1e-6)
	assert.Equal(t, "b:0", results[1].Chunk.ID)
	assert.GreaterOrEqual(t, results[0].Score, results[1].Score)

	got := results[0].Chunk
	assert.Equal(t, "a", got.DocumentID)
	assert.Equal(t, "a.txt", got.DocumentName)
	assert.Equal(t, domain.LanguageEnglish, got.Language)
	assert.Equal(t, 0, got.Start)
	assert.Equal(t, 10, got.End)
	assert.Nil(t, got.Embedding)
}

func TestVectorStore_SearchEmptyIndex(t *testing.T) {
	store := setupTestStore(t)

	results, err := store.VectorStore().Search(context.Background(), []float32{1, 2}, 5, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.NotNil(t, results)
}

func TestVectorStore_SearchLanguageFilter(t *testing.T) {
	store := setupTestStore(t)
	vs := store.VectorStore()
	ctx := context.Background()

	require.NoError(t, vs.Upsert(ctx, testChunk("en", 0, domain.LanguageEnglish, 1, 0)))
	require.NoError(t, vs.Upsert(ctx, testChunk("es", 0, domain.LanguageSpanish, 1, 0)))

	filter := domain.LanguageSpanish
	results, err := vs.Search(ctx, []float32{1, 0}, 5, &filter)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, domain.LanguageSpanish, results[0].Chunk.Language)

	filter = domain.LanguageGerman
	results, err = vs.Search(ctx, []float32{1, 0}, 5, &filter)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestVectorStore_TiesKeepInsertionOrder(t *testing.T) {
	store := setupTestStore(t)
	vs := store.VectorStore()
	ctx := context.Background()

	for i := range 4 {
		require.NoError(t, vs.Upsert(ctx, testChunk("doc", i, domain.LanguageEnglish, 1, 1)))
	}
	// Replacing an existing ID keeps its original position.
	require.NoError(t, vs.Upsert(ctx, testChunk("doc", 0, domain.LanguageEnglish, 2, 2)))

	results, err := vs.Search(ctx, []float32{1, 1}, 4, nil)
	require.NoError(t, err)
	require.Len(t, results, 4)
	for i, r := range results {
		assert.Equal(t, domain.ChunkID("doc", i), r.Chunk.ID)
	}
}

func TestVectorStore_DimensionMismatch(t *testing.T) {
	store := setupTestStore(t)
	vs := store.VectorStore()
	ctx := context.Background()

	require.NoError(t, vs.Upsert(ctx, testChunk("a", 0, domain.LanguageEnglish, 1, 0, 0)))

	err := vs.Upsert(ctx, testChunk("a", 1, domain.LanguageEnglish, 1, 0))
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)

	_, err = vs.Search(ctx, []float32{1, 0}, 3, nil)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestVectorStore_UpsertRequiresEmbedding(t *testing.T) {
	store := setupTestStore(t)

	err := store.VectorStore().Upsert(context.Background(), testChunk("a", 0, domain.LanguageEnglish))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestVectorStore_DeleteDocumentAndStats(t *testing.T) {
	store := setupTestStore(t)
	vs := store.VectorStore()
	ctx := context.Background()

	require.NoError(t, vs.Upsert(ctx, testChunk("b", 0, domain.LanguageSpanish, 1, 0)))
	require.NoError(t, vs.Upsert(ctx, testChunk("b", 1, domain.LanguageSpanish, 0, 1)))
	require.NoError(t, vs.Upsert(ctx, testChunk("a", 0, domain.LanguageEnglish, 1, 1)))

	stats, err := vs.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Chunks)
	assert.Equal(t, 2, stats.Documents)
	assert.Equal(t, []domain.Language{domain.LanguageEnglish, domain.LanguageSpanish}, stats.Languages)
	assert.Equal(t, 2, stats.LanguageCount)
	assert.Equal(t, []string{"a.txt", "b.txt"}, stats.Files)

	require.NoError(t, vs.DeleteDocument(ctx, "b"))
	stats, err = vs.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Chunks)
	assert.Equal(t, []string{"a.txt"}, stats.Files)

	require.NoError(t, vs.DeleteAll(ctx))
	stats, err = vs.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Chunks)
	assert.Empty(t, stats.Languages)

	// An emptied index accepts a new embedding size.
	require.NoError(t, vs.Upsert(ctx, testChunk("c", 0, domain.LanguageEnglish, 1, 2, 3, 4)))
}

func TestVectorStore_MetadataRoundTrip(t *testing.T) {
	store := setupTestStore(t)
	vs := store.VectorStore()
	ctx := context.Background()

	chunk := testChunk("a", 0, domain.LanguageEnglish, 1, 0)
	chunk.Metadata = map[string]any{"page": float64(3)}
	require.NoError(t, vs.Upsert(ctx, chunk))

	results, err := vs.Search(ctx, []float32{1, 0}, 1, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, chunk.Metadata, results[0].Chunk.Metadata)
}

func TestVectorStore_ConcurrentUpserts(t *testing.T) {
	store := setupTestStore(t)
	vs := store.VectorStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, vs.Upsert(ctx, testChunk("doc", i, domain.LanguageEnglish, float32(i+1), 1)))
		}(i)
	}
	wg.Wait()

	stats, err := vs.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, stats.Chunks)
}

func TestDocumentStore_SaveGetList(t *testing.T) {
	store := setupTestStore(t)
	ds := store.DocumentStore()
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	docs := []*domain.Document{
		{ID: "2", Name: "zeta.pdf", Format: domain.FormatPDF, Language: domain.LanguageGerman, Size: 42, ChunkCount: 3, IngestedAt: now},
		{ID: "1", Name: "alpha.txt", Format: domain.FormatText, Language: domain.LanguageEnglish, Size: 7, ChunkCount: 1, Content: "dropped", IngestedAt: now},
	}
	for _, d := range docs {
		require.NoError(t, ds.SaveDocument(ctx, d))
	}

	got, err := ds.GetDocument(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, "zeta.pdf", got.Name)
	assert.Equal(t, domain.FormatPDF, got.Format)
	assert.Equal(t, domain.LanguageGerman, got.Language)
	assert.Equal(t, int64(42), got.Size)
	assert.Equal(t, 3, got.ChunkCount)
	assert.True(t, now.Equal(got.IngestedAt))

	list, err := ds.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "alpha.txt", list[0].Name)
	assert.Empty(t, list[0].Content)
}

func TestDocumentStore_NotFoundAndDelete(t *testing.T) {
	store := setupTestStore(t)
	ds := store.DocumentStore()
	ctx := context.Background()

	_, err := ds.GetDocument(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, ds.SaveDocument(ctx, &domain.Document{ID: "x", Name: "x.md", Format: domain.FormatMarkdown, IngestedAt: time.Now()}))
	require.NoError(t, ds.DeleteDocument(ctx, "x"))
	_, err = ds.GetDocument(ctx, "x")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, ds.SaveDocument(ctx, &domain.Document{ID: "y", Name: "y.md", Format: domain.FormatMarkdown, IngestedAt: time.Now()}))
	require.NoError(t, ds.Clear(ctx))
	list, err := ds.ListDocuments(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTranslationStore_PutGetClear(t *testing.T) {
	store := setupTestStore(t)
	ts := store.TranslationStore()
	ctx := context.Background()

	// High bit set to exercise the signed column.
	key := domain.TranslationKey{TextHash: 1<<63 + 5, Source: domain.LanguageEnglish, Target: domain.LanguageJapanese, Cultural: true}

	_, ok, err := ts.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, ts.Put(ctx, domain.TranslationEntry{Key: key, Text: "こんにちは", CreatedAt: time.Now()}))

	entry, ok, err := ts.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "こんにちは", entry.Text)
	assert.Equal(t, key, entry.Key)

	// The cultural flag is part of the key.
	other := key
	other.Cultural = false
	_, ok, err = ts.Get(ctx, other)
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := ts.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, ts.Clear(ctx))
	n, err = ts.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStore_ContextCancellation(t *testing.T) {
	store := setupTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.VectorStore().Upsert(ctx, testChunk("a", 0, domain.LanguageEnglish, 1))
	assert.Error(t, err)
}
