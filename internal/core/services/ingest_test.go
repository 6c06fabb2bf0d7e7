package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/polyglot/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/polyglot/internal/core/domain"
	"github.com/custodia-labs/polyglot/internal/postprocessors"
	"github.com/custodia-labs/polyglot/internal/postprocessors/chunker"
	"github.com/custodia-labs/polyglot/internal/postprocessors/langtag"
)

// handbook is three paragraphs that split into exactly three chunks with
// a chunk size of 60, overlap of 10 and tolerance of 10.
var handbook = strings.Join([]string{
	"The vacation policy gives every employee 25 days.",
	"The salary is paid on the last day of the month.",
	"The security team reviews badges every quarter.",
}, "\n\n")

// system wires ingestion and answering over shared in-memory stores.
type system struct {
	*ragFixture
	documents *memory.DocumentStore
	ingest    *IngestService
}

func newSystem(cfg IngestConfig) *system {
	f := newRAGFixture(defaultRAGConfig())
	pipeline := postprocessors.NewPipeline(
		chunker.New(chunker.WithChunkSize(60), chunker.WithOverlap(10), chunker.WithTolerance(10)),
		langtag.New(mockDetector{}),
	)
	extractors := &mockExtractorRegistry{extractor: &mockExtractor{
		formats: []domain.FileFormat{domain.FormatText, domain.FormatMarkdown},
	}}
	documents := memory.NewDocumentStore()
	return &system{
		ragFixture: f,
		documents:  documents,
		ingest:     NewIngestService(extractors, pipeline, mockDetector{}, f.index, documents, f.cache, cfg),
	}
}

func TestIngestService_Ingest(t *testing.T) {
	ctx := context.Background()
	s := newSystem(IngestConfig{})

	doc, err := s.ingest.Ingest(ctx, domain.Upload{Name: "uploads/handbook.txt", Data: []byte(handbook)})
	require.NoError(t, err)

	assert.Equal(t, DocumentID("handbook.txt"), doc.ID)
	assert.Equal(t, "handbook.txt", doc.Name)
	assert.Equal(t, domain.FormatText, doc.Format)
	assert.Equal(t, domain.LanguageEnglish, doc.Language)
	assert.Equal(t, int64(len(handbook)), doc.Size)
	assert.Equal(t, 3, doc.ChunkCount)
	assert.Empty(t, doc.Content)
	assert.False(t, doc.IngestedAt.IsZero())

	docs, err := s.ingest.Documents(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, doc.ID, docs[0].ID)

	stats, err := s.ingest.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Index.Chunks)
	assert.Equal(t, 1, stats.Index.Documents)
	assert.Equal(t, []domain.Language{domain.LanguageEnglish}, stats.Index.Languages)
	assert.Equal(t, []string{"handbook.txt"}, stats.Index.Files)
	assert.Equal(t, domain.SupportedLanguages(), stats.SupportedLanguages)
}

func TestIngestService_ReuploadReplaces(t *testing.T) {
	ctx := context.Background()
	s := newSystem(IngestConfig{})

	_, err := s.ingest.Ingest(ctx, domain.Upload{Name: "handbook.txt", Data: []byte(handbook)})
	require.NoError(t, err)
	doc, err := s.ingest.Ingest(ctx, domain.Upload{Name: "handbook.txt", Data: []byte("Die Sicherheit der Daten ist wichtig.")})
	require.NoError(t, err)

	assert.Equal(t, domain.LanguageGerman, doc.Language)
	stats, err := s.ingest.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Index.Chunks)
	assert.Equal(t, []domain.Language{domain.LanguageGerman}, stats.Index.Languages)

	docs, err := s.ingest.Documents(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestIngestService_FailedReuploadRemovesStaleRecord(t *testing.T) {
	ctx := context.Background()
	s := newSystem(IngestConfig{})

	_, err := s.ingest.Ingest(ctx, domain.Upload{Name: "handbook.txt", Data: []byte(handbook)})
	require.NoError(t, err)

	s.embedder.err = domain.NewProviderError("ollama", "embed", 503, "down", nil)
	_, err = s.ingest.Ingest(ctx, domain.Upload{Name: "handbook.txt", Data: []byte("Die Sicherheit der Daten ist wichtig.")})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrServiceUnavailable)

	docs, err := s.ingest.Documents(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)
	stats, err := s.ingest.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Index.Chunks)
}

func TestIngestService_ChunksTaggedIndividually(t *testing.T) {
	ctx := context.Background()
	s := newSystem(IngestConfig{})
	mixed := "The vacation policy is generous and the team is happy.\n\n" +
		"Die Sicherheit der Daten ist die Aufgabe der Abteilung."

	_, err := s.ingest.Ingest(ctx, domain.Upload{Name: "mixed.md", Data: []byte(mixed)})
	require.NoError(t, err)

	stats, err := s.ingest.Stats(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.Language{domain.LanguageEnglish, domain.LanguageGerman}, stats.Index.Languages)
}

func TestIngestService_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		cfg    IngestConfig
		upload domain.Upload
		want   error
	}{
		{"unknown extension", IngestConfig{}, domain.Upload{Name: "a.exe", Data: []byte("x")}, domain.ErrUnsupportedFormat},
		{"format not allowed", IngestConfig{AllowedFormats: []domain.FileFormat{domain.FormatPDF}}, domain.Upload{Name: "a.txt", Data: []byte("x")}, domain.ErrUnsupportedFormat},
		{"too large", IngestConfig{MaxFileSize: 4}, domain.Upload{Name: "a.txt", Data: []byte("hello")}, domain.ErrFileTooLarge},
		{"empty file", IngestConfig{}, domain.Upload{Name: "a.txt"}, domain.ErrEmptyInput},
		{"only whitespace", IngestConfig{}, domain.Upload{Name: "a.txt", Data: []byte(" \n\t ")}, domain.ErrEmptyInput},
		{"no extractor", IngestConfig{}, domain.Upload{Name: "a.pdf", Data: []byte("%PDF")}, domain.ErrUnsupportedFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSystem(tt.cfg)

			_, err := s.ingest.Ingest(context.Background(), tt.upload)

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Zero(t, s.embedder.calls)
		})
	}
}

func TestIngestService_IngestFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "handbook.md")
	require.NoError(t, os.WriteFile(path, []byte(handbook), 0600))
	s := newSystem(IngestConfig{MaxFileSize: 1 << 20})

	doc, err := s.ingest.IngestFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "handbook.md", doc.Name)
	assert.Equal(t, domain.FormatMarkdown, doc.Format)

	_, err = s.ingest.IngestFile(context.Background(), filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)

	_, err = s.ingest.IngestFile(context.Background(), dir)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDocumentID_Stable(t *testing.T) {
	assert.Equal(t, DocumentID("a.txt"), DocumentID("a.txt"))
	assert.NotEqual(t, DocumentID("a.txt"), DocumentID("b.txt"))
	assert.Len(t, DocumentID("a.txt"), 36)
}

// End-to-end: an English document answers a French question in Spanish.
func TestSystem_CrossLingualAnswer(t *testing.T) {
	ctx := context.Background()
	s := newSystem(IngestConfig{})
	doc, err := s.ingest.Ingest(ctx, domain.Upload{Name: "handbook.txt", Data: []byte(handbook)})
	require.NoError(t, err)
	require.Equal(t, 3, doc.ChunkCount)

	result := s.rag.Answer(ctx, domain.Query{
		Text:   "Quelle est la politique de congés?",
		Target: domain.LanguageSpanish,
		Scope:  domain.ScopeAll,
	})

	require.Equal(t, domain.OutcomeOK, result.Outcome, result.Message)
	answer := result.Answer
	assert.NotEmpty(t, answer.Text)
	assert.Equal(t, domain.LanguageSpanish, answer.AnswerLanguage)
	require.NotEmpty(t, answer.Sources)
	for i, src := range answer.Sources {
		assert.Equal(t, "handbook.txt", src.FileName)
		if i > 0 {
			assert.GreaterOrEqual(t, answer.Sources[i-1].Similarity, src.Similarity)
		}
	}
	assert.Contains(t, answer.Context[0].Chunk.Content, "vacation")
}

// End-to-end: querying an empty index yields a no-results outcome.
func TestSystem_EmptyIndex(t *testing.T) {
	s := newSystem(IngestConfig{})

	result := s.rag.Answer(context.Background(), domain.Query{Text: "What is the vacation policy?", Target: domain.LanguageFrench})

	assert.False(t, result.Success())
	assert.Equal(t, domain.OutcomeNoResults, result.Outcome)
	assert.Equal(t, domain.NoResultsMessage(domain.LanguageFrench), result.Message)
}

// End-to-end: clearing leaves every count at zero.
func TestSystem_ClearThenStats(t *testing.T) {
	ctx := context.Background()
	s := newSystem(IngestConfig{})
	_, err := s.ingest.Ingest(ctx, domain.Upload{Name: "handbook.txt", Data: []byte(handbook)})
	require.NoError(t, err)
	_, err = s.cache.Translate(ctx, "Hello", domain.LanguageEnglish, domain.LanguageSpanish, false)
	require.NoError(t, err)

	require.NoError(t, s.ingest.Clear(ctx))

	stats, err := s.ingest.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Index.Chunks)
	assert.Zero(t, stats.Index.Documents)
	assert.Zero(t, stats.Index.LanguageCount)
	assert.Empty(t, stats.Index.Languages)
	assert.Empty(t, stats.Index.Files)
	assert.Equal(t, domain.CacheStats{}, stats.Cache)

	docs, err := s.ingest.Documents(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

// End-to-end: a scope with no documents in that language finds nothing
// even though the index is not empty.
func TestSystem_ScopeMissingLanguage(t *testing.T) {
	ctx := context.Background()
	s := newSystem(IngestConfig{})
	_, err := s.ingest.Ingest(ctx, domain.Upload{Name: "handbook.txt", Data: []byte(handbook)})
	require.NoError(t, err)

	result := s.rag.Answer(ctx, domain.Query{
		Text:   "What is the vacation policy?",
		Target: domain.LanguageEnglish,
		Scope:  domain.SearchScope(domain.LanguageJapanese),
	})

	assert.Equal(t, domain.OutcomeNoResults, result.Outcome)
	assert.Nil(t, result.Answer)
}
