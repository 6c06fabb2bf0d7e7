package langtag

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/polyglot/internal/core/domain"
)

// --- Mock implementations ---

// prefixDetector tags text by a leading language marker, e.g. "fr: ...".
type prefixDetector struct {
	calls []string
}

func (d *prefixDetector) Detect(text string) domain.Detection {
	d.calls = append(d.calls, text)
	code, _, ok := strings.Cut(text, ":")
	lang, err := domain.ParseLanguage(code)
	if !ok || err != nil {
		return domain.Detection{Language: domain.LanguageEnglish, Confidence: 0, Reliable: false}
	}
	return domain.Detection{Language: lang, Confidence: 0.9, Reliable: true}
}

func TestProcessor_Name(t *testing.T) {
	assert.Equal(t, "langtag", New(nil).Name())
}

func TestProcessor_TagsEachChunkIndependently(t *testing.T) {
	det := &prefixDetector{}
	p := New(det)
	doc := &domain.Document{ID: "doc", Name: "mixed.txt", Language: domain.LanguageGerman}
	chunks := []domain.Chunk{
		{ID: "doc:0", Content: "fr: Bonjour"},
		{ID: "doc:1", Content: "ja: こんにちは"},
		{ID: "doc:2", Content: "??"},
	}

	tagged, err := p.Process(context.Background(), doc, chunks)

	require.NoError(t, err)
	require.Len(t, tagged, 3)
	assert.Equal(t, domain.LanguageFrench, tagged[0].Language)
	assert.InDelta(t, 0.9, tagged[0].Confidence, 1e-9)
	assert.Equal(t, domain.LanguageJapanese, tagged[1].Language)
	// Falls back to the detector default, not the document's language.
	assert.Equal(t, domain.LanguageEnglish, tagged[2].Language)
	assert.Len(t, det.calls, 3)
}

func TestProcessor_NoChunks(t *testing.T) {
	tagged, err := New(&prefixDetector{}).Process(context.Background(), &domain.Document{}, nil)

	require.NoError(t, err)
	assert.Empty(t, tagged)
}

func TestProcessor_NilDetector(t *testing.T) {
	_, err := New(nil).Process(context.Background(), &domain.Document{}, []domain.Chunk{{}})

	assert.Error(t, err)
}

func TestProcessor_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(&prefixDetector{}).Process(ctx, &domain.Document{}, []domain.Chunk{{Content: "fr: x"}})

	assert.ErrorIs(t, err, context.Canceled)
}
