package postprocessors

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/polyglot/internal/core/domain"
	"github.com/custodia-labs/polyglot/internal/core/ports/driven"
)

// fixedDetector tags everything with one language.
type fixedDetector struct {
	lang domain.Language
}

func (d fixedDetector) Detect(string) domain.Detection {
	return domain.Detection{Language: d.lang, Confidence: 1, Reliable: true}
}

func TestRegistry_BuildUnknown(t *testing.T) {
	_, err := NewRegistry().Build("stemmer", nil)

	require.ErrorIs(t, err, ErrUnknownProcessor)
	assert.Contains(t, err.Error(), "stemmer")
}

func TestRegistry_BuildPassesConfig(t *testing.T) {
	r := NewRegistry()
	var got map[string]any
	require.NoError(t, r.Register("probe", func(cfg map[string]any) (driven.PostProcessor, error) {
		got = cfg
		return &stubStage{name: "probe"}, nil
	}))

	stage, err := r.Build("probe", map[string]any{"k": 1})

	require.NoError(t, err)
	assert.Equal(t, "probe", stage.Name())
	assert.Equal(t, 1, got["k"])
}

func TestRegistry_DuplicateName(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, RegisterDefaults(r, fixedDetector{}))

	assert.Error(t, r.Register("chunker", buildChunker))
	assert.Error(t, RegisterDefaults(r, fixedDetector{}))
}

func TestRegisterDefaults(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, RegisterDefaults(r, fixedDetector{lang: domain.LanguageFrench}))

	assert.Equal(t, []string{"chunker", "langtag"}, r.Names())
}

func TestBuildChunker(t *testing.T) {
	valid := []map[string]any{
		nil,
		{"chunk_size": 500, "overlap": 100, "tolerance": 50},
		{"chunk_size": int64(500), "overlap": int64(0)},
		{"chunk_size": float64(800)},
	}
	for _, cfg := range valid {
		stage, err := buildChunker(cfg)
		require.NoError(t, err, cfg)
		assert.Equal(t, "chunker", stage.Name())
	}

	invalid := map[string]map[string]any{
		"string":   {"chunk_size": "400"},
		"fraction": {"overlap": 12.5},
		"negative": {"tolerance": -1},
	}
	for name, cfg := range invalid {
		_, err := buildChunker(cfg)
		assert.Error(t, err, name)
	}
}

func TestBuildPipeline_InvalidChunkerConfig(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, RegisterDefaults(r, fixedDetector{}))

	_, err := BuildPipeline(r, domain.PipelineConfig{
		Processors:       []string{"chunker"},
		ProcessorConfigs: map[string]map[string]any{"chunker": {"overlap": "lots"}},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "chunker: overlap")
}

func TestBuildPipeline_ChunksAndTags(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, RegisterDefaults(r, fixedDetector{lang: domain.LanguageFrench}))

	p, err := BuildPipeline(r, domain.PipelineConfigFor(domain.ChunkingSettings{Size: 40, Overlap: 5, Tolerance: 10}))
	require.NoError(t, err)
	assert.Equal(t, []string{"chunker", "langtag"}, p.Stages())

	doc := &domain.Document{ID: "doc", Name: "fr.txt", Content: strings.Repeat("Le chat dort. ", 10)}
	chunks, err := p.Process(context.Background(), doc)

	require.NoError(t, err)
	require.GreaterOrEqual(t, len(chunks), 2)
	for _, c := range chunks {
		assert.Equal(t, domain.LanguageFrench, c.Language, c.ID)
		assert.Equal(t, "fr.txt", c.DocumentName, c.ID)
	}
}

func TestBuildPipeline_UnknownProcessor(t *testing.T) {
	_, err := BuildPipeline(NewRegistry(), domain.PipelineConfig{Processors: []string{"missing"}})

	assert.ErrorIs(t, err, ErrUnknownProcessor)
}
