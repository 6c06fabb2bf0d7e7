package postprocessors

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/polyglot/internal/core/domain"
)

// stubStage returns fixed chunks, or passes its input through.
type stubStage struct {
	name   string
	chunks []domain.Chunk
	err    error
	seen   []domain.Chunk
	calls  int
}

func (s *stubStage) Name() string { return s.name }

func (s *stubStage) Process(_ context.Context, _ *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error) {
	s.calls++
	s.seen = chunks
	if s.err != nil {
		return nil, s.err
	}
	if s.chunks != nil {
		return s.chunks, nil
	}
	return chunks, nil
}

func TestPipeline_NilDocument(t *testing.T) {
	_, err := NewPipeline().Process(context.Background(), nil)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPipeline_NoStages(t *testing.T) {
	chunks, err := NewPipeline().Process(context.Background(), &domain.Document{ID: "doc", Content: "text"})

	require.NoError(t, err)
	assert.Nil(t, chunks)
}

func TestPipeline_RunsStagesInOrder(t *testing.T) {
	first := &stubStage{name: "chunker", chunks: []domain.Chunk{{ID: "doc:0", DocumentID: "doc", Content: "Hola"}}}
	second := &stubStage{name: "langtag"}

	p := NewPipeline(first, second)
	chunks, err := p.Process(context.Background(), &domain.Document{ID: "doc"})

	require.NoError(t, err)
	assert.Nil(t, first.seen)
	require.Len(t, second.seen, 1)
	assert.Equal(t, "doc:0", second.seen[0].ID)
	assert.Len(t, chunks, 1)
	assert.Equal(t, []string{"chunker", "langtag"}, p.Stages())
}

func TestPipeline_StageError(t *testing.T) {
	failing := &stubStage{name: "chunker", err: domain.ErrEmptyInput}
	next := &stubStage{name: "langtag"}

	_, err := NewPipeline(failing, next).Process(context.Background(), &domain.Document{ID: "doc"})

	require.ErrorIs(t, err, domain.ErrEmptyInput)
	assert.EqualError(t, err, "processor chunker: "+domain.ErrEmptyInput.Error())
	assert.Zero(t, next.calls)
}

func TestPipeline_RejectsForeignChunks(t *testing.T) {
	stage := &stubStage{name: "chunker", chunks: []domain.Chunk{{ID: "other:0", DocumentID: "other"}}}

	_, err := NewPipeline(stage).Process(context.Background(), &domain.Document{ID: "doc"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), `belongs to "other"`)
}

func TestPipeline_StopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	stage := &stubStage{name: "chunker"}

	_, err := NewPipeline(stage).Process(ctx, &domain.Document{ID: "doc"})

	assert.True(t, errors.Is(err, context.Canceled))
	assert.Zero(t, stage.calls)
}
